package cmd

import "github.com/ardnew/tinyscript/pkg"

var (
	ErrScript      = pkg.NewError("script failed")
	ErrInclude     = pkg.NewError("include failed")
	ErrDump        = pkg.NewError("dump failed")
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)
