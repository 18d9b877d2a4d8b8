// Package module collects the native modules that ship with tinyscript.
package module

import (
	"github.com/ardnew/tinyscript/lang/interp"
	"github.com/ardnew/tinyscript/module/calc"
	"github.com/ardnew/tinyscript/module/codec"
	"github.com/ardnew/tinyscript/module/paths"
	"github.com/ardnew/tinyscript/module/sqldb"
	"github.com/ardnew/tinyscript/module/text"
)

// Default returns a registry holding every bundled module.
func Default() *interp.Registry {
	return interp.NewRegistry().
		Register(calc.Name, calc.Load).
		Register(codec.Name, codec.Load).
		Register(paths.Name, paths.Load).
		Register(sqldb.Name, sqldb.Load).
		Register(text.Name, text.Load)
}
