//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the raw contents of the VERSION file embedded at build time.
//
//go:embed VERSION
var version string

// Version is the semantic version of the tinyscript module.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier. It appears in help
	// text, default config paths, and the REPL prompt.
	Name = "tinyscript"
	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "Small embeddable scripting language"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
