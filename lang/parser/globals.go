package parser

import (
	"slices"

	"github.com/ardnew/tinyscript/lang/ast"
)

// Globals is the set of names a script declares global, either with a
// top level global statement or by defining a named function. It is the
// payload of the script node returned by [Parse].
type Globals struct {
	names []string
}

// Add declares name. Duplicates are ignored.
func (g *Globals) Add(name string) {
	if !g.Has(name) {
		g.names = append(g.names, name)
	}
}

// Has reports whether name is declared global.
func (g *Globals) Has(name string) bool {
	return g != nil && slices.Contains(g.names, name)
}

// Names returns the declared names in declaration order.
func (g *Globals) Names() []string {
	if g == nil {
		return nil
	}

	return slices.Clone(g.names)
}

// Release implements [ast.Payload].
func (g *Globals) Release() { g.names = nil }

// GlobalsOf returns the declared-global set of a script node, or nil.
// Later passes that replace the script payload keep the set reachable by
// implementing Declared.
func GlobalsOf(root *ast.Node) *Globals {
	if root == nil {
		return nil
	}

	switch p := root.Payload.(type) {
	case *Globals:
		return p
	case interface{ Declared() *Globals }:
		return p.Declared()
	default:
		return nil
	}
}
