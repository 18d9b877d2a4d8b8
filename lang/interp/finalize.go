package interp

import (
	"log/slog"

	"github.com/ardnew/tinyscript/lang/ast"
	"github.com/ardnew/tinyscript/lang/parser"
	"github.com/ardnew/tinyscript/lang/value"
)

// FunctionType is the native type name of closure handles.
const FunctionType = "function"

// Binding classifies an identifier. Assigning to a name that is not yet
// bound creates it in the globals when Global is set and in the current
// locals otherwise.
type Binding struct {
	Global bool
}

// Release implements [ast.Payload].
func (*Binding) Release() {}

// Function is the native data of a closure handle: the function literal
// it was created from.
type Function struct {
	Node *ast.Node
}

// closure is the payload of a finalized function literal. It owns the
// handle that every evaluation of the literal hands out.
type closure struct {
	handle value.Value
}

func (c *closure) Release() { c.handle.Release() }

// finalized replaces the script payload once the tree is finalized.
type finalized struct {
	globals *parser.Globals
}

func (f *finalized) Declared() *parser.Globals { return f.globals }

func (f *finalized) Release() {
	if f.globals != nil {
		f.globals.Release()
	}
}

// Finalize prepares a parsed script for evaluation. It validates the tree,
// classifies every identifier using the script's declared-global set and
// attaches a closure handle to every function literal.
//
// A malformed tree is left untouched and [ErrMalformedAST] is returned.
// Finalizing the same tree twice returns [ErrFinalized].
func Finalize(root *ast.Node) error {
	if root == nil || root.Symbol != ast.Script {
		return ErrNotScript
	}

	if _, ok := root.Payload.(*finalized); ok {
		return ErrFinalized
	}

	if err := validate(root); err != nil {
		return err
	}

	globals := parser.GlobalsOf(root)

	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Symbol {
		case ast.Ident:
			n.Payload = &Binding{Global: globals.Has(n.Text())}
		case ast.Function:
			n.Payload = &closure{handle: value.NewNative(FunctionType, &Function{Node: n})}
		}

		return true
	})

	root.Payload = &finalized{globals: globals}

	return nil
}

func validate(root *ast.Node) error {
	var err error

	ast.Walk(root, func(n *ast.Node) bool {
		if err != nil {
			return false
		}

		switch n.Symbol {
		case ast.Ident, ast.Int, ast.Real, ast.String:
			if n.Token == nil {
				err = malformed(n, "literal without token")
			}
		case ast.Member:
			if !isIdent(n.Right) {
				err = malformed(n, "member name must be an identifier")
			}
		case ast.Iterate:
			if !isIdent(n.Left) || n.Right == nil || len(n.Children) != 1 {
				err = malformed(n, "iterate needs a name, a collection and a body")
			}
		case ast.Call:
			if n.Left == nil || n.Right == nil || n.Right.Symbol != ast.List {
				err = malformed(n, "call needs a callee and an argument list")
			}
		case ast.Function:
			if len(n.Children) != 1 {
				err = malformed(n, "function needs exactly one body")
			}

			if n.Right != nil {
				for _, param := range n.Right.Children {
					if !isIdent(param) {
						err = malformed(param, "parameters must be identifiers")

						break
					}
				}
			}
		case ast.Object:
			for _, m := range n.Children {
				if m.Symbol != ast.Assign || !isIdent(m.Left) || m.Right == nil {
					err = malformed(m, "object members must assign to a name")

					break
				}
			}
		}

		return err == nil
	})

	return err
}

func isIdent(n *ast.Node) bool {
	return n != nil && n.Symbol == ast.Ident && n.Token != nil && n.Token.Text != ""
}

func malformed(n *ast.Node, reason string) error {
	attrs := []slog.Attr{
		slog.String("node", n.Symbol.String()),
		slog.String("reason", reason),
	}

	if n.Token != nil {
		attrs = append(attrs, slog.Int("line", n.Token.Line), slog.Int("column", n.Token.Column))
	}

	return ErrMalformedAST.With(attrs...)
}
