package interp

import (
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tinyscript/lang/ast"
	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/log"
)

// frame is the evaluation state of one function activation, or of the top
// level of a script.
type frame struct {
	globals value.Value // shared, borrowed
	locals  value.Value // owned by the activation
	ret     value.Value
	// returning and breaking stop every enclosing block until a call
	// boundary (returning) or the nearest loop (breaking) consumes them.
	returning bool
	breaking  bool
}

func (f *frame) stopped() bool { return f.returning || f.breaking }

func (in *Interp) fail(err error) {
	panic(fatal{err: err})
}

// eval evaluates n and returns an owned value.
func (in *Interp) eval(f *frame, n *ast.Node) value.Value {
	if n == nil {
		return value.Null()
	}

	switch n.Symbol {
	case ast.Null:
		return value.Null()
	case ast.True:
		return value.Bool(true)
	case ast.False:
		return value.Bool(false)
	case ast.Int:
		return value.Int(n.Token.Int)
	case ast.Real:
		return value.Float(n.Token.Float)
	case ast.String:
		return value.NewString(n.Token.Text)
	case ast.Ident:
		return in.lookup(f, n.Text())

	case ast.Assign:
		v := in.eval(f, n.Right)
		in.store(f, n.Left, v.Ref())

		return v

	case ast.Add:
		return in.binary(f, n, value.Add)
	case ast.Subtract:
		if n.Left == nil {
			v := in.eval(f, n.Right)
			defer v.Release()

			return value.Negate(v)
		}

		return in.binary(f, n, value.Sub)
	case ast.Multiply:
		return in.binary(f, n, value.Mul)
	case ast.Divide:
		return in.binary(f, n, value.Div)
	case ast.BinAnd:
		return in.binary(f, n, value.BinAnd)
	case ast.BinOr:
		return in.binary(f, n, value.BinOr)
	case ast.Equals:
		return in.binary(f, n, func(a, b value.Value) value.Value {
			return value.Bool(value.Equals(a, b))
		})
	case ast.NotEquals:
		return in.binary(f, n, func(a, b value.Value) value.Value {
			return value.Bool(!value.Equals(a, b))
		})
	case ast.Not:
		v := in.eval(f, n.Left)
		defer v.Release()

		return value.Not(v)
	case ast.Append:
		return in.append(f, n)

	case ast.Block:
		return in.block(f, n)
	case ast.If:
		return in.ifStatement(f, n)
	case ast.While:
		return in.while(f, n)
	case ast.Iterate:
		return in.iterate(f, n)
	case ast.Break:
		f.breaking = true

		return value.Null()
	case ast.Return:
		ret := in.eval(f, n.Left)
		f.ret.Release()
		f.ret = ret
		f.returning = true

		return value.Null()

	case ast.Function:
		if c, ok := n.Payload.(*closure); ok {
			return c.handle.Ref()
		}

		in.fail(malformed(n, "function literal was not finalized"))
	case ast.Object:
		obj := value.NewObject(len(n.Children))
		for _, m := range n.Children {
			value.SetMember(obj, m.Left.Text(), in.eval(f, m.Right))
		}

		return obj
	case ast.List:
		// A parenthesized single element is just that element.
		if len(n.Children) == 1 && n.Token == nil {
			return in.eval(f, n.Children[0])
		}

		list := value.NewList(len(n.Children))
		for _, c := range n.Children {
			list.List().Push(in.eval(f, c))
		}

		return list
	case ast.Index:
		return in.binary(f, n, value.Entry)
	case ast.Member:
		v := in.eval(f, n.Left)
		defer v.Release()

		return value.Member(v, n.Right.Text())
	case ast.Call:
		return in.call(f, n)
	}

	in.fail(malformed(n, "unexpected node"))

	return value.Null()
}

// binary evaluates both operands of n, applies op and releases the
// operands.
func (in *Interp) binary(f *frame, n *ast.Node, op func(a, b value.Value) value.Value) value.Value {
	a := in.eval(f, n.Left)
	b := in.eval(f, n.Right)
	r := op(a, b)

	a.Release()
	b.Release()

	return r
}

// append pushes the right operand onto a list, or joins two strings.
func (in *Interp) append(f *frame, n *ast.Node) value.Value {
	a := in.eval(f, n.Left)
	b := in.eval(f, n.Right)

	switch {
	case a.Kind() == value.KindList:
		return value.Append(a, b)
	case a.Kind() == value.KindString && b.Kind() == value.KindString:
		r := value.Concat(a, b)
		a.Release()
		b.Release()

		return r
	}

	a.Release()
	b.Release()

	return value.Null()
}

// lookup resolves name in the locals, then the globals.
func (in *Interp) lookup(f *frame, name string) value.Value {
	if v, ok := f.locals.Object().Lookup(name); ok {
		return v.Ref()
	}

	if v, ok := f.globals.Object().Lookup(name); ok {
		return v.Ref()
	}

	if in.logger.Enabled(in.ctx, log.LevelDebug) {
		attrs := []slog.Attr{slog.String("name", name)}
		if s := suggest(name, f); len(s) > 0 {
			attrs = append(attrs, slog.Any("similar", s))
		}

		in.logger.DebugContext(in.ctx, "unresolved identifier", attrs...)
	}

	return value.Null()
}

// suggest returns up to three bound names that fuzzily match name.
func suggest(name string, f *frame) []string {
	names := append(f.locals.Object().Names(), f.globals.Object().Names()...)

	var out []string
	for _, m := range fuzzy.Find(name, names) {
		if len(out) == 3 {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

// store assigns v (moved in) to the place target denotes.
func (in *Interp) store(f *frame, target *ast.Node, v value.Value) {
	switch target.Symbol {
	case ast.Ident:
		name := target.Text()

		scope := f.locals
		switch {
		case f.locals.Object().Has(name):
		case f.globals.Object().Has(name):
			scope = f.globals
		default:
			if b, ok := target.Payload.(*Binding); ok && b.Global {
				scope = f.globals
			}
		}

		value.SetMember(scope, name, v)
	case ast.Index:
		c := in.eval(f, target.Left)
		k := in.eval(f, target.Right)
		value.SetEntry(c, k, v)
		c.Release()
	case ast.Member:
		c := in.eval(f, target.Left)
		value.SetMember(c, target.Right.Text(), v)
		c.Release()
	default:
		in.logger.WarnContext(in.ctx, "cannot assign",
			slog.String("target", target.Symbol.String()))
		v.Release()
	}
}

// block evaluates each statement of n until one sets a control flag. It
// returns the value of the last statement evaluated.
func (in *Interp) block(f *frame, n *ast.Node) value.Value {
	if n.Symbol != ast.Block {
		return in.eval(f, n)
	}

	last := value.Null()

	for _, stmt := range n.Children {
		last.Release()
		last = in.eval(f, stmt)

		if f.stopped() {
			break
		}
	}

	return last
}

func (in *Interp) truth(f *frame, cond *ast.Node) bool {
	v := in.eval(f, cond)
	defer v.Release()

	return !v.IsZero()
}

func (in *Interp) ifStatement(f *frame, n *ast.Node) value.Value {
	var body *ast.Node

	switch {
	case in.truth(f, n.Left):
		body = n.Right
	case len(n.Children) > 0:
		body = n.Children[0]
	default:
		return value.Null()
	}

	in.block(f, body).Release()

	return value.Null()
}

func (in *Interp) while(f *frame, n *ast.Node) value.Value {
	for !f.returning && in.truth(f, n.Left) {
		in.block(f, n.Right).Release()

		if f.breaking {
			f.breaking = false

			break
		}
	}

	return value.Null()
}

// iterate binds each item of a list, or each byte of a string, to the
// loop variable in the current locals and runs the body.
func (in *Interp) iterate(f *frame, n *ast.Node) value.Value {
	name := n.Left.Text()
	body := n.Children[0]

	coll := in.eval(f, n.Right)
	defer coll.Release()

	var (
		size int
		item func(i int) value.Value
	)

	switch coll.Kind() {
	case value.KindList:
		size = coll.List().Len()
		item = func(i int) value.Value { return coll.List().At(i).Ref() }
	case value.KindString:
		size = coll.Str().Len()
		item = func(i int) value.Value { return value.Int(int64(coll.Str().Bytes()[i])) }
	default:
		in.logger.DebugContext(in.ctx, "iterate over non-collection",
			slog.String("kind", coll.Kind().String()))

		return value.Null()
	}

	for i := 0; i < size && !f.returning; i++ {
		value.SetMember(f.locals, name, item(i))
		in.block(f, body).Release()

		if f.breaking {
			f.breaking = false

			break
		}
	}

	return value.Null()
}
