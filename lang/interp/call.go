package interp

import (
	"log/slog"

	"github.com/ardnew/tinyscript/lang/ast"
	"github.com/ardnew/tinyscript/lang/value"
)

// call evaluates a call expression. For a member callee the receiver is
// evaluated once and bound to me for the duration of the call.
func (in *Interp) call(f *frame, n *ast.Node) value.Value {
	var callee, me value.Value

	if n.Left.Symbol == ast.Member {
		me = in.eval(f, n.Left.Left)
		callee = value.Member(me, n.Left.Right.Text())
	} else {
		callee = in.eval(f, n.Left)
	}

	defer me.Release()
	defer callee.Release()

	switch {
	case callee.Kind() == value.KindFunc:
		return in.callNative(f, callee.Func(), me, n.Right)
	case callee.Kind() == value.KindNative && callee.Native().Type == FunctionType:
		if fn, ok := callee.Native().Data.(*Function); ok {
			return in.invoke(f, fn, me, n.Right)
		}
	}

	attrs := []slog.Attr{slog.String("kind", callee.Kind().String())}
	if name := calleeName(n.Left); name != nil {
		attrs = append(attrs,
			slog.String("name", name.Token.Text),
			slog.Int("line", name.Token.Line),
			slog.Int("column", name.Token.Column),
		)
	}

	in.fail(ErrNotCallable.With(attrs...))

	return value.Null()
}

// calleeName returns the identifier naming a callee, if there is one.
func calleeName(n *ast.Node) *ast.Node {
	if n.Symbol == ast.Member {
		n = n.Right
	}

	if n == nil || n.Symbol != ast.Ident || n.Token == nil {
		return nil
	}

	return n
}

func (in *Interp) callNative(f *frame, fn value.NativeFunc, me value.Value, args *ast.Node) value.Value {
	vals := make([]value.Value, 0, len(args.Children))
	for _, a := range args.Children {
		vals = append(vals, in.eval(f, a))
	}

	ctx := &value.CallContext{
		Context: in.ctx,
		Globals: f.globals,
		Me:      me,
		Logger:  in.logger,
		Out:     in.out,
	}

	r := fn(ctx, vals)

	for _, v := range vals {
		v.Release()
	}

	return r
}

// invoke runs a closure in a fresh local scope. Arguments are evaluated in
// the caller's frame and bound to the parameters by position; arguments
// beyond the parameter list are evaluated and discarded.
func (in *Interp) invoke(f *frame, fn *Function, me value.Value, args *ast.Node) value.Value {
	node := fn.Node
	if node == nil || len(node.Children) == 0 {
		in.fail(ErrMalformedAST.With(slog.String("reason", "function body released")))
	}

	var params []*ast.Node
	if node.Right != nil {
		params = node.Right.Children
	}

	locals := value.NewObject(len(params) + 1)

	for i, a := range args.Children {
		v := in.eval(f, a)
		if i < len(params) {
			value.SetMember(locals, params[i].Text(), v)
		} else {
			v.Release()
		}
	}

	if !me.IsNull() {
		value.SetMember(locals, "me", me.Ref())
	}

	inner := &frame{globals: f.globals, locals: locals}
	in.block(inner, node.Children[0]).Release()

	ret := inner.ret
	locals.Release()

	return ret
}
