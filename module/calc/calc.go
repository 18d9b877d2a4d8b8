// Package calc is the calc native module. It evaluates expr-lang
// expressions against tinyscript values:
//
//	load_module('calc')
//	say(calc.eval('x * 2 + len(names)', { x: 20, names: ['a', 'b'] }))
//	p = calc.compile('a > b ? a : b')
//	say(calc.run(p, { a: 1, b: 2 }))
package calc

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/module/native"
	"github.com/ardnew/tinyscript/pkg"
)

// Name is the name the module is registered under.
const Name = "calc"

// ProgramType is the native type name of compiled programs.
const ProgramType = "calc.Program"

var (
	ErrCompile  = pkg.NewError("expression compilation failed")
	ErrEvaluate = pkg.NewError("expression evaluation failed")
	ErrArgument = pkg.NewError("invalid argument")
)

var members = []native.Member{
	{Name: "eval", Fn: eval},
	{Name: "compile", Fn: compile},
	{Name: "run", Fn: run},
}

// Load binds the calc object in globals and returns it.
func Load(name string, globals value.Value) value.Value {
	return native.Bind(globals, name, native.Object(members...))
}

// env converts an optional object argument to an expr environment.
func env(args []value.Value, i int) (map[string]any, bool) {
	if i >= len(args) || args[i].IsNull() {
		return map[string]any{}, true
	}

	if args[i].Kind() != value.KindObject {
		return nil, false
	}

	m, _ := value.ToNative(args[i]).(map[string]any)

	return m, true
}

// eval(source [, env]) compiles and runs source once.
func eval(ctx *value.CallContext, args []value.Value) value.Value {
	source, ok := native.String(args, 0)
	if !ok {
		return native.Fail(ctx, "calc.eval", ErrArgument)
	}

	e, ok := env(args, 1)
	if !ok {
		return native.Fail(ctx, "calc.eval", ErrArgument)
	}

	out, err := expr.Eval(source, e)
	if err != nil {
		return native.Fail(ctx, "calc.eval", ErrEvaluate.Wrap(err), slog.String("source", source))
	}

	return value.FromNative(out)
}

// compile(source) returns a program handle for run. Names the program
// refers to are resolved when it runs.
func compile(ctx *value.CallContext, args []value.Value) value.Value {
	source, ok := native.String(args, 0)
	if !ok {
		return native.Fail(ctx, "calc.compile", ErrArgument)
	}

	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return native.Fail(ctx, "calc.compile", ErrCompile.Wrap(err), slog.String("source", source))
	}

	return value.NewNative(ProgramType, program)
}

// run(program [, env]) runs a compiled program.
func run(ctx *value.CallContext, args []value.Value) value.Value {
	if len(args) == 0 || args[0].Native() == nil || args[0].Native().Type != ProgramType {
		return native.Fail(ctx, "calc.run", ErrArgument)
	}

	program, ok := args[0].Native().Data.(*vm.Program)
	if !ok {
		return native.Fail(ctx, "calc.run", ErrArgument)
	}

	e, ok := env(args, 1)
	if !ok {
		return native.Fail(ctx, "calc.run", ErrArgument)
	}

	out, err := expr.Run(program, e)
	if err != nil {
		return native.Fail(ctx, "calc.run", ErrEvaluate.Wrap(err))
	}

	return value.FromNative(out)
}
