package interp

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/tinyscript/lang/ast"
	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/log"
)

type config struct {
	logger  log.Logger
	out     io.Writer
	modules *Registry
	args    []string
	globals map[string]value.Value
}

// Option configures an [Interp].
type Option func(config) config

// WithLogger sets the logger used by the evaluator and passed to natives.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithOutput sets the writer the say builtin prints to. The default is
// [os.Stdout].
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		c.out = w

		return c
	}
}

// WithModules sets the registry load_module resolves names against.
func WithModules(r *Registry) Option {
	return func(c config) config {
		c.modules = r

		return c
	}
}

// WithArgs sets the strings bound to the args global.
func WithArgs(args ...string) Option {
	return func(c config) config {
		c.args = args

		return c
	}
}

// WithGlobal binds name to v (moved in) in the global scope, replacing a
// builtin of the same name.
func WithGlobal(name string, v value.Value) Option {
	return func(c config) config {
		if c.globals == nil {
			c.globals = make(map[string]value.Value)
		}

		if old, ok := c.globals[name]; ok {
			old.Release()
		}

		c.globals[name] = v

		return c
	}
}

// Interp evaluates finalized scripts. The global scope and the top level
// locals persist across calls to [Interp.Exec], so consecutive scripts see
// each other's variables.
//
// An Interp is not safe for concurrent use. Closures stored in its scopes
// refer to the syntax trees they were defined in; those trees must outlive
// the Interp.
type Interp struct {
	ctx     context.Context
	logger  log.Logger
	out     io.Writer
	modules *Registry
	globals value.Value
	locals  value.Value
	closed  bool
}

// New returns an interpreter whose global scope holds the builtins.
func New(opts ...Option) *Interp {
	var cfg config
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	if cfg.out == nil {
		cfg.out = os.Stdout
	}

	in := &Interp{
		ctx:     context.Background(),
		logger:  cfg.logger,
		out:     cfg.out,
		modules: cfg.modules,
		globals: value.NewObject(len(builtins) + len(cfg.globals) + 1),
		locals:  value.NewObject(0),
	}

	for _, b := range builtins {
		value.SetMember(in.globals, b.name, value.Func(b.fn))
	}

	value.SetMember(in.globals, "load_module", value.Func(in.loadModule))

	args := value.NewList(len(cfg.args))
	for _, a := range cfg.args {
		args.List().Push(value.NewString(a))
	}

	value.SetMember(in.globals, "args", args)

	for name, v := range cfg.globals {
		value.SetMember(in.globals, name, v)
	}

	return in
}

// Globals returns the global scope object (borrowed).
func (in *Interp) Globals() value.Value { return in.globals }

// Locals returns the top level local scope object (borrowed).
func (in *Interp) Locals() value.Value { return in.locals }

// Names returns every name bound in the top level locals and the globals.
func (in *Interp) Names() []string {
	if in.closed {
		return nil
	}

	return append(in.locals.Object().Names(), in.globals.Object().Names()...)
}

// Close releases both scopes. The Interp must not be used afterwards.
func (in *Interp) Close() error {
	if in.closed {
		return nil
	}

	in.closed = true
	in.locals.Release()
	in.globals.Release()

	return nil
}

// Exec evaluates the script root, finalizing it first if needed.
func (in *Interp) Exec(ctx context.Context, root *ast.Node) error {
	v, err := in.Eval(ctx, root)
	v.Release()

	return err
}

// Eval evaluates the script root and returns the value of its last top
// level statement, or the value of a top level return. The result is owned
// by the caller.
//
// A fatal runtime error stops evaluation and is returned. Values owned by
// the frames it unwound are not reclaimed.
func (in *Interp) Eval(ctx context.Context, root *ast.Node) (result value.Value, err error) {
	if in.closed {
		return value.Null(), ErrClosed
	}

	if root == nil || root.Symbol != ast.Script {
		return value.Null(), ErrNotScript
	}

	if _, ok := root.Payload.(*finalized); !ok {
		if err := Finalize(root); err != nil {
			return value.Null(), err
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	in.ctx = ctx

	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(fatal)
			if !ok {
				panic(r)
			}

			in.logger.DebugContext(ctx, "script aborted", slog.Any("error", f.err))

			result, err = value.Null(), f.err
		}
	}()

	top := &frame{globals: in.globals, locals: in.locals}

	for _, block := range root.Children {
		result.Release()
		result = in.block(top, block)

		if top.returning {
			result.Release()
			result = top.ret
			top.ret = value.Null()

			break
		}

		// A break outside any loop ends only the block it appears in.
		top.breaking = false
	}

	if in.logger.Enabled(ctx, log.LevelDebug) {
		in.logger.DebugContext(ctx, "script finished", slog.String("globals", in.globals.String()))
	}

	return result, nil
}
