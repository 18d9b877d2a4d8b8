package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/tinyscript/lang/ast"
	"github.com/ardnew/tinyscript/lang/interp"
	"github.com/ardnew/tinyscript/lang/lexer"
	"github.com/ardnew/tinyscript/lang/parser"
	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/log"
)

// Script is a parsed and finalized program.
type Script struct {
	Name string

	root *ast.Node
	opts options
}

type options struct {
	logger   log.Logger
	lenient  bool
	observer func(lexer.Token)
	out      io.Writer
	dump     io.Writer
	args     []string
	modules  *interp.Registry
	natives  map[string]value.NativeFunc
}

// Option configures parsing or running a [Script].
type Option func(*options)

// WithLogger sets the structured logger for every stage.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLenient makes the lexer log and skip unknown characters and accept
// unterminated strings.
func WithLenient(lenient bool) Option {
	return func(o *options) {
		o.lenient = lenient
	}
}

// WithTokenObserver registers fn to receive every token read while parsing.
func WithTokenObserver(fn func(lexer.Token)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithOutput sets the writer say prints to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithGlobalsDump prints the global scope to w when a run finishes.
func WithGlobalsDump(w io.Writer) Option {
	return func(o *options) {
		o.dump = w
	}
}

// WithArgs sets the script arguments bound to the args global.
func WithArgs(args ...string) Option {
	return func(o *options) {
		o.args = args
	}
}

// WithModules sets the registry load_module resolves names against.
func WithModules(r *interp.Registry) Option {
	return func(o *options) {
		o.modules = r
	}
}

// WithNative binds a host function to name in the global scope.
func WithNative(name string, fn value.NativeFunc) Option {
	return func(o *options) {
		if o.natives == nil {
			o.natives = make(map[string]value.NativeFunc)
		}

		o.natives[name] = fn
	}
}

func applyOptions(o *options, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
}

// Root returns the finalized syntax tree, or nil once the script is closed.
func (s *Script) Root() *ast.Node { return s.root }

// Globals returns the names the script declares global.
func (s *Script) Globals() []string { return parser.GlobalsOf(s.root).Names() }

// Interp returns a new interpreter configured by the script's options and
// opts. The caller must close it.
func (s *Script) Interp(opts ...Option) *interp.Interp {
	o := s.opts
	applyOptions(&o, opts...)

	iopts := []interp.Option{
		interp.WithLogger(o.logger),
		interp.WithOutput(o.out),
		interp.WithArgs(o.args...),
		interp.WithModules(o.modules),
	}

	for name, fn := range o.natives {
		iopts = append(iopts, interp.WithGlobal(name, value.Func(fn)))
	}

	return interp.New(iopts...)
}

// Run executes the script in a new interpreter. Options given here are
// applied on top of those the script was parsed with.
func (s *Script) Run(ctx context.Context, opts ...Option) error {
	if s.root == nil {
		return ErrClosed
	}

	o := s.opts
	applyOptions(&o, opts...)

	in := s.Interp(opts...)
	defer in.Close()

	o.logger.DebugContext(ctx, "run", slog.String("script", s.Name), slog.Any("args", o.args))

	if err := in.Exec(ctx, s.root); err != nil {
		return err
	}

	if o.dump != nil {
		if err := value.Fprint(o.dump, in.Globals()); err != nil {
			return err
		}

		_, err := io.WriteString(o.dump, "\n")

		return err
	}

	return nil
}

// Close releases the syntax tree. Interpreters that ran the script must be
// closed first.
func (s *Script) Close() error {
	if s.root != nil {
		s.root.Release()
		s.root = nil
	}

	return nil
}
