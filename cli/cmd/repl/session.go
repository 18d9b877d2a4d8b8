package repl

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/tinyscript/lang"
	"github.com/ardnew/tinyscript/lang/interp"
	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/log"
)

// keywords complete at the top level alongside bound names.
var keywords = []string{
	"break", "else", "false", "function", "global", "if", "in", "iterate",
	"null", "return", "true", "while",
}

// session is the interpreter state shared by every input of a REPL. Each
// input is parsed as its own script and run in the same interpreter, so top
// level variables and functions persist between lines. Scripts are kept
// until the session closes because closures refer to their syntax trees.
type session struct {
	ctx     context.Context
	logger  log.Logger
	in      *interp.Interp
	out     bytes.Buffer
	scripts []*lang.Script
	inputs  int
}

func newSession(ctx context.Context, logger log.Logger, modules *interp.Registry) *session {
	s := &session{ctx: ctx, logger: logger}
	s.in = interp.New(
		interp.WithLogger(logger),
		interp.WithOutput(&s.out),
		interp.WithModules(modules),
	)

	return s
}

// load parses and runs the script file at path.
func (s *session) load(path string) error {
	if s.in == nil {
		return ErrClosed
	}

	script, err := lang.ParseFile(s.ctx, path, lang.WithLogger(s.logger))
	if err != nil {
		return err
	}

	s.scripts = append(s.scripts, script)

	return s.in.Exec(s.ctx, script.Root())
}

// eval runs src and returns the printed form of its value, or "" when the
// value is null.
func (s *session) eval(src string) (string, error) {
	if s.in == nil {
		return "", ErrClosed
	}

	s.inputs++
	name := "repl:" + strconv.Itoa(s.inputs)

	script, err := lang.ParseString(s.ctx, name, src, lang.WithLogger(s.logger))
	if err != nil {
		return "", err
	}

	return s.run(script)
}

// run evaluates a parsed script, which the session then owns, and returns
// the printed form of its value.
func (s *session) run(script *lang.Script) (string, error) {
	if s.in == nil {
		script.Close()

		return "", ErrClosed
	}

	s.scripts = append(s.scripts, script)

	v, err := s.in.Eval(s.ctx, script.Root())
	defer v.Release()

	if err != nil {
		return "", err
	}

	s.logger.TraceContext(s.ctx, "repl eval",
		slog.String("name", script.Name),
		slog.String("kind", v.Kind().String()),
	)

	if v.IsNull() {
		return "", nil
	}

	return v.String(), nil
}

// output returns and clears what the scripts printed since the last call.
func (s *session) output() string {
	out := strings.TrimSuffix(s.out.String(), "\n")
	s.out.Reset()

	return out
}

// names returns the bound names visible at the top level.
func (s *session) names() []string {
	if s.in == nil {
		return nil
	}

	return s.in.Names()
}

// resolve returns the value a dotted path such as "db.query" refers to, or
// null. The result is owned by the caller.
func (s *session) resolve(path string) value.Value {
	if s.in == nil || path == "" {
		return value.Null()
	}

	segs := strings.Split(path, ".")

	v, ok := s.in.Locals().Object().Lookup(segs[0])
	if !ok {
		if v, ok = s.in.Globals().Object().Lookup(segs[0]); !ok {
			return value.Null()
		}
	}

	v = v.Ref()

	for _, seg := range segs[1:] {
		next := value.Member(v, seg)
		v.Release()
		v = next
	}

	return v
}

// members returns the member names of the object at path.
func (s *session) members(path string) []string {
	v := s.resolve(path)
	defer v.Release()

	if v.Kind() != value.KindObject {
		return nil
	}

	return v.Object().Names()
}

// callable reports whether path refers to a function.
func (s *session) callable(path string) bool {
	v := s.resolve(path)
	defer v.Release()

	return isCallable(v)
}

func isCallable(v value.Value) bool {
	switch v.Kind() {
	case value.KindFunc:
		return true
	case value.KindNative:
		return v.Native().Type == interp.FunctionType
	default:
		return false
	}
}

// params returns the parameter names of the function at path. Native
// functions take any number of arguments and report a single variadic
// parameter.
func (s *session) params(path string) ([]string, bool) {
	v := s.resolve(path)
	defer v.Release()

	switch {
	case v.Kind() == value.KindFunc:
		return []string{"...args"}, true
	case !isCallable(v):
		return nil, false
	}

	fn, ok := v.Native().Data.(*interp.Function)
	if !ok || fn.Node == nil || fn.Node.Right == nil {
		return nil, true
	}

	params := make([]string, 0, len(fn.Node.Right.Children))
	for _, p := range fn.Node.Right.Children {
		params = append(params, p.Text())
	}

	return params, true
}

// close releases the interpreter and then every script it ran.
func (s *session) close() error {
	if s.in == nil {
		return nil
	}

	err := s.in.Close()
	s.in = nil

	for _, script := range s.scripts {
		script.Close()
	}

	s.scripts = nil

	return err
}
