package interp

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/tinyscript/lang/ast"
	"github.com/ardnew/tinyscript/lang/parser"
	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/log"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()

	root, err := parser.Parse(context.Background(), "test.ts", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	return root
}

// run executes src in a fresh interpreter and returns what it printed. It
// fails the test if any value or node outlives the run.
func run(t *testing.T, src string, opts ...Option) string {
	t.Helper()

	values, nodes := value.Live(), ast.Live()

	var out bytes.Buffer

	root := parse(t, src)
	in := New(append([]Option{WithOutput(&out)}, opts...)...)
	err := in.Exec(context.Background(), root)

	in.Close()
	root.Release()

	if err != nil {
		t.Fatalf("exec: %v", err)
	}

	if d := value.Live() - values; d != 0 {
		t.Errorf("%d values leaked", d)
	}

	if d := ast.Live() - nodes; d != 0 {
		t.Errorf("%d nodes leaked", d)
	}

	return out.String()
}

func TestExec(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "arithmetic",
			src:  "say(1 + 1, 1 + 1.5, 4 / 2, 7 / 2, 2 * 3 - 1, -5, !0, !3)\n",
			want: "2 2.5 2 3.5 5 -5 1 0\n",
		},
		{
			name: "mismatched operands",
			src:  "say(1 + 'a', [1] * 2, 4 / true, 'a' == 'a', [1] == [1])\n",
			want: "null null null true false\n",
		},
		{
			name: "bitwise",
			src:  "say($f0 | 3, 6 & 3, true | 0)\n",
			want: "243 2 1\n",
		},
		{
			name: "iterate list",
			src:  "iterate x in [1, 2, 3]\n  say(x)\n",
			want: "1\n2\n3\n",
		},
		{
			name: "iterate string",
			src:  "iterate c in 'ab'\n  say(c)\n",
			want: "97\n98\n",
		},
		{
			name: "if else",
			src:  "if 0\n  say('a')\nelse\n  say('b')\nif ''\n  say('c')\n",
			want: "b\nc\n",
		},
		{
			name: "while",
			src:  "i = 0\nwhile i != 3\n  i = i + 1\nsay(i)\n",
			want: "3\n",
		},
		{
			name: "nested break",
			src: "i = 0\n" +
				"while i != 3\n" +
				"  i = i + 1\n" +
				"  j = 0\n" +
				"  while 1\n" +
				"    j = j + 1\n" +
				"    if j == 2\n" +
				"      break\n" +
				"  say(i, j)\n",
			want: "1 2\n2 2\n3 2\n",
		},
		{
			name: "break in iterate",
			src:  "iterate x in [1, 2, 3]\n  if x == 2\n    break\n  say(x)\n",
			want: "1\n",
		},
		{
			name: "return from nested loops",
			src: "function find(list, want)\n" +
				"  iterate x in list\n" +
				"    while 1\n" +
				"      if x == want\n" +
				"        return 'found'\n" +
				"      break\n" +
				"  return 'missing'\n" +
				"say(find([1, 2, 3], 2), find([1], 5))\n",
			want: "found missing\n",
		},
		{
			name: "declared global",
			src: "global counter\n" +
				"counter = 0\n" +
				"function bump()\n" +
				"  counter = counter + 1\n" +
				"bump()\n" +
				"bump()\n" +
				"say(counter)\n",
			want: "2\n",
		},
		{
			name: "locals are per activation",
			src: "n = 1\n" +
				"function f()\n" +
				"  n = 5\n" +
				"  return n\n" +
				"say(f(), n)\n",
			want: "5 1\n",
		},
		{
			name: "parameters",
			src: "function f(a, b)\n" +
				"  return b\n" +
				"say(f(1), f(1, 2, [3]))\n",
			want: "null 2\n",
		},
		{
			name: "anonymous function",
			src:  "double = function(x)\n  return x * 2\nsay(double(21))\n",
			want: "42\n",
		},
		{
			name: "empty function",
			src:  "o = {\n  f: function()\n}\nsay(o.f())\n",
			want: "null\n",
		},
		{
			name: "recursion",
			src: "function fact(n)\n" +
				"  if n == 0\n" +
				"    return 1\n" +
				"  return n * fact(n - 1)\n" +
				"say(fact(10))\n",
			want: "3628800\n",
		},
		{
			name: "member call binds me",
			src: "o = {\n" +
				"  n: 41,\n" +
				"  inc: function()\n" +
				"    me.n = me.n + 1\n" +
				"    return me.n\n" +
				"}\n" +
				"say(o.inc(), o.n)\n",
			want: "42 42\n",
		},
		{
			name: "append and concat",
			src: "l = [1]\n" +
				"l .. 2\n" +
				"m = l\n" +
				"m .. 'x'\n" +
				"say(l, 'a' .. 'b', 1 .. 2)\n",
			want: "(1, 2, 'x') ab null\n",
		},
		{
			name: "entries and members",
			src: "l = [1, 2]\n" +
				"l[0] = 9\n" +
				"l[5] = 0\n" +
				"o = {}\n" +
				"o['k'] = 'v'\n" +
				"o.m = 1\n" +
				"say(l, o['k'], o.m, o.x, 'abc'[1], l[9])\n",
			want: "(9, 2) v 1 null 98 null\n",
		},
		{
			name: "list reduction",
			src:  "say((5), (5,), [5], (1, 2))\n",
			want: "5 (5) (5) (1, 2)\n",
		},
		{
			name: "object printing",
			src:  "say({ a: 1, b: [2], c: { d: 'e' } })\n",
			want: "{\n  'a': 1,\n  'b': (2),\n  'c': {\n    'd': 'e'\n  }\n}\n",
		},
		{
			name: "assignment value",
			src:  "a = b = 3\nsay(a, b)\n",
			want: "3 3\n",
		},
		{
			name: "unresolved identifier",
			src:  "say(nope, nope.x, nope[0])\n",
			want: "null null null\n",
		},
		{
			name: "strexpand",
			src:  "say(_strexpand('hi ${name},${n}${missing} $x ${', { name: 'bob', n: 1 }))\n",
			want: "hi bob, $x ${\n",
		},
		{
			name: "strdrop",
			src:  "say(_strdrop('hello', 2), _strdrop('hi', 9), _strdrop('x', -1), _strdrop(1, 1))\n",
			want: "llo  x null\n",
		},
		{
			name: "top level return",
			src:  "say(1)\nreturn\nsay(2)\n",
			want: "1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(t, tt.src); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExec_Files(t *testing.T) {
	dir := t.TempDir()

	src := "f = create_file(args[0])\n" +
		"f.write('one', 2)\n" +
		"f.write('three')\n" +
		"f.close()\n" +
		"say(f.write('closed'))\n" +
		"g = open_file(args[0])\n" +
		"line = g.read_line()\n" +
		"while line != null\n" +
		"  say(line)\n" +
		"  line = g.read_line()\n" +
		"say(g.read_line(), open_file(args[1]))\n"

	got := run(t, src, WithArgs(
		filepath.Join(dir, "out.txt"),
		filepath.Join(dir, "missing.txt"),
	))

	if want := "null\none 2\nthree\nnull null\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExec_NativeGlobal(t *testing.T) {
	twice := value.Func(func(_ *value.CallContext, args []value.Value) value.Value {
		if len(args) != 1 {
			return value.Null()
		}

		return value.Int(args[0].Int() * 2)
	})

	if got := run(t, "say(twice(21), twice())\n", WithGlobal("twice", twice)); got != "42 null\n" {
		t.Errorf("got %q", got)
	}
}

func TestExec_Modules(t *testing.T) {
	reg := NewRegistry().Register("greet", func(name string, globals value.Value) value.Value {
		value.SetMember(globals, "greeting", value.NewString("hello from "+name))

		return value.Int(1)
	})

	got := run(t, "say(load_module('greet'), greeting, load_module('nope'), load_module())\n", WithModules(reg))
	if want := "1 hello from greet null null\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if names := reg.Names(); len(names) != 1 || names[0] != "greet" {
		t.Errorf("names = %v", names)
	}
}

func TestExec_NotCallable(t *testing.T) {
	for _, src := range []string{"x = 1\nx()\n", "o = {}\no.f(1)\n", "'s'()\n"} {
		root := parse(t, src)
		in := New(WithOutput(&bytes.Buffer{}))

		err := in.Exec(context.Background(), root)
		if !errors.Is(err, ErrNotCallable) {
			t.Errorf("%q: got %v, want %v", src, err, ErrNotCallable)
		}

		in.Close()
		root.Release()
	}
}

func TestInterp_PersistentScopes(t *testing.T) {
	var (
		out   bytes.Buffer
		roots []*ast.Node
	)

	in := New(WithOutput(&out))

	for _, src := range []string{"x = 2\n", "function triple(n)\n  return n * 3\n", "say(triple(x))\n"} {
		root := parse(t, src)
		roots = append(roots, root)

		if err := in.Exec(context.Background(), root); err != nil {
			t.Fatalf("exec %q: %v", src, err)
		}
	}

	if out.String() != "6\n" {
		t.Errorf("got %q", out.String())
	}

	names := in.Names()
	if !slices.Contains(names, "x") || !slices.Contains(names, "triple") {
		t.Errorf("names = %v", names)
	}

	in.Close()

	for _, root := range roots {
		root.Release()
	}
}

func TestInterp_Eval(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2\n", "3"},
		{"x = [1]\nx .. 2\n", "(1, 2)"},
		{"return 7\nsay(1)\n", "7"},
		{"if 1\n  5\n", "null"},
		{"", "null"},
	}

	for _, tt := range tests {
		root := parse(t, tt.src)
		in := New(WithOutput(&bytes.Buffer{}))

		v, err := in.Eval(context.Background(), root)
		if err != nil {
			t.Fatalf("%q: %v", tt.src, err)
		}

		if got := v.String(); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, got, tt.want)
		}

		v.Release()
		in.Close()
		root.Release()
	}
}

func TestInterp_SharedListRefs(t *testing.T) {
	root := parse(t, "a = [1, 2]\nb = a\nb .. 3\n")
	defer root.Release()

	in := New()
	defer in.Close()

	if err := in.Exec(context.Background(), root); err != nil {
		t.Fatal(err)
	}

	a, _ := in.Locals().Object().Lookup("a")
	b, _ := in.Locals().Object().Lookup("b")

	if a.Refs() != 2 {
		t.Errorf("refs = %d, want 2", a.Refs())
	}

	if a.List() != b.List() || a.List().Len() != 3 {
		t.Errorf("a = %s, b = %s", a, b)
	}
}

func TestInterp_UnresolvedSuggestion(t *testing.T) {
	var logs bytes.Buffer

	logger := log.Make(&logs, log.WithLevel(log.LevelDebug))

	got := run(t, "counter = 1\nsay(cntr)\n", WithLogger(logger))
	if got != "null\n" {
		t.Errorf("got %q", got)
	}

	if s := logs.String(); !strings.Contains(s, "unresolved identifier") || !strings.Contains(s, "counter") {
		t.Errorf("log = %s", s)
	}
}

func TestInterp_Closed(t *testing.T) {
	root := parse(t, "1\n")
	defer root.Release()

	in := New()
	in.Close()

	if err := in.Exec(context.Background(), root); !errors.Is(err, ErrClosed) {
		t.Errorf("got %v, want %v", err, ErrClosed)
	}

	if err := in.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
