package calc

import (
	"context"
	"testing"

	"github.com/ardnew/tinyscript/lang/value"
)

func call(t *testing.T, fn value.NativeFunc, args ...value.Value) value.Value {
	t.Helper()

	defer func() {
		for _, a := range args {
			a.Release()
		}
	}()

	return fn(&value.CallContext{Context: context.Background()}, args)
}

func envObject(pairs ...any) value.Value {
	obj := value.NewObject(len(pairs) / 2)
	for i := 0; i+1 < len(pairs); i += 2 {
		value.SetMember(obj, pairs[i].(string), value.FromNative(pairs[i+1]))
	}

	return obj
}

func TestEval(t *testing.T) {
	tests := []struct {
		name   string
		source string
		env    value.Value
		want   string
	}{
		{"constant", "1 + 2 * 3", value.Null(), "7"},
		{"env", "x * 2 + len(names)", envObject("x", 20, "names", []any{"a", "b"}), "42"},
		{"string", "greeting + ', ' + name", envObject("greeting", "hello", "name", "bob"), "'hello, bob'"},
		{"list", "map([1, 2, 3], # * 10)", value.Null(), "(10, 20, 30)"},
		{"bool", "x > 1 && x < 3", envObject("x", 2), "true"},
		{"syntax error", "1 +", value.Null(), "null"},
		{"undefined", "nope + 1", value.Null(), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := value.Live()

			got := call(t, eval, value.NewString(tt.source), tt.env)
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}

			got.Release()

			if d := value.Live() - live; d > 0 {
				t.Errorf("%d values leaked", d)
			}
		})
	}
}

func TestCompileRun(t *testing.T) {
	prog := call(t, compile, value.NewString("a > b ? a : b"))
	if prog.Native() == nil || prog.Native().Type != ProgramType {
		t.Fatalf("compile returned %s", prog)
	}
	defer prog.Release()

	for _, tc := range []struct {
		a, b int
		want int64
	}{{1, 2, 2}, {5, 3, 5}} {
		got := call(t, run, prog.Ref(), envObject("a", tc.a, "b", tc.b))
		if got.Int() != tc.want {
			t.Errorf("max(%d, %d) = %s", tc.a, tc.b, got)
		}
	}

	if got := call(t, run, value.Int(1)); !got.IsNull() {
		t.Errorf("run(1) = %s", got)
	}

	if got := call(t, compile, value.NewString("(")); !got.IsNull() {
		t.Errorf("compile('(') = %s", got)
	}
}

func TestLoad(t *testing.T) {
	globals := value.NewObject(0)
	defer globals.Release()

	obj := Load(Name, globals)
	defer obj.Release()

	bound := value.Member(globals, Name)
	defer bound.Release()

	if !value.Equals(obj, bound) {
		t.Fatal("module object not bound in globals")
	}

	for _, m := range members {
		if fn := value.Member(obj, m.Name); fn.Kind() != value.KindFunc {
			t.Errorf("%s: kind %s", m.Name, fn.Kind())
		}
	}
}
