package value

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/tinyscript/log"
)

func checkLive(t *testing.T, want int64) {
	t.Helper()

	if got := Live(); got != want {
		t.Fatalf("live allocations: got %d, want %d", got, want)
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		KindNull:   "null",
		KindBool:   "bool",
		KindInt:    "int",
		KindFloat:  "float",
		KindList:   "list",
		KindString: "string",
		KindObject: "object",
		KindNative: "native",
		KindFunc:   "function",
		Kind(99):   "invalid",
	}

	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestRefcount_SharedList(t *testing.T) {
	base := Live()

	list := ListOf(Int(1), Int(2))
	a := NewObject(0)
	b := NewObject(0)

	SetMember(a, "items", list.Ref())
	SetMember(b, "items", list)
	checkLive(t, base+3+2) // list, a, b and two key strings

	if got := list.Refs(); got != 2 {
		t.Fatalf("expected 2 owners, got %d", got)
	}

	a.Release()
	checkLive(t, base+3) // list, b, key string of b

	if got := list.Refs(); got != 1 {
		t.Fatalf("expected 1 owner after releasing a, got %d", got)
	}

	if got := list.List().Len(); got != 2 {
		t.Fatalf("list destroyed early: len %d", got)
	}

	b.Release()
	checkLive(t, base)
}

func TestRefcount_DoubleReleasePanics(t *testing.T) {
	s := NewString("x")
	s.Release()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on double release")
		}

		if msg, _ := r.(string); !strings.Contains(msg, "freed string") {
			t.Errorf("unexpected panic message %v", r)
		}
	}()

	s.Release()
}

func TestRefcount_InlineKinds(t *testing.T) {
	base := Live()

	for _, v := range []Value{Null(), Bool(true), Int(3), Float(1.5), Func(nil)} {
		v.Ref().Release()
		v.Release()

		if v.Refs() != 0 {
			t.Errorf("%s has a reference count", v.Kind())
		}
	}

	checkLive(t, base)
}

type closer struct{ closed int }

func (c *closer) Close() error {
	c.closed++

	return errors.New("ignored")
}

func TestNative_ClosedOnDestroy(t *testing.T) {
	base := Live()

	c := &closer{}
	n := NewNative("handle", c)
	n2 := n.Ref()
	n.Release()

	if c.closed != 0 {
		t.Fatal("closed while still referenced")
	}

	n2.Release()

	if c.closed != 1 {
		t.Fatalf("expected one close, got %d", c.closed)
	}

	checkLive(t, base)
}

func TestNative_CloseErrorLogged(t *testing.T) {
	var buf bytes.Buffer

	log.Config(
		log.WithOutput(&buf),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithLevel(log.LevelWarn),
	)
	defer log.Config(log.WithDefaults(nil))

	c := &closer{}
	NewNative("handle", c).Release()

	got := buf.String()
	if !strings.Contains(got, "close native resource") ||
		!strings.Contains(got, `"type":"handle"`) ||
		!strings.Contains(got, "ignored") {
		t.Errorf("close error not logged: %q", got)
	}
}

func TestNativeObject_EmbeddedRecord(t *testing.T) {
	base := Live()

	c := &closer{}
	obj := NewNativeObject("File", c, 2)
	SetMember(obj, "name", NewString("a.txt"))
	checkLive(t, base+4) // object, native record, key, value

	if n := obj.Native(); n == nil || n.Type != "File" {
		t.Fatalf("unexpected native record %v", n)
	}

	obj.Release()

	if c.closed != 1 {
		t.Fatalf("expected one close, got %d", c.closed)
	}

	checkLive(t, base)
}

func TestListOwnership_Items(t *testing.T) {
	base := Live()

	inner := NewString("inner")
	outer := ListOf(inner.Ref(), NewString("other"))
	inner.Release()
	checkLive(t, base+3)

	outer.Release()
	checkLive(t, base)
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Null(), true},
		{Bool(false), true},
		{Bool(true), false},
		{Int(0), true},
		{Int(-1), false},
		{Float(0), true},
		{Float(0.5), false},
		{Func(nil), false},
	}

	for _, tt := range tests {
		if got := tt.v.IsZero(); got != tt.want {
			t.Errorf("%v.IsZero() = %v, want %v", tt.v, got, tt.want)
		}
	}

	s := NewString("")
	defer s.Release()

	if s.IsZero() {
		t.Error("empty string must not be zero")
	}
}

func TestEquals(t *testing.T) {
	s1 := NewString("abc")
	s2 := NewString("abc")
	l1 := NewList(0)
	l2 := NewList(0)
	f := Func(nil)

	defer func() {
		for _, v := range []Value{s1, s2, l1, l2} {
			v.Release()
		}
	}()

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null", Null(), Null(), true},
		{"int", Int(2), Int(2), true},
		{"int differs", Int(2), Int(3), false},
		{"bool vs int", Bool(true), Int(1), false},
		{"int vs float", Int(1), Float(1), false},
		{"float", Float(0.25), Float(0.25), true},
		{"strings bytewise", s1, s2, true},
		{"lists by identity", l1, l2, false},
		{"same list", l1, l1, true},
		{"same func", f, f, true},
		{"distinct funcs", Func(nil), Func(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equals(tt.a, tt.b); got != tt.want {
				t.Errorf("Equals(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
