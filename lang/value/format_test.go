package value

import (
	"bytes"
	"testing"
)

func TestString(t *testing.T) {
	base := Live()

	inner := NewObject(0)
	SetMember(inner, "y", ListOf(Int(1), Float(2.5), NewString("s")))

	outer := NewObject(0)
	SetMember(outer, "x", Bool(true))
	SetMember(outer, "inner", inner)
	SetMember(outer, "n", Null())

	want := "{\n" +
		"  'x': true,\n" +
		"  'inner': {\n" +
		"    'y': (1, 2.5, 's')\n" +
		"  },\n" +
		"  'n': null\n" +
		"}"

	if got := outer.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	var buf bytes.Buffer
	if err := Fprint(&buf, outer); err != nil {
		t.Fatal(err)
	}

	if buf.String() != want {
		t.Errorf("Fprint differs from String: %q", buf.String())
	}

	outer.Release()
	checkLive(t, base)
}

func TestString_Scalars(t *testing.T) {
	nat := NewNative("File", nil)
	defer nat.Release()

	empty := NewObject(0)
	defer empty.Release()

	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Bool(false), "false"},
		{Int(-12), "-12"},
		{Float(2), "2"},
		{Float(0.125), "0.125"},
		{Float(0.1 + 0.2), "0.3"},
		{Float(1.0 / 3), "0.333333"},
		{Float(1e6), "1e+06"},
		{nat, "<native: File>"},
		{Func(nil), "<native function>"},
		{empty, "{\n}"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestText(t *testing.T) {
	s := NewString("plain")
	defer s.Release()

	if got := s.Text(); got != "plain" {
		t.Errorf("got %q", got)
	}

	if got := s.String(); got != "'plain'" {
		t.Errorf("got %q", got)
	}

	if got := Int(4).Text(); got != "4" {
		t.Errorf("got %q", got)
	}
}

func TestString_Cycles(t *testing.T) {
	base := Live()

	list := ListOf(Int(1))
	list = Append(list, list.Ref())

	obj := NewObject(1)
	SetMember(obj, "self", obj.Ref())
	SetMember(obj, "list", list.Ref())

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"list", list, "(1, (...))"},
		{"object", obj, "{\n  'self': {...},\n  'list': (1, (...))\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	// Break both cycles so everything is reclaimed.
	SetEntry(list, Int(1), Null())
	SetMember(obj, "self", Null())
	obj.Release()
	list.Release()
	checkLive(t, base)
}

func TestString_SharedIsNotCycle(t *testing.T) {
	base := Live()

	inner := ListOf(Int(7))
	outer := ListOf(inner.Ref(), inner)

	if got := outer.String(); got != "((7), (7))" {
		t.Errorf("got %q", got)
	}

	outer.Release()
	checkLive(t, base)
}
