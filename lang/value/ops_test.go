package value

import "testing"

func sameValue(a, b Value) bool {
	return a.Kind() == b.Kind() && Equals(a, b)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b Value) Value
		a, b Value
		want Value
	}{
		{"int+int", Add, Int(1), Int(1), Int(2)},
		{"int+float", Add, Int(1), Float(1), Float(2)},
		{"bool+int", Add, Bool(true), Int(4), Int(5)},
		{"bool+float", Add, Bool(true), Float(0.5), Float(1.5)},
		{"null+int", Add, Null(), Int(1), Null()},
		{"int-int", Sub, Int(1), Int(3), Int(-2)},
		{"float-int", Sub, Float(2.5), Int(1), Float(1.5)},
		{"int*int", Mul, Int(6), Int(7), Int(42)},
		{"int*float", Mul, Int(2), Float(0.25), Float(0.5)},
		{"int/int", Div, Int(4), Int(2), Float(2)},
		{"int/int fraction", Div, Int(1), Int(4), Float(0.25)},
		{"bool/int", Div, Bool(true), Int(1), Null()},
		{"int&int", BinAnd, Int(6), Int(3), Int(2)},
		{"float&int", BinAnd, Float(7.9), Int(5), Int(5)},
		{"bool|int", BinOr, Bool(true), Int(4), Int(5)},
		{"null|int", BinOr, Null(), Int(4), Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(tt.a, tt.b); !sameValue(got, tt.want) {
				t.Errorf("got %s %v, want %s %v", got.Kind(), got, tt.want.Kind(), tt.want)
			}
		})
	}
}

func TestArithmetic_HeapOperandsYieldNull(t *testing.T) {
	base := Live()

	s := NewString("a")
	l := NewList(0)

	for _, op := range []func(a, b Value) Value{Add, Sub, Mul, Div, BinAnd, BinOr} {
		if got := op(s, Int(1)); !got.IsNull() {
			t.Errorf("expected null, got %v", got)
		}

		if got := op(Int(1), l); !got.IsNull() {
			t.Errorf("expected null, got %v", got)
		}
	}

	s.Release()
	l.Release()
	checkLive(t, base)
}

func TestUnary(t *testing.T) {
	tests := []struct {
		name string
		op   func(Value) Value
		in   Value
		want Value
	}{
		{"not null", Not, Null(), Int(1)},
		{"not true", Not, Bool(true), Int(0)},
		{"not zero", Not, Int(0), Int(1)},
		{"not int", Not, Int(9), Int(0)},
		{"not float zero", Not, Float(0), Float(1)},
		{"not float", Not, Float(2), Float(0)},
		{"not func", Not, Func(nil), Null()},
		{"negate int", Negate, Int(3), Int(-3)},
		{"negate float", Negate, Float(1.5), Float(-1.5)},
		{"negate bool", Negate, Bool(true), Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(tt.in); !sameValue(got, tt.want) {
				t.Errorf("got %s %v, want %s %v", got.Kind(), got, tt.want.Kind(), tt.want)
			}
		})
	}
}

func TestAppend(t *testing.T) {
	base := Live()

	list := NewList(0)
	same := Append(list, Int(1))
	same = Append(same, NewString("two"))

	if !Equals(same, list) {
		t.Fatal("Append must return the same list")
	}

	if got := list.String(); got != "(1, 'two')" {
		t.Errorf("unexpected list %s", got)
	}

	if got := Append(NewString("x"), Int(1)); !got.IsNull() {
		t.Errorf("append to a string: got %v", got)
	}

	same.Release()
	checkLive(t, base)
}

func TestConcat(t *testing.T) {
	base := Live()

	a := NewString("foo")
	b := NewString("bar")
	c := Concat(a, b)

	if got := c.Text(); got != "foobar" {
		t.Errorf("got %q", got)
	}

	if Equals(c, a) {
		t.Error("concat must produce a new string")
	}

	if got := Concat(a, Int(1)); !got.IsNull() {
		t.Errorf("concat with int: got %v", got)
	}

	a.Release()
	b.Release()
	c.Release()
	checkLive(t, base)
}
