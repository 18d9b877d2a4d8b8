package value

import (
	"context"
	"io"

	"github.com/ardnew/tinyscript/log"
)

// Kind identifies the dynamic type of a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindList
	KindString
	KindObject
	KindNative
	KindFunc
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindList:   "list",
	KindString: "string",
	KindObject: "object",
	KindNative: "native",
	KindFunc:   "function",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "invalid"
}

// Heap reports whether values of kind k are reference counted.
func (k Kind) Heap() bool {
	return k == KindList || k == KindString || k == KindObject || k == KindNative
}

// CallContext is passed to every [NativeFunc] invocation.
type CallContext struct {
	context.Context

	// Globals is the interpreter's shared global scope (borrowed).
	Globals Value
	// Me is the receiver of a member call, or Null (borrowed).
	Me Value

	Logger log.Logger
	Out    io.Writer
}

// NativeFunc is a function implemented by the host.
//
// The arguments are borrowed for the duration of the call. The returned
// Value is owned by the caller.
type NativeFunc func(ctx *CallContext, args []Value) Value

// Value is a dynamically typed runtime datum.
//
// The zero Value is Null.
type Value struct {
	kind Kind
	n    int64
	f    float64
	list *List
	str  *String
	obj  *Object
	nat  *Native
	fn   *NativeFunc
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.n = 1
	}

	return v
}

// Int returns an integer value.
func Int(n int64) Value { return Value{kind: KindInt, n: n} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Func returns a native function value. Function values are not reference
// counted; two values are equal only if they came from the same call to Func.
func Func(fn NativeFunc) Value { return Value{kind: KindFunc, fn: &fn} }

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumeric reports whether v is an int or a float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// IsZero reports whether v is null, false, integer zero or float zero.
// Heap values are never zero.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindBool, KindInt:
		return v.n == 0
	case KindFloat:
		return v.f == 0
	default:
		return false
	}
}

// Bool returns the truth value of a bool or int, or false.
func (v Value) Bool() bool {
	return (v.kind == KindBool || v.kind == KindInt) && v.n != 0
}

// Int returns v as an integer. Floats are truncated toward zero, bools are
// 0 or 1 and every other kind is 0.
func (v Value) Int() int64 {
	switch v.kind {
	case KindBool, KindInt:
		return v.n
	case KindFloat:
		return int64(v.f)
	default:
		return 0
	}
}

// Float returns v as a float. Bools are 0 or 1 and every other non-numeric
// kind is 0.
func (v Value) Float() float64 {
	switch v.kind {
	case KindBool, KindInt:
		return float64(v.n)
	case KindFloat:
		return v.f
	default:
		return 0
	}
}

// Str returns the string payload of v, or nil.
func (v Value) Str() *String { return v.str }

// List returns the list payload of v, or nil.
func (v Value) List() *List { return v.list }

// Object returns the object payload of v, or nil.
func (v Value) Object() *Object { return v.obj }

// Native returns the native record of v. For an object with an embedded
// native record, that record is returned.
func (v Value) Native() *Native {
	if v.kind == KindObject && v.obj != nil {
		return v.obj.native
	}

	return v.nat
}

// Func returns the native function of v, or nil.
func (v Value) Func() NativeFunc {
	if v.fn == nil {
		return nil
	}

	return *v.fn
}

// Ref adds an owner to v and returns v. It has no effect on inline kinds.
func (v Value) Ref() Value {
	if h := v.header(); h != nil {
		h.retain(v.kind)
	}

	return v
}

// Release drops one owner of v, destroying the allocation when the last
// owner is gone. It has no effect on inline kinds.
func (v Value) Release() {
	switch v.kind {
	case KindList:
		if v.list.drop(v.kind) {
			v.list.destroy()
		}
	case KindString:
		if v.str.drop(v.kind) {
			v.str.b = nil
		}
	case KindObject:
		if v.obj.drop(v.kind) {
			v.obj.destroy()
		}
	case KindNative:
		if v.nat.drop(v.kind) {
			v.nat.destroy()
		}
	}
}

// Refs returns the number of owners of v's allocation, or 0 for inline
// kinds.
func (v Value) Refs() int {
	if h := v.header(); h != nil {
		return int(h.refs)
	}

	return 0
}

func (v Value) header() *header {
	switch v.kind {
	case KindList:
		return &v.list.header
	case KindString:
		return &v.str.header
	case KindObject:
		return &v.obj.header
	case KindNative:
		return &v.nat.header
	default:
		return nil
	}
}
