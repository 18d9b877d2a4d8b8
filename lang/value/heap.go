package value

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"sync/atomic"

	"github.com/ardnew/tinyscript/log"
)

var live atomic.Int64

// Live returns the number of heap allocations (lists, strings, objects and
// native records) that have not been destroyed.
func Live() int64 { return live.Load() }

type header struct {
	refs int32
}

func newHeader() header {
	live.Add(1)

	return header{refs: 1}
}

func (h *header) retain(k Kind) {
	if h.refs <= 0 {
		panic(fmt.Sprintf("value: reference to freed %s", k))
	}

	h.refs++
}

// drop removes one owner and reports whether it was the last one.
func (h *header) drop(k Kind) bool {
	if h.refs <= 0 {
		panic(fmt.Sprintf("value: release of freed %s", k))
	}

	h.refs--
	if h.refs > 0 {
		return false
	}

	live.Add(-1)

	return true
}

// List is a growable sequence of owned values.
type List struct {
	header
	items []Value
}

// NewList returns an empty list with room for capacity items.
func NewList(capacity int) Value {
	return Value{kind: KindList, list: &List{
		header: newHeader(),
		items:  make([]Value, 0, capacity),
	}}
}

// ListOf returns a list that takes ownership of items.
func ListOf(items ...Value) Value {
	v := NewList(len(items))
	v.list.items = append(v.list.items, items...)

	return v
}

// Len returns the number of items in l.
func (l *List) Len() int { return len(l.items) }

// At returns the item at index i (borrowed).
func (l *List) At(i int) Value { return l.items[i] }

// All yields every item in order (borrowed).
func (l *List) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Push appends item to l, taking ownership of it.
func (l *List) Push(item Value) { l.items = append(l.items, item) }

func (l *List) destroy() {
	items := l.items
	l.items = nil

	for _, v := range items {
		v.Release()
	}
}

// String is an immutable byte string.
type String struct {
	header
	b []byte
}

// NewString returns a string value holding a copy of s.
func NewString(s string) Value {
	return Value{kind: KindString, str: &String{header: newHeader(), b: []byte(s)}}
}

// NewBytes returns a string value that takes ownership of b.
func NewBytes(b []byte) Value {
	return Value{kind: KindString, str: &String{header: newHeader(), b: b}}
}

// Len returns the number of bytes in s.
func (s *String) Len() int { return len(s.b) }

// Bytes returns the contents of s. The slice must not be modified.
func (s *String) Bytes() []byte { return s.b }

func (s *String) String() string { return string(s.b) }

// Pair is one key/value pair of an [Object].
type Pair struct {
	Key Value
	Val Value
}

// Object is an ordered collection of members searched linearly by key
// equality. It optionally embeds one native record whose reference count is
// independent of the object's.
type Object struct {
	header
	members []Pair
	native  *Native
}

// NewObject returns an empty object with room for capacity members.
func NewObject(capacity int) Value {
	return Value{kind: KindObject, obj: &Object{
		header:  newHeader(),
		members: make([]Pair, 0, capacity),
	}}
}

// NewNativeObject returns an empty object that embeds a new native record
// of the given type. The record is destroyed with the object.
func NewNativeObject(typ string, data any, capacity int) Value {
	v := NewObject(capacity)
	v.obj.native = &Native{header: newHeader(), Type: typ, Data: data}

	return v
}

// Len returns the number of members in o.
func (o *Object) Len() int { return len(o.members) }

// Native returns the embedded native record, or nil.
func (o *Object) Native() *Native { return o.native }

// All yields every member in insertion order (borrowed).
func (o *Object) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for _, m := range o.members {
			if !yield(m.Key, m.Val) {
				return
			}
		}
	}
}

// Find returns the value bound to key (borrowed).
func (o *Object) Find(key Value) (Value, bool) {
	if i := o.index(key); i >= 0 {
		return o.members[i].Val, true
	}

	return Null(), false
}

// Lookup returns the value bound to the string key name (borrowed).
func (o *Object) Lookup(name string) (Value, bool) {
	if i := o.indexName(name); i >= 0 {
		return o.members[i].Val, true
	}

	return Null(), false
}

// Has reports whether o binds the string key name.
func (o *Object) Has(name string) bool { return o.indexName(name) >= 0 }

// Names returns the string keys of o in insertion order.
func (o *Object) Names() []string {
	names := make([]string, 0, len(o.members))

	for _, m := range o.members {
		if m.Key.kind == KindString {
			names = append(names, m.Key.str.String())
		}
	}

	return names
}

func (o *Object) index(key Value) int {
	for i, m := range o.members {
		if Equals(m.Key, key) {
			return i
		}
	}

	return -1
}

func (o *Object) indexName(name string) int {
	for i, m := range o.members {
		if m.Key.kind == KindString && string(m.Key.str.b) == name {
			return i
		}
	}

	return -1
}

// set binds key to val, taking ownership of both.
func (o *Object) set(key, val Value) {
	if i := o.index(key); i >= 0 {
		o.members[i].Val.Release()
		o.members[i].Val = val
		key.Release()

		return
	}

	o.members = append(o.members, Pair{Key: key, Val: val})
}

func (o *Object) destroy() {
	if n := o.native; n != nil {
		o.native = nil
		if n.drop(KindNative) {
			n.destroy()
		}
	}

	members := o.members
	o.members = nil

	for _, m := range members {
		m.Key.Release()
		m.Val.Release()
	}
}

// MemberGetter is implemented by native data that exposes named members.
// The returned Value is owned by the caller.
type MemberGetter interface {
	GetMember(name string) (Value, bool)
}

// Native is a host-defined record. When the record is destroyed, Data is
// closed if it implements [io.Closer].
type Native struct {
	header
	Type string
	Data any
}

// NewNative returns a native value of the given type.
func NewNative(typ string, data any) Value {
	return Value{kind: KindNative, nat: &Native{header: newHeader(), Type: typ, Data: data}}
}

func (n *Native) destroy() {
	data := n.Data
	n.Data = nil

	if c, ok := data.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn("close native resource",
				slog.String("type", n.Type),
				slog.Any("error", err),
			)
		}
	}
}

// Equals reports whether a and b are equal. Values of different kinds are
// never equal. Numbers and bools compare by value, strings bytewise, null
// equals null, and every other kind compares by identity.
func Equals(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBool, KindInt:
		return a.n == b.n
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.str == b.str || bytes.Equal(a.str.b, b.str.b)
	case KindList:
		return a.list == b.list
	case KindObject:
		return a.obj == b.obj
	case KindNative:
		return a.nat == b.nat
	case KindFunc:
		return a.fn == b.fn
	default:
		return false
	}
}
