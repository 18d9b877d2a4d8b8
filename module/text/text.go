// Package text is the text native module: string helpers, fuzzy matching,
// human readable numbers and UUIDs.
//
//	load_module('text')
//	say(text.bytes(1536), text.ordinal(3), text.fuzzy('cfg', ['config', 'cache']))
package text

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/module/native"
	"github.com/ardnew/tinyscript/pkg"
)

// Name is the name the module is registered under.
const Name = "text"

var ErrArgument = pkg.NewError("invalid argument")

var members = []native.Member{
	{Name: "upper", Fn: mapString(strings.ToUpper)},
	{Name: "lower", Fn: mapString(strings.ToLower)},
	{Name: "trim", Fn: mapString(strings.TrimSpace)},
	{Name: "len", Fn: length},
	{Name: "contains", Fn: contains},
	{Name: "replace", Fn: replace},
	{Name: "split", Fn: split},
	{Name: "join", Fn: join},
	{Name: "fuzzy", Fn: fuzzyFind},
	{Name: "bytes", Fn: bytes},
	{Name: "comma", Fn: comma},
	{Name: "ordinal", Fn: ordinal},
	{Name: "uuid", Fn: newUUID},
}

// Load binds the text object in globals and returns it.
func Load(name string, globals value.Value) value.Value {
	return native.Bind(globals, name, native.Object(members...))
}

func mapString(fn func(string) string) value.NativeFunc {
	return func(ctx *value.CallContext, args []value.Value) value.Value {
		s, ok := native.String(args, 0)
		if !ok {
			return native.Fail(ctx, "text", ErrArgument)
		}

		return value.NewString(fn(s))
	}
}

func stringList(items []string) value.Value {
	list := value.NewList(len(items))
	for _, s := range items {
		list.List().Push(value.NewString(s))
	}

	return list
}

// listStrings returns the items of a list of strings.
func listStrings(v value.Value) ([]string, bool) {
	if v.Kind() != value.KindList {
		return nil, false
	}

	out := make([]string, 0, v.List().Len())
	for _, item := range v.List().All() {
		if item.Kind() != value.KindString {
			return nil, false
		}

		out = append(out, item.Str().String())
	}

	return out, true
}

// len(str) returns the length of str in bytes.
func length(ctx *value.CallContext, args []value.Value) value.Value {
	s, ok := native.String(args, 0)
	if !ok {
		return native.Fail(ctx, "text.len", ErrArgument)
	}

	return value.Int(int64(len(s)))
}

// contains(str, sub) reports whether sub is within str.
func contains(ctx *value.CallContext, args []value.Value) value.Value {
	s, ok1 := native.String(args, 0)
	sub, ok2 := native.String(args, 1)

	if !ok1 || !ok2 {
		return native.Fail(ctx, "text.contains", ErrArgument)
	}

	return value.Bool(strings.Contains(s, sub))
}

// replace(str, old, new) replaces every old in str with new.
func replace(ctx *value.CallContext, args []value.Value) value.Value {
	s, ok := native.Strings(args, 0)
	if !ok || len(s) != 3 {
		return native.Fail(ctx, "text.replace", ErrArgument)
	}

	return value.NewString(strings.ReplaceAll(s[0], s[1], s[2]))
}

// split(str [, sep]) splits str around sep, or around runs of white space
// when sep is omitted.
func split(ctx *value.CallContext, args []value.Value) value.Value {
	s, ok := native.String(args, 0)
	if !ok {
		return native.Fail(ctx, "text.split", ErrArgument)
	}

	if len(args) == 1 {
		return stringList(strings.Fields(s))
	}

	sep, ok := native.String(args, 1)
	if !ok {
		return native.Fail(ctx, "text.split", ErrArgument)
	}

	return stringList(strings.Split(s, sep))
}

// join(list [, sep]) joins a list of strings.
func join(ctx *value.CallContext, args []value.Value) value.Value {
	if len(args) == 0 {
		return native.Fail(ctx, "text.join", ErrArgument)
	}

	items, ok := listStrings(args[0])
	if !ok {
		return native.Fail(ctx, "text.join", ErrArgument)
	}

	sep, _ := native.String(args, 1)

	return value.NewString(strings.Join(items, sep))
}

// fuzzy(pattern, list) returns the strings of list that fuzzily match
// pattern, best match first.
func fuzzyFind(ctx *value.CallContext, args []value.Value) value.Value {
	pattern, ok := native.String(args, 0)
	if !ok || len(args) != 2 {
		return native.Fail(ctx, "text.fuzzy", ErrArgument)
	}

	items, ok := listStrings(args[1])
	if !ok {
		return native.Fail(ctx, "text.fuzzy", ErrArgument)
	}

	matches := fuzzy.Find(pattern, items)

	out := value.NewList(len(matches))
	for _, m := range matches {
		out.List().Push(value.NewString(m.Str))
	}

	return out
}

// bytes(n) formats a byte count in SI units, as in "1.5 kB".
func bytes(ctx *value.CallContext, args []value.Value) value.Value {
	n, ok := native.Int(args, 0)
	if !ok || n < 0 {
		return native.Fail(ctx, "text.bytes", ErrArgument)
	}

	return value.NewString(humanize.Bytes(uint64(n)))
}

// comma(n) formats an integer with thousands separators.
func comma(ctx *value.CallContext, args []value.Value) value.Value {
	n, ok := native.Int(args, 0)
	if !ok {
		return native.Fail(ctx, "text.comma", ErrArgument)
	}

	return value.NewString(humanize.Comma(n))
}

// ordinal(n) formats n as an ordinal number, as in "3rd".
func ordinal(ctx *value.CallContext, args []value.Value) value.Value {
	n, ok := native.Int(args, 0)
	if !ok {
		return native.Fail(ctx, "text.ordinal", ErrArgument)
	}

	return value.NewString(humanize.Ordinal(int(n)))
}

// uuid() returns a random version 4 UUID.
func newUUID(_ *value.CallContext, _ []value.Value) value.Value {
	return value.NewString(uuid.NewString())
}
