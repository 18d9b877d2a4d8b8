// Package codec is the codec native module. It converts tinyscript values
// to and from YAML and JSON text.
//
//	load_module('codec')
//	cfg = codec.from_yaml('name: demo\nports: [80, 443]')
//	say(codec.json(cfg))
package codec

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/module/native"
	"github.com/ardnew/tinyscript/pkg"
)

// Name is the name the module is registered under.
const Name = "codec"

var (
	ErrArgument = pkg.NewError("invalid argument")
	ErrEncode   = pkg.NewError("encoding failed")
	ErrDecode   = pkg.NewError("decoding failed")
)

var members = []native.Member{
	{Name: "yaml", Fn: encodeYAML},
	{Name: "from_yaml", Fn: decodeYAML},
	{Name: "json", Fn: encodeJSON},
	{Name: "from_json", Fn: decodeJSON},
}

// Load binds the codec object in globals and returns it.
func Load(name string, globals value.Value) value.Value {
	return native.Bind(globals, name, native.Object(members...))
}

// ordered converts v to Go data, keeping object members in insertion order
// as a [yaml.MapSlice].
func ordered(v value.Value) any {
	switch v.Kind() {
	case value.KindObject:
		out := make(yaml.MapSlice, 0, v.Object().Len())
		for k, m := range v.Object().All() {
			out = append(out, yaml.MapItem{Key: k.Text(), Value: ordered(m)})
		}

		return out
	case value.KindList:
		out := make([]any, 0, v.List().Len())
		for _, item := range v.List().All() {
			out = append(out, ordered(item))
		}

		return out
	default:
		return value.ToNative(v)
	}
}

// fromOrdered converts decoded YAML to a value, keeping mapping order.
func fromOrdered(x any) value.Value {
	switch t := x.(type) {
	case yaml.MapSlice:
		obj := value.NewObject(len(t))
		for _, item := range t {
			value.SetEntry(obj, fromOrdered(item.Key), fromOrdered(item.Value))
		}

		return obj
	case []any:
		list := value.NewList(len(t))
		for _, item := range t {
			list.List().Push(fromOrdered(item))
		}

		return list
	default:
		return value.FromNative(x)
	}
}

// yaml(value [, indent]) returns value as a YAML document.
func encodeYAML(ctx *value.CallContext, args []value.Value) value.Value {
	if len(args) == 0 || len(args) > 2 {
		return native.Fail(ctx, "codec.yaml", ErrArgument)
	}

	var opts []yaml.EncodeOption
	if n, ok := native.Int(args, 1); ok && n > 0 {
		opts = append(opts, yaml.Indent(int(n)))
	}

	data, err := yaml.MarshalContext(ctx, ordered(args[0]), opts...)
	if err != nil {
		return native.Fail(ctx, "codec.yaml", ErrEncode.Wrap(err))
	}

	return value.NewBytes(data)
}

// from_yaml(text) parses a YAML document.
func decodeYAML(ctx *value.CallContext, args []value.Value) value.Value {
	text, ok := native.String(args, 0)
	if !ok {
		return native.Fail(ctx, "codec.from_yaml", ErrArgument)
	}

	var out any
	if err := yaml.UnmarshalWithOptions([]byte(text), &out, yaml.UseOrderedMap()); err != nil {
		return native.Fail(ctx, "codec.from_yaml", ErrDecode.Wrap(err))
	}

	return fromOrdered(out)
}

// json(value [, indent]) returns value as JSON text. Object keys are
// sorted.
func encodeJSON(ctx *value.CallContext, args []value.Value) value.Value {
	if len(args) == 0 || len(args) > 2 {
		return native.Fail(ctx, "codec.json", ErrArgument)
	}

	var (
		data []byte
		err  error
	)

	if n, ok := native.Int(args, 1); ok && n > 0 {
		data, err = json.MarshalIndent(value.ToNative(args[0]), "", strings.Repeat(" ", int(n)))
	} else {
		data, err = json.Marshal(value.ToNative(args[0]))
	}

	if err != nil {
		return native.Fail(ctx, "codec.json", ErrEncode.Wrap(err))
	}

	return value.NewBytes(data)
}

// from_json(text) parses a JSON document. Integral numbers become ints.
func decodeJSON(ctx *value.CallContext, args []value.Value) value.Value {
	text, ok := native.String(args, 0)
	if !ok {
		return native.Fail(ctx, "codec.from_json", ErrArgument)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return native.Fail(ctx, "codec.from_json", ErrDecode.Wrap(err))
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return native.Fail(ctx, "codec.from_json", ErrDecode.Wrap(errors.New("trailing data")))
	}

	return value.FromNative(numbers(out))
}

// numbers replaces every json.Number in x with an int64 or a float64.
func numbers(x any) any {
	switch t := x.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}

		f, _ := t.Float64()

		return f
	case []any:
		for i := range t {
			t[i] = numbers(t[i])
		}
	case map[string]any:
		for k := range t {
			t[k] = numbers(t[k])
		}
	}

	return x
}
