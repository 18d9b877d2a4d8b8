// Package native has helpers for writing tinyscript native modules.
package native

import (
	"log/slog"

	"github.com/ardnew/tinyscript/lang/value"
)

// Member is one function exported by a module.
type Member struct {
	Name string
	Fn   value.NativeFunc
}

// Object returns a new object holding members.
func Object(members ...Member) value.Value {
	obj := value.NewObject(len(members))
	for _, m := range members {
		value.SetMember(obj, m.Name, value.Func(m.Fn))
	}

	return obj
}

// Bind stores obj in globals under name and returns obj. The global holds
// its own reference.
func Bind(globals value.Value, name string, obj value.Value) value.Value {
	value.SetMember(globals, name, obj.Ref())

	return obj
}

// Names returns the member names of members in order.
func Names(members []Member) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}

	return names
}

// String returns args[i] if it is a string.
func String(args []value.Value, i int) (string, bool) {
	if i >= len(args) || args[i].Kind() != value.KindString {
		return "", false
	}

	return args[i].Str().String(), true
}

// Int returns args[i] if it is an int, or a float truncated toward zero.
func Int(args []value.Value, i int) (int64, bool) {
	if i >= len(args) || !args[i].IsNumeric() {
		return 0, false
	}

	return args[i].Int(), true
}

// Strings returns the string arguments from index i on. It fails if any of
// them is not a string.
func Strings(args []value.Value, i int) ([]string, bool) {
	out := make([]string, 0, max(len(args)-i, 0))

	for j := i; j < len(args); j++ {
		s, ok := String(args, j)
		if !ok {
			return nil, false
		}

		out = append(out, s)
	}

	return out, true
}

// Fail logs a failed native call at warn level and returns null.
func Fail(ctx *value.CallContext, fn string, err error, attrs ...slog.Attr) value.Value {
	attrs = append([]slog.Attr{slog.String("func", fn), slog.Any("error", err)}, attrs...)
	ctx.Logger.WarnContext(ctx, "native call failed", attrs...)

	return value.Null()
}
