package value

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"time"
)

// ToNative converts v to plain Go data: nil, bool, int64, float64, string,
// []any and map[string]any. Object keys that are not strings are converted
// with [Value.Text]. Native records convert to their Data and native
// functions to nil. v is borrowed.
func ToNative(v Value) any {
	switch v.kind {
	case KindBool:
		return v.n != 0
	case KindInt:
		return v.n
	case KindFloat:
		return v.f
	case KindString:
		return v.str.String()
	case KindList:
		out := make([]any, len(v.list.items))
		for i, item := range v.list.items {
			out[i] = ToNative(item)
		}

		return out
	case KindObject:
		out := make(map[string]any, len(v.obj.members))
		for _, m := range v.obj.members {
			out[m.Key.Text()] = ToNative(m.Val)
		}

		return out
	case KindNative:
		return v.nat.Data
	default:
		return nil
	}
}

// FromNative converts Go data to an owned Value. Maps become objects with
// their keys in sorted order, slices and arrays become lists, and any
// unsupported type becomes a string holding its %v form. A Value argument
// is returned with an additional reference.
func FromNative(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t.Ref()
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Int(int64(t))
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return Int(int64(t))
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return NewString(t)
	case []byte:
		return NewString(string(t))
	case time.Time:
		return NewString(t.Format(time.RFC3339Nano))
	case fmt.Stringer:
		return NewString(t.String())
	case []any:
		list := NewList(len(t))
		for _, item := range t {
			list.list.Push(FromNative(item))
		}

		return list
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		obj := NewObject(len(t))
		for _, k := range keys {
			obj.obj.members = append(obj.obj.members, Pair{
				Key: NewString(k),
				Val: FromNative(t[k]),
			})
		}

		return obj
	}

	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}

		return FromNative(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		list := NewList(rv.Len())
		for i := range rv.Len() {
			list.list.Push(FromNative(rv.Index(i).Interface()))
		}

		return list
	case reflect.Map:
		type entry struct {
			key string
			val reflect.Value
		}

		entries := make([]entry, 0, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			entries = append(entries, entry{fmt.Sprint(it.Key().Interface()), it.Value()})
		}

		slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.key, b.key) })

		obj := NewObject(len(entries))
		for _, e := range entries {
			obj.obj.members = append(obj.obj.members, Pair{
				Key: NewString(e.key),
				Val: FromNative(e.val.Interface()),
			})
		}

		return obj
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Int(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return NewString(rv.String())
	}

	return NewString(fmt.Sprintf("%v", rv.Interface()))
}
