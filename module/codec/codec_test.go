package codec

import (
	"context"
	"strings"
	"testing"

	"github.com/ardnew/tinyscript/lang/value"
)

func call(fn value.NativeFunc, args ...value.Value) value.Value {
	defer func() {
		for _, a := range args {
			a.Release()
		}
	}()

	return fn(&value.CallContext{Context: context.Background()}, args)
}

func sample() value.Value {
	obj := value.NewObject(3)
	value.SetMember(obj, "name", value.NewString("demo"))
	value.SetMember(obj, "ports", value.ListOf(value.Int(80), value.Int(443)))
	value.SetMember(obj, "debug", value.Bool(true))

	return obj
}

func TestYAML(t *testing.T) {
	live := value.Live()

	text := call(encodeYAML, sample())
	if text.Kind() != value.KindString {
		t.Fatalf("yaml() = %s", text)
	}

	doc := text.Text()

	name, ports, debug := strings.Index(doc, "name: demo"), strings.Index(doc, "ports:"), strings.Index(doc, "debug: true")
	if name < 0 || ports < name || debug < ports {
		t.Errorf("yaml() = %q", doc)
	}

	back := call(decodeYAML, text)

	got := value.Member(back, "name")
	if got.Text() != "demo" {
		t.Errorf("name = %s", got)
	}

	got.Release()

	if got := back.Object().Names(); len(got) != 3 || got[0] != "name" || got[2] != "debug" {
		t.Errorf("member order = %v", got)
	}

	list := value.Member(back, "ports")
	if list.Kind() != value.KindList || list.List().Len() != 2 || list.List().At(1).Int() != 443 {
		t.Errorf("ports = %s", list)
	}

	list.Release()
	back.Release()

	if value.Live() != live {
		t.Errorf("%d values leaked", value.Live()-live)
	}
}

func TestJSON(t *testing.T) {
	text := call(encodeJSON, sample())
	defer text.Release()

	if got, want := text.Text(), `{"debug":true,"name":"demo","ports":[80,443]}`; got != want {
		t.Errorf("json() = %s, want %s", got, want)
	}

	back := call(decodeJSON, value.NewString(`{"n": 1, "f": 1.5, "l": [null, "x"]}`))
	defer back.Release()

	tests := []struct {
		name string
		want string
	}{
		{"n", "1"},
		{"f", "1.5"},
		{"l", "(null, 'x')"},
	}

	for _, tt := range tests {
		v := value.Member(back, tt.name)
		if v.String() != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, v, tt.want)
		}

		v.Release()
	}

	if n := value.Member(back, "n"); n.Kind() != value.KindInt {
		t.Errorf("n kind = %s", n.Kind())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   value.NativeFunc
		arg  value.Value
	}{
		{"json syntax", decodeJSON, value.NewString("{")},
		{"json trailing", decodeJSON, value.NewString("1 2")},
		{"json argument", decodeJSON, value.Int(1)},
		{"yaml syntax", decodeYAML, value.NewString("a: [")},
		{"yaml argument", decodeYAML, value.Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := call(tt.fn, tt.arg); !got.IsNull() {
				t.Errorf("got %s, want null", got)
			}
		})
	}
}
