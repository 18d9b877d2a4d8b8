package cli

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", name, err)
	}

	return val
}

func TestResolve(t *testing.T) {
	t.Parallel()

	config := `
log:
  level: debug
  time_layout: Kitchen
log-pretty: false
pprof_mode: cpu
depth: 3
ratio: 0.5
include:
  - a.ts
  - b.ts
`

	resolver, err := resolve(strings.NewReader(config))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-time-layout", "Kitchen"},
		{"log-pretty", false},
		{"pprof-mode", "cpu"},
		{"depth", "3"},
		{"ratio", "0.5"},
		{"missing", nil},
		{"log", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			t.Parallel()

			if got := resolveFlag(t, resolver, tt.flag); got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}

	t.Run("include", func(t *testing.T) {
		t.Parallel()

		got, ok := resolveFlag(t, resolver, "include").([]any)
		if !ok || !slices.Equal(got, []any{"a.ts", "b.ts"}) {
			t.Errorf("Resolve(include) = %#v", got)
		}
	})
}

func TestResolve_Empty(t *testing.T) {
	t.Parallel()

	resolver, err := resolve(strings.NewReader(""))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if val := resolveFlag(t, resolver, "log-level"); val != nil {
		t.Errorf("expected nil value for empty config, got %v", val)
	}

	if err := resolver.Validate(nil); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestResolve_Invalid(t *testing.T) {
	t.Parallel()

	_, err := resolve(strings.NewReader("- not\n- a mapping\n"))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("resolve() error = %v, want %v", err, ErrConfig)
	}
}
