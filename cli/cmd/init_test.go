package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		force    bool
		existing bool
		wantErr  error
	}{
		{"create_new_config", false, false, nil},
		{"overwrite_existing_with_force", true, true, nil},
		{"fail_without_force", false, true, ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.existing {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				Level string `default:"info" name:"log-level"`
				Quiet bool   `name:"quiet"`
			}

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			kctx, err := parser.Parse([]string{"--quiet"})
			if err != nil {
				t.Fatal(err)
			}

			err = (&Init{Force: tt.force}).Run(WithContext(context.Background(), kctx))

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			case err != nil:
				t.Fatalf("Init.Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("generated config is not YAML: %v\n%s", err, data)
			}

			if got["log-level"] != "info" || got["quiet"] != true {
				t.Errorf("generated config = %v", got)
			}

			if _, ok := got["help"]; ok {
				t.Error("help flag was persisted")
			}
		})
	}
}

func TestConfigValue(t *testing.T) {
	t.Parallel()

	type level string

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int", 5, int64(5)},
		{"uint", uint8(7), uint64(7)},
		{"float", 1.5, 1.5},
		{"string", "x", "x"},
		{"named_string", level("debug"), "debug"},
		{"empty_string", "", nil},
		{"empty_slice", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := configValue(tt.in); got != tt.want {
				t.Errorf("configValue(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}

	got, ok := configValue([]string{"a", "", "b"}).([]any)
	if !ok || len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("configValue(slice) = %#v", got)
	}
}
