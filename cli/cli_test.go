package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/tinyscript/cli/cmd"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tinyscript-cli-test-")
	if err != nil {
		panic(err)
	}

	// configDir and cacheDir are resolved once, so the environment must be
	// set before any test runs.
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()

	lib := filepath.Join(dir, "lib.ts")
	if err := os.WriteFile(lib, []byte("global greeting\ngreeting = 'hello'\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	script := filepath.Join(dir, "main.ts")
	if err := os.WriteFile(script, []byte("say(greeting, args[0])\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default_command", []string{"--include", lib, script, "world"}, "hello world\n"},
		{"run_command", []string{"-I", lib, "run", script, "there"}, "hello there\n"},
		{"dump_command", []string{"dump", "--tokens", script}, "1:1\tIDENT\t\"say\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := cmd.WithOutput(context.Background(), &out)

			exited := -1
			if err := Run(ctx, func(code int) { exited = code }, tt.args...); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if exited != -1 {
				t.Fatalf("Run() exited with %d", exited)
			}

			got := out.String()
			if tt.name == "dump_command" {
				got = got[:len(tt.want)]
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		level  logLevel
		caller bool
		pretty bool
	}{
		{"none", nil, "", false, true},
		{"assigned", []string{"--log-level=debug", "--log-caller"}, "debug", true, true},
		{"separate", []string{"run", "--log-level", "error", "x.ts"}, "error", false, true},
		{"negated", []string{"--no-log-pretty", "--log-caller=false"}, "", false, false},
		{"after_terminator", []string{"--", "--log-level=debug"}, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := logConfig{Pretty: true}
			cfg.scan(tt.args)

			if cfg.Level != tt.level || cfg.Caller != tt.caller || cfg.Pretty != tt.pretty {
				t.Errorf("scan(%q) = %+v", tt.args, cfg)
			}
		})
	}
}
