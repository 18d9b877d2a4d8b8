package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"x = 1", modeEval},
		{"list", modeCtrl},
		{"x = 1", modeEval}, // moved to the end
		{"say(x)", modeEval},
		{"say(x)", modeEval}, // repeated last entry
		{"   ", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"list", modeCtrl},
		{"x = 1", modeEval},
		{"say(x)", modeEval},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}

	if _, err := h.Entry(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(3): %v, want ErrOutOfBounds", err)
	}
}

func TestHistory_UnprefixedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)
	if err := os.WriteFile(path, []byte("say(1)\nC:quit\n\nE:x\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []HistoryEntry{{"say(1)", modeEval}, {"quit", modeCtrl}, {"x", modeEval}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}
