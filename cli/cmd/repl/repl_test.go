package repl

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tinyscript/log"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	s := newSession(context.Background(), log.Logger{}, nil)
	t.Cleanup(func() { s.close() })

	return newModel(context.Background(), s, NewHistory(""), log.Logger{})
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestModel_Eval(t *testing.T) {
	m := send(newTestModel(t), typed("x = 40 + 2"), key(tea.KeyEnter))

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	v := m.session.resolve("x")
	defer v.Release()

	if v.String() != "42" {
		t.Errorf("x = %s, want 42", v)
	}

	if m.history.Len() != 1 {
		t.Errorf("history has %d entries, want 1", m.history.Len())
	}
}

func TestModel_ModesAndHistory(t *testing.T) {
	m := newTestModel(t)

	m = send(m, typed("y = 1"), key(tea.KeyEnter))
	m = send(m, key(tea.KeyEsc))

	if m.mode != modeCtrl {
		t.Fatalf("Esc did not switch to command mode")
	}

	m = send(m, typed("list"), key(tea.KeyEnter))

	// Up walks back through both modes, switching to each entry's mode.
	m = send(m, key(tea.KeyUp))
	if m.input.Value() != "list" || m.mode != modeCtrl {
		t.Errorf("first Up: %q in mode %d", m.input.Value(), m.mode)
	}

	m = send(m, key(tea.KeyUp))
	if m.input.Value() != "y = 1" || m.mode != modeEval {
		t.Errorf("second Up: %q in mode %d", m.input.Value(), m.mode)
	}

	// Down past the newest entry clears the line.
	m = send(m, key(tea.KeyDown), key(tea.KeyDown))
	if m.input.Value() != "" {
		t.Errorf("input after leaving history: %q", m.input.Value())
	}
}

func TestModel_TabCompletion(t *testing.T) {
	m := newTestModel(t)

	m = send(m, typed("counter = 1"), key(tea.KeyEnter))
	m = send(m, typed("coun"), key(tea.KeyTab))

	if got := m.input.Value(); got != "counter" {
		t.Errorf("after Tab: %q, want %q", got, "counter")
	}
}

func TestModel_Quit(t *testing.T) {
	m := send(newTestModel(t), key(tea.KeyCtrlD))

	if !m.quitting || m.View() != "" {
		t.Error("Ctrl+D on an empty line did not quit")
	}
}

func TestHelpMessage(t *testing.T) {
	if strings.HasSuffix(helpMessage, "\n") {
		t.Error("help message ends with a newline; tea.Println adds one")
	}
}
