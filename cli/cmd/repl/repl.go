// Package repl implements the interactive tinyscript shell.
package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tinyscript/lang/interp"
	"github.com/ardnew/tinyscript/log"
)

// editDoneMsg is sent when the editor exits with a script that parses.
type editDoneMsg struct{ cmd *editCommand }

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help         Print this message
  list         List bound names and their values
  edit         Write a multi-line script in $EDITOR and run it
  load <path>  Run a script file
  clear        Clear screen
  quit         Exit REPL

Usage:
  Type a statement to run it; its value is printed unless it is null
  Variables and functions persist between lines
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to browse command history
  Press Ctrl+C on empty line or Ctrl+D to exit`

// inputMode selects whether a submitted line is script or a command.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	outputStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx        context.Context
	input      textinput.Model
	session    *session
	logger     log.Logger
	history    *History
	historyIdx int
	edited     string        // source of the last accepted edit
	matches    fuzzy.Matches // ranked completions for the current word
	wordStart  int
	wordEnd    int
	suggIdx    int  // selected candidate index
	tabActive  bool // whether the user is tab-cycling
	preTab     textState
	altNav     bool // whether the user is in Alt+Up/Down navigation
	altOrig    textState
	altMode    inputMode
	width      int
	quitting   bool
	mode       inputMode
	saved      [2]textState // input of each mode while the other is active
}

// textState is a snapshot of the input line.
type textState struct {
	text   string
	cursor int
}

// Run starts an interactive session. The include files run first, in
// order, in the session's interpreter. History is kept in cacheDir.
func Run(
	ctx context.Context,
	includes []string,
	cacheDir string,
	modules *interp.Registry,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Any("includes", includes),
	)

	s := newSession(ctx, logger, modules)
	defer s.close()

	for _, path := range includes {
		if err := s.load(path); err != nil {
			return err
		}
	}

	historyPath := ""
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, HistoryFile)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	p := tea.NewProgram(newModel(ctx, s, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, s *session, history *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		input:      ti,
		session:    s,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		if msg.cmd.script == nil {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		m.edited = msg.cmd.source
		result, err := m.session.run(msg.cmd.script)

		return m, m.report(result, err)

	case editErrorMsg:
		if errors.Is(msg.err, ErrEditDeclined) {
			return m, tea.Println(hintStyle.Render("edit discarded"))
		}

		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len())))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type a statement or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: help, list, edit, load, clear, quit (press Esc to return)"))
		}

	case call.inCall && m.mode == modeEval && len(m.matches) == 0:
		if params, ok := m.session.params(call.name); ok {
			b.WriteString(renderSignatureHint(call.name, params, call.argIndex))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width, m.callable()))
	}

	b.WriteString("\n")

	return b.String()
}

// callable returns a predicate reporting whether a completion candidate
// names a function.
func (m model) callable() func(string) bool {
	if m.mode != modeEval {
		return nil
	}

	parent := parentPath(m.input.Value(), m.wordStart)

	return func(name string) bool {
		if parent != "" {
			name = parent + "." + name
		}

		return m.session.callable(name)
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive, m.altNav = false, false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altNav = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.browseCtrl(-1), nil
		}

		return m.browse(-1), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.browseCtrl(1), nil
		}

		return m.browse(1), nil

	case tea.KeyShiftUp:
		return m.browseMode(-1), nil

	case tea.KeyShiftDown:
		return m.browseMode(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.restore(m.preTab)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNav = false

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes:
		// Space accepts the candidate being cycled.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive, m.altNav = false, false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, starting a cycle if none is
// active. A single candidate is completed immediately.
func (m model) cycle(step int) model {
	switch len(m.matches) {
	case 0:
		return m
	case 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive, m.suggIdx, m.matches = false, -1, nil

		return m
	}

	n := len(m.matches)

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTab = m.snapshot()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

func (m model) snapshot() textState {
	return textState{text: m.input.Value(), cursor: m.input.Position()}
}

func (m *model) restore(s textState) {
	m.input.SetValue(s.text)
	m.input.SetCursor(s.cursor)
}

// replaceCurrentWord replaces the word under the cursor with replacement.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.wordEnd = m.wordStart + len(replacement)
	m.input.SetCursor(m.wordEnd)
}

// refreshMatches recomputes the completions. With autoConfirm, a word that
// already equals its only candidate is accepted so the bar disappears;
// deletions and cursor movement pass false to leave editing alone.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive, m.suggIdx, m.matches = false, -1, nil
	}
}

// report prints what a script wrote, then its value or error.
func (m model) report(result string, err error) tea.Cmd {
	var cmds []tea.Cmd

	if out := m.session.output(); out != "" {
		cmds = append(cmds, tea.Println(outputStyle.Render(out)))
	}

	switch {
	case err != nil:
		m.logger.TraceContext(m.ctx, "repl eval failed", slog.Any("error", err))
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	case result != "":
		cmds = append(cmds, tea.Println(resultStyle.Render(result)))
	}

	return tea.Sequence(cmds...)
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]textState{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	result, err := m.session.eval(input)

	return m, tea.Sequence(tea.Println(formatCommand(input)), m.report(result, err))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(formatCtrlCommand(input))
	cmd, args := parts[0], parts[1:]

	m.logger.TraceContext(m.ctx, "repl command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.list()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		edit := &editCommand{ctx: m.ctx, logger: m.logger, source: m.edited}

		return m, tea.Sequence(echo, tea.Exec(edit, func(err error) tea.Msg {
			if err != nil {
				return editErrorMsg{err: err}
			}

			return editDoneMsg{cmd: edit}
		}))

	case "load":
		if len(args) != 1 {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("usage: load <path>")))
		}

		err := m.session.load(args[0])

		return m, tea.Sequence(echo, m.report("", err))

	default:
		return m, tea.Println(errorStyle.Render("Unknown command: " + cmd + " (try 'help')"))
	}
}

// list renders every bound name with a preview of its value.
func (m model) list() string {
	var b strings.Builder

	for _, name := range m.session.names() {
		v := m.session.resolve(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(v.String())))
		v.Release()
	}

	return b.String()
}

// show loads history entry i into the input line.
func (m *model) show(i int, entry HistoryEntry) {
	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(m, false)
}

// clearHistoryView leaves history browsing with an empty input line.
func (m *model) clearHistoryView() {
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(m, false)
}

// browse moves step entries through the history, switching to each entry's
// mode.
func (m model) browse(step int) model {
	i := m.historyIdx + step

	if i >= m.history.Len() {
		m.clearHistoryView()

		return m
	}

	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	if entry.Mode != m.mode {
		m = m.switchToMode(entry.Mode)
	}

	m.show(i, entry)

	return m
}

// find returns the index of the nearest entry in mode from the current
// position in direction step, or -1.
func (m model) find(step int, mode inputMode) (int, HistoryEntry) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == mode {
			return i, entry
		}
	}

	return -1, HistoryEntry{}
}

// browseMode moves through the history entries of the current mode only.
func (m model) browseMode(step int) model {
	if i, entry := m.find(step, m.mode); i >= 0 {
		m.show(i, entry)
	} else if step > 0 && m.historyIdx < m.history.Len() {
		m.clearHistoryView()
	}

	return m
}

// browseCtrl moves through the command history, switching to command mode
// first. Running off either end restores the line and mode it started from.
func (m model) browseCtrl(step int) model {
	if !m.altNav {
		m.altNav = true
		m.altMode = m.mode
		m.altOrig = m.snapshot()

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	if i, entry := m.find(step, modeCtrl); i >= 0 {
		m.show(i, entry)

		return m
	}

	m.altNav = false
	if m.altMode != m.mode {
		m = m.switchToMode(m.altMode)
	}

	m.restore(m.altOrig)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m
}

// switchToMode switches to mode, keeping each mode's partial input.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = m.snapshot()
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.restore(m.saved[mode])
	refreshMatches(&m, false)

	return m
}
