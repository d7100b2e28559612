package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/snek/lang"
	"github.com/ardnew/snek/log"
)

// editSessionMsg is sent when the session source was edited and re-executed.
type editSessionMsg struct{ sess *session }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after an error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters an I/O error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	contPrompt = "· "
	ctrlPrompt = " :"
)

// indentUnit is one level of block indentation.
const indentUnit = "  "

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  vars     List variables and their values
  edit     Edit the session source in $EDITOR and re-run it
  reset    Discard all variables and session source
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement to run it; expression values are printed
  A line ending in ':' opens a block; an empty line runs it
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
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
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nameStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the echo line of an eval-mode input.
func formatCommand(prompt, input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the echo line of a control command.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Config configures a REPL session.
type Config struct {
	// Source, when non-nil, is executed before the first prompt.
	Source io.Reader
	// Name identifies Source in diagnostics.
	Name string
	// HistoryPath is the history file. Empty disables persistence.
	HistoryPath string
	Logger      log.Logger
	// Options are passed to every parse.
	Options []lang.Option
	// Input and Output override the terminal, mainly for tests.
	Input  io.Reader
	Output io.Writer
}

// session is the persistent state shared by every line entered: one root
// scope and the source of every statement that ran successfully.
type session struct {
	scope  *lang.Scope
	source []string
	opts   []lang.Option
}

func newSession(opts []lang.Option) *session {
	return &session{scope: lang.NewScope(), opts: opts}
}

// text returns the session source as a script.
func (s *session) text() string {
	if len(s.source) == 0 {
		return ""
	}

	return strings.Join(s.source, "\n") + "\n"
}

// exec parses and runs src in the session scope. On success src is
// appended to the session source. The returned value is the value of the
// last statement, and show reports whether that statement was an
// expression whose value should be printed.
func (s *session) exec(ctx context.Context, src string) (v lang.Value, show bool, err error) {
	ast, err := lang.ParseString(ctx, src, s.opts...)
	if err != nil {
		return lang.Nil(), false, err
	}

	v, err = ast.Run(ctx, s.scope)
	if err != nil {
		return lang.Nil(), false, err
	}

	if len(ast.Body) > 0 {
		s.source = append(s.source, strings.TrimRight(src, "\n"))
		_, show = ast.Body[len(ast.Body)-1].(*lang.ExprStmt)
	}

	return v, show, nil
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	sess         *session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	pending      []string      // lines of an open block
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := cfg.Logger

	logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.HistoryPath),
		slog.Bool("has_source", cfg.Source != nil),
	)

	sess := newSession(cfg.Options)

	if cfg.Source != nil {
		err = preload(ctx, sess, cfg)
		if err != nil {
			return err
		}

		logger.TraceContext(ctx, "repl source loaded",
			slog.String("name", cfg.Name),
			slog.Int("variables", sess.scope.Len()),
		)
	}

	history := NewHistory(cfg.HistoryPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	m := newModel(ctx, sess, history, logger)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}

	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	_, err = tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return context.Cause(ctx)
	}

	return err
}

// preload runs the configured source in the session scope.
func preload(ctx context.Context, sess *session, cfg Config) error {
	data, err := io.ReadAll(cfg.Source)
	if err != nil {
		return lang.ErrReadInput.Wrap(err).With(slog.String("source", cfg.Name))
	}

	_, _, err = sess.exec(ctx, string(data))
	if err != nil {
		return ErrPreload.With(slog.String("source", cfg.Name)).Wrap(err)
	}

	return nil
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	sess *session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		sess:       sess,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
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

	case editSessionMsg:
		m.sess = msg.sess
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("variables", m.sess.scope.Len()),
		)

		return m, tea.Println(resultStyle.Render("✔ session re-run from edited source"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
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

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case len(m.pending) > 0 && m.mode == modeEval:
		b.WriteString(hintStyle.Render(fmt.Sprintf(
			"block of %d line(s); enter an empty line to run it", len(m.pending))))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type a statement or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render(
				"Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"))
		}
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.pending = nil
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue("")
		m.tabActive = false
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
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyShiftUp:
		return m.historyStep(-1, true)

	case tea.KeyShiftDown:
		return m.historyStep(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes, tea.KeySpace:
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

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by dir, starting tab-cycling if needed.
// A single candidate is accepted immediately.
func (m model) cycle(dir int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	case dir > 0:
		m.tabActive, m.suggIdx = true, 0
	default:
		m.tabActive, m.suggIdx = true, len(m.matches)-1
	}

	if m.suggIdx >= 0 && m.preTabText == "" {
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it. Deletions and
// cursor movement pass false so editing never completes unexpectedly.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
		m.preTabText = ""
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// leadingIndent returns the indentation of line rounded down to whole
// levels.
func leadingIndent(line string) string {
	n := len(line) - len(strings.TrimLeft(line, " "))

	return strings.Repeat(indentUnit, n/len(indentUnit))
}

// opensBlock reports whether line ends with the ':' that opens a block.
func opensBlock(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t"), ":")
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := strings.TrimRight(m.input.Value(), " \t")

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if m.mode == modeCtrl {
		input := strings.TrimSpace(raw)
		if input == "" {
			return m, nil
		}

		_, _ = m.history.WriteWithMode(input, modeCtrl)
		m.historyIdx = m.history.Len()

		return m.executeCommand(input)
	}

	if len(m.pending) == 0 {
		if strings.TrimSpace(raw) == "" {
			return m, nil
		}

		_, _ = m.history.WriteWithMode(raw, modeEval)
		m.historyIdx = m.history.Len()

		echo := tea.Println(formatCommand(evalPrompt, raw))

		if opensBlock(raw) {
			m.pending = []string{raw}
			m.input.Prompt = promptStyle.Render(contPrompt)
			m.input.SetValue(leadingIndent(raw) + indentUnit)

			return m, echo
		}

		m, out := m.evaluate(raw)

		return m, tea.Sequence(echo, out)
	}

	// Continuation of an open block.
	if strings.TrimSpace(raw) == "" {
		src := strings.Join(m.pending, "\n")
		m.pending = nil
		m.input.Prompt = promptStyle.Render(evalPrompt)

		return m.evaluate(src)
	}

	_, _ = m.history.WriteWithMode(strings.TrimSpace(raw), modeEval)
	m.historyIdx = m.history.Len()

	m.pending = append(m.pending, raw)

	indent := leadingIndent(raw)
	if opensBlock(raw) {
		indent += indentUnit
	}

	m.input.SetValue(indent)

	return m, tea.Println(formatCommand(contPrompt, raw))
}

// evaluate runs src in the session and prints its value or diagnostic.
func (m model) evaluate(src string) (model, tea.Cmd) {
	ctx := m.ctxFunc()

	v, show, err := m.sess.exec(ctx, src)
	if err != nil {
		m.logger.TraceContext(ctx, "repl eval failed", slog.Any("error", err))

		return m, tea.Println(errorStyle.Render(strings.TrimRight(lang.Diagnostic(err, src), "\n")))
	}

	m.logger.TraceContext(ctx, "repl eval",
		slog.String("type", v.Type().String()),
		slog.Bool("show", show),
	)

	if !show {
		return m, nil
	}

	return m, tea.Println(resultStyle.Render(v.Source()))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("command", parts[0]))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.listVars()))

	case "r", "reset":
		m.sess = newSession(m.sess.opts)
		m.pending = nil

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.handleEdit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) handleEdit() tea.Cmd {
	cmd := &editSessionCommand{
		text:    m.sess.text(),
		opts:    m.sess.opts,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.result == nil {
			return editCancelledMsg{}
		}

		return editSessionMsg{sess: cmd.result}
	})
}

func (m model) listVars() string {
	if m.sess.scope.Len() == 0 {
		return hintStyle.Render("  (no variables)")
	}

	var b strings.Builder

	for name, v := range m.sess.scope.All() {
		b.WriteString("  " + nameStyle.Render(name) + " = " + resultStyle.Render(v.Source()) +
			" " + hintStyle.Render(v.Type().String()) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m model) historyPrev() (model, tea.Cmd) {
	return m.historyStep(-1, false)
}

func (m model) historyNext() (model, tea.Cmd) {
	return m.historyStep(1, false)
}

// historyStep moves through history by dir. When sameMode is set, entries
// recorded in the other mode are skipped; otherwise the mode follows the
// entry. Stepping past the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) (model, tea.Cmd) {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.GetEntry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m, nil
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		prompt := evalPrompt
		if len(m.pending) > 0 {
			prompt = contPrompt
		}

		m.input.Prompt = promptStyle.Render(prompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
