package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wildwinter/expression-parser/binding"
	"github.com/wildwinter/expression-parser/lang"
	"github.com/wildwinter/expression-parser/log"
)

// reloadMsg carries the result of reloading a watched bindings file.
type reloadMsg struct {
	bindings *binding.Bindings
	err      error
}

// editBindingsMsg is sent when editing produced a valid bindings document.
type editBindingsMsg struct{ bindings *binding.Bindings }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit an invalid
// document.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor itself failed.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help               Show this message
  list               List variables and functions
  set NAME=VALUE     Bind a variable for this session
  trace [on|off]     Show each evaluation step
  style [NAME]       Show or change the quoting style of the last expression
  ast                Print the structure of the last expression
  edit               Edit bindings in $EDITOR
  clear              Clear screen
  quit               Exit REPL

Usage:
  Type an expression to evaluate it, e.g. counter > 0 and name == 'fred'
  Completions appear as you type; Tab / Shift-Tab cycle through them
  Press Space or Enter to accept the current candidate
  Inside a call, the function signature is shown with the current argument
  Use Up/Down for history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
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
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Config describes a REPL session.
type Config struct {
	// Bindings are the variables and functions visible to expressions.
	Bindings *binding.Bindings
	// Path is the bindings file written by the edit command and reloaded
	// when Watch is set. It may be empty.
	Path string
	// CacheDir holds the history file. Empty keeps history in memory.
	CacheDir string
	Watch    bool
	Trace    bool
	Style    lang.Style
	Logger   log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	bindings     *binding.Bindings
	builtins     lang.Env
	path         string
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
	trace        bool
	style        lang.Style
	lastAST      *lang.AST
}

// Run starts an interactive session and blocks until the user quits or ctx
// is done.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Bindings == nil {
		cfg.Bindings = binding.New(binding.WithLogger(cfg.Logger))
	}

	cfg.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.String("path", cfg.Path),
		slog.Int("bindings", cfg.Bindings.Len()),
		slog.Bool("watch", cfg.Watch),
	)

	historyPath := ""
	if cfg.CacheDir != "" {
		historyPath = filepath.Join(cfg.CacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("file", historyPath), slog.Any("error", err))
	}

	p := tea.NewProgram(newModel(ctx, cfg, history), tea.WithContext(ctx))

	if cfg.Watch && cfg.Path != "" {
		go func() {
			err := binding.Watch(ctx, cfg.Path,
				func(b *binding.Bindings, err error) {
					p.Send(reloadMsg{bindings: b, err: err})
				},
				binding.WithLogger(cfg.Logger),
			)
			if err != nil {
				p.Send(reloadMsg{err: err})
			}
		}()
	}

	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	bindings := cfg.Bindings
	if bindings == nil {
		bindings = binding.New()
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		bindings:   bindings,
		builtins:   binding.Builtins(nil),
		path:       cfg.Path,
		logger:     cfg.Logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
		trace:      cfg.Trace,
		style:      cfg.Style,
	}
}

// context returns the evaluation context: bindings over builtins.
func (m model) context() lang.Context { return m.bindings.Context() }

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case reloadMsg:
		if msg.err != nil {
			return m, tea.Println(errorStyle.Render("reload failed: " + msg.err.Error()))
		}

		m.bindings = binding.Merge(m.bindings, msg.bindings)
		m.logger.TraceContext(m.ctxFunc(), "repl bindings reloaded",
			slog.Int("bindings", m.bindings.Len()))

		return m, tea.Println(hintStyle.Render(
			fmt.Sprintf("reloaded %d bindings from %s", msg.bindings.Len(), m.path)))

	case editBindingsMsg:
		m.bindings = msg.bindings
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("bindings", m.bindings.Len()))

		return m, tea.Println(resultStyle.Render("bindings updated"))

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
	call := detectFunctionCall(input, m.cursor())

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type an expression or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case call.inCall && m.mode == modeEval:
		signature, params := getSignature(m.bindings, m.builtins, call.name)
		if signature != "" {
			b.WriteString(renderSignatureHint(signature, params, call.argIndex))
		} else {
			b.WriteString(m.renderCandidateBar())
		}

	default:
		b.WriteString(m.renderCandidateBar())
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

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

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycleCandidate(1), nil

	case tea.KeyShiftTab:
		return m.cycleCandidate(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyShiftUp:
		return m.historyPrevInMode(), nil

	case tea.KeyShiftDown:
		return m.historyNextInMode(), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode(), nil

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

// cycleCandidate moves the tab selection by step, wrapping at either end.
// A sole candidate is completed immediately.
func (m model) cycleCandidate(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	case step < 0:
		m.startTab()
		m.suggIdx = n - 1

	default:
		m.startTab()
		m.suggIdx = 0
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

func (m *model) startTab() {
	m.tabActive = true
	m.preTabText = m.input.Value()
	m.preTabCursor = m.input.Position()
}

// cursor returns the byte offset of the cursor in the input. The text input
// counts positions in runes.
func (m model) cursor() int {
	runes := []rune(m.input.Value())

	return len(string(runes[:min(m.input.Position(), len(runes))]))
}

// replaceCurrentWord replaces the word under completion with replacement
// and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	prefix := input[:m.wordStart] + replacement

	m.input.SetValue(prefix + input[m.wordEnd:])
	m.input.SetCursor(utf8.RuneCountInString(prefix))

	m.wordEnd = len(prefix)
}

// refreshMatches recomputes completions for the current input. With
// autoConfirm, a sole candidate equal to the typed word is accepted. It is
// off for deletions and cursor movement.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if candidate := m.matches[0].Str; m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	cmds := []tea.Cmd{tea.Println(formatCommand(input))}

	ast, result, trace, err := m.evaluate(input)
	if ast != nil {
		m.lastAST = ast
	}

	if len(trace) > 0 {
		cmds = append(cmds, tea.Println(hintStyle.Render(trace.String())))
	}

	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	} else {
		cmds = append(cmds, tea.Println(resultStyle.Render(lang.FormatResult(result))))
	}

	return m, tea.Sequence(cmds...)
}

// evaluate parses and evaluates input against the session context. The
// parsed tree is returned even when evaluation fails.
func (m model) evaluate(input string) (
	ast *lang.AST,
	result any,
	trace lang.Trace,
	err error,
) {
	ctx := m.ctxFunc()

	m.logger.TraceContext(ctx, "repl eval", slog.String("input", input))

	ast, err = lang.Parse(ctx, input, lang.WithLogger(m.logger))
	if err != nil {
		return nil, nil, nil, err
	}

	var tp *lang.Trace
	if m.trace {
		tp = &trace
	}

	result, err = ast.Evaluate(ctx, m.context(), tp)

	return ast, result, trace, err
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(formatCtrlCommand(input))
	name, args := parts[0], parts[1:]

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.Any("args", args))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.editCmd())
	}

	m, out, err := m.command(name, args)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

// command runs the control commands that only produce output.
func (m model) command(name string, args []string) (model, string, error) {
	switch name {
	case "h", "help":
		return m, helpMessage(), nil

	case "l", "list":
		return m, m.listBindings(), nil

	case "set":
		key, value, err := binding.ParseAssignment(strings.Join(args, " "))
		if err != nil {
			return m, "", err
		}

		bindings, err := m.bindings.Set(key, value)
		if err != nil {
			return m, "", err
		}

		m.bindings = bindings
		sig, _ := bindings.Signature(key)

		return m, resultStyle.Render(sig), nil

	case "trace":
		switch {
		case len(args) == 0:
			m.trace = !m.trace

		case args[0] == "on":
			m.trace = true

		case args[0] == "off":
			m.trace = false

		default:
			return m, "", fmt.Errorf("%w: trace %s (want on or off)",
				ErrInvalidArgument, args[0])
		}

		if m.trace {
			return m, hintStyle.Render("trace on"), nil
		}

		return m, hintStyle.Render("trace off"), nil

	case "style":
		if len(args) == 0 {
			return m, fmt.Sprintf("%s %s", m.style,
				hintStyle.Render("("+strings.Join(lang.Styles(), ", ")+")")), nil
		}

		style, err := lang.ParseStyle(args[0])
		if err != nil {
			return m, "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		m.style = style

		if m.lastAST == nil {
			return m, hintStyle.Render("style " + style.String()), nil
		}

		return m, resultStyle.Render(m.lastAST.Write(style)), nil

	case "ast":
		if m.lastAST == nil {
			return m, "", ErrNoExpression
		}

		var b strings.Builder
		if err := m.lastAST.Print(m.ctxFunc(), &b); err != nil {
			return m, "", err
		}

		return m, strings.TrimRight(b.String(), "\n"), nil
	}

	return m, "", fmt.Errorf("%w: %s (try 'help')", ErrUnknownCommand, name)
}

func (m model) editCmd() tea.Cmd {
	cmd := &editBindingsCommand{
		bindings: m.bindings,
		path:     m.path,
		ctxFunc:  m.ctxFunc,
		logger:   m.logger,
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

		return editBindingsMsg{bindings: cmd.result}
	})
}

// listBindings renders each binding with its signature.
func (m model) listBindings() string {
	names := m.bindings.Names()
	if len(names) == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	var b strings.Builder

	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}

		sig, _ := m.bindings.Signature(name)
		b.WriteString("  " + name + " " + hintStyle.Render(sig))
	}

	return b.String()
}

// showEntry loads history entry i into the input, switching mode if the
// entry was entered in the other one.
func (m model) showEntry(i int) model {
	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	m.historyIdx = i

	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(utf8.RuneCountInString(entry.Line))
	refreshMatches(&m, false)

	return m
}

// leaveHistory returns to an empty input line past the newest entry.
func (m model) leaveHistory() model {
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	return m
}

func (m model) historyPrev() model {
	if m.historyIdx > 0 {
		return m.showEntry(m.historyIdx - 1)
	}

	return m
}

func (m model) historyNext() model {
	if m.historyIdx < m.history.Len()-1 {
		return m.showEntry(m.historyIdx + 1)
	}

	return m.leaveHistory()
}

func (m model) historyPrevInMode() model {
	for i := m.historyIdx - 1; i >= 0; i-- {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == m.mode {
			return m.showEntry(i)
		}
	}

	return m
}

func (m model) historyNextInMode() model {
	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == m.mode {
			return m.showEntry(i)
		}
	}

	if m.historyIdx < m.history.Len() {
		return m.leaveHistory()
	}

	return m
}

// toggleMode switches between eval and control modes.
func (m model) toggleMode() model {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to mode, saving the current line and restoring the
// one last typed in mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
