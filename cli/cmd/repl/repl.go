package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/quant/lang"
	"github.com/ardnew/quant/log"
)

const prompt = "➜ "

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
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

// formatCommand formats the echoed input line.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// formatResult formats the outcome of one evaluated line for printing above
// the prompt.
func formatResult(r result) string {
	if r.err != nil {
		msg := errorStyle.Render("error: " + r.err.Error())
		if snip := lang.WrapError(r.err).Snippet(r.source); snip != "" {
			msg += "\n" + hintStyle.Render(strings.TrimSuffix(snip, "\n"))
		}

		return msg
	}

	return resultStyle.Render(r.output)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx          context.Context //nolint:containedctx
	sess         *session
	input        textinput.Model
	logger       log.Logger
	history      *History
	historyIdx   int
	draft        string        // input saved when history navigation began
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

// Run starts an interactive session on an instance created by factory.
// History is kept in cacheDir; an empty cacheDir keeps it in memory.
func Run(
	ctx context.Context,
	factory Factory,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start", slog.String("cache_dir", cacheDir))

	sess, err := newSession(ctx, factory, logger)
	if err != nil {
		return err
	}

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()))

	p := tea.NewProgram(newModel(ctx, sess, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	sess *session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		sess:       sess,
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
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
		m.input.Width = max(msg.Width-lipgloss.Width(prompt)-2, 1)

		return m, nil
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

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render("Type a statement or an expression, :help for help"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches()
		}

		return m, nil
	}

	var cmd tea.Cmd

	if msg.Type != tea.KeyRunes || msg.String() == " " {
		m.tabActive = false
	}

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// cycle moves the selected completion candidate by step, wrapping around,
// and writes it into the input. A sole candidate is accepted immediately.
func (m model) cycle(step int) model {
	switch len(m.matches) {
	case 0:
		return m

	case 1:
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// historyMove steps through history by step. Moving past the newest entry
// restores the line being typed before navigation began.
func (m model) historyMove(step int) model {
	n := m.history.Len()
	if n == 0 {
		return m
	}

	if m.historyIdx == n {
		m.draft = m.input.Value()
	}

	m.historyIdx = min(max(m.historyIdx+step, 0), n)
	m.tabActive = false
	m.matches = nil

	line := m.draft
	if m.historyIdx < n {
		line, _ = m.history.Get(m.historyIdx)
	}

	m.input.SetValue(line)
	m.input.CursorEnd()

	return m
}

func (m *model) replaceWord(word string) {
	input, cursor := replaceWord(m.input.Value(), m.wordStart, m.wordEnd, word)

	m.input.SetValue(input)
	m.input.SetCursor(cursor)
	m.wordEnd = cursor
}

func (m *model) refreshMatches() {
	m.matches, m.wordStart, m.wordEnd = complete(
		m.sess.in, m.input.Value(), m.input.Position())

	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())

	m.input.SetValue("")
	m.matches = nil
	m.tabActive = false

	if input == "" {
		return m, nil
	}

	if err := m.history.Add(input); err != nil {
		m.logger.WarnContext(m.ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
	m.draft = ""

	r := m.sess.eval(m.ctx, input)

	switch {
	case r.quit:
		m.quitting = true

		return m, tea.Quit

	case r.clear:
		return m, tea.ClearScreen
	}

	echo := formatCommand(input)
	if r.output == "" && r.err == nil {
		return m, tea.Println(echo)
	}

	return m, tea.Println(echo + "\n" + formatResult(r))
}
