package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the pretty text handler.
var (
	keyStyle    = lipgloss.NewStyle().Faint(true)
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	msgStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	levelStyle = map[Level]lipgloss.Style{
		LevelTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// prettyHandler is a [slog.Handler] writing one styled line per record:
//
//	TIME LEVEL source message key=value ...
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix string // pre-rendered attributes from WithAttrs
	groups []string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			buf.WriteString(timeStyle.Render(a.Value.String()))
			buf.WriteByte(' ')
		}
	}

	level := Level(r.Level)

	style, ok := levelStyle[level]
	if !ok {
		style = lipgloss.NewStyle()
	}

	buf.WriteString(style.Render(strings.ToUpper(level.String())))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			buf.WriteByte(' ')
			buf.WriteString(sourceStyle.Render(src.File + ":" + strconv.Itoa(src.Line)))
		}
	}

	buf.WriteByte(' ')
	buf.WriteString(msgStyle.Render(r.Message))
	buf.WriteString(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.groups, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf bytes.Buffer

	for _, a := range attrs {
		h.writeAttr(&buf, h.groups, a)
	}

	c := *h
	c.prefix += buf.String()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, g := range a.Value.Group() {
			h.writeAttr(buf, sub, g)
		}

		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	buf.WriteByte(' ')
	buf.WriteString(keyStyle.Render(key + "="))

	value := a.Value.String()
	if _, isErr := a.Value.Any().(error); isErr {
		buf.WriteString(errorStyle.Render(value))

		return
	}

	if strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}

	buf.WriteString(value)
}

// indentWriter re-indents each JSON object written to it.
type indentWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func newIndentWriter(w io.Writer) indentWriter {
	return indentWriter{mu: &sync.Mutex{}, w: w}
}

func (w indentWriter) Write(p []byte) (int, error) {
	var buf bytes.Buffer

	if err := json.Indent(&buf, bytes.TrimSpace(p), "", "  "); err != nil {
		return 0, err
	}

	buf.WriteByte('\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}

	return len(p), nil
}
