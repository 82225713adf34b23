package repl

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/quant/lang"
	"github.com/ardnew/quant/log"
)

// session evaluates input lines against one instance.
type session struct {
	in     *lang.Instance
	shown  *bytes.Buffer // output of show statements
	logger log.Logger
}

// Factory returns a prepared instance that writes shown values to w.
type Factory func(ctx context.Context, w *bytes.Buffer) (*lang.Instance, error)

func newSession(ctx context.Context, factory Factory, logger log.Logger) (*session, error) {
	if factory == nil {
		return nil, ErrNoInstance
	}

	var shown bytes.Buffer

	in, err := factory(ctx, &shown)
	if err != nil {
		return nil, err
	}

	return &session{in: in, shown: &shown, logger: logger}, nil
}

// result is the outcome of one line.
type result struct {
	output string
	err    error
	source string // input that err positions refer to
	quit   bool
	clear  bool
}

// statementKeywords begin lines that are executed as statements. Any other
// line is evaluated as an expression and its value printed.
var statementKeywords = []string{"make", "show"}

// eval evaluates one line of input.
func (s *session) eval(ctx context.Context, line string) result {
	line = strings.TrimSpace(line)

	s.logger.TraceContext(ctx, "repl eval", slog.String("line", line))

	switch {
	case line == "":
		return result{}

	case strings.HasPrefix(line, ":"):
		return s.command(strings.TrimSpace(line[1:]))

	case isStatement(line):
		s.shown.Reset()

		err := s.in.Exec(ctx, line)

		return result{
			output: strings.TrimSuffix(s.shown.String(), "\n"),
			err:    err,
			source: line,
		}

	default:
		expr, err := lang.ParseExpression(ctx, line, lang.WithLogger(s.logger))
		if err != nil {
			return result{err: err, source: line}
		}

		d, err := s.in.ResolveExpression(ctx, expr, lang.PreferValues)
		if err != nil {
			return result{err: err, source: line}
		}

		return result{output: s.in.Describe(d)}
	}
}

func isStatement(line string) bool {
	word, _, _ := strings.Cut(line, " ")

	for _, kw := range statementKeywords {
		if word == kw {
			return true
		}
	}

	return false
}

// commands are the names accepted after ':'.
var commands = []string{"help", "names", "clear", "quit"}

func (s *session) command(name string) result {
	switch name {
	case "help", "h", "?":
		return result{output: helpMessage}
	case "names", "n":
		return result{output: strings.Join(s.in.Names(), " ")}
	case "clear", "c":
		return result{clear: true}
	case "quit", "q", "exit":
		return result{quit: true}
	default:
		return result{err: errors.New("unknown command :" + name + " (try :help)")}
	}
}

const helpMessage = `Enter a statement or an expression:

  make unit_class called Length
  make label called Speed for Length / Time
  show 3 * Feet + 1 * Meter
  12 * Inches / (1 * Foot)

Commands:

  :help    Print this message
  :names   List every declared name
  :clear   Clear screen
  :quit    Exit

Keys:

  Tab / Shift-Tab   Cycle completions
  Up / Down         Navigate history
  Ctrl+C            Clear line, or exit on an empty line
  Ctrl+D            Exit`
