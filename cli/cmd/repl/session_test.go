package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/quant/lang"
	"github.com/ardnew/quant/log"
)

func newPreludeInstance(t *testing.T, w *bytes.Buffer) *lang.Instance {
	t.Helper()

	var opts []lang.Option
	if w != nil {
		opts = append(opts, lang.WithOutput(w))
	}

	in := lang.New(opts...)
	if err := in.LoadPrelude(context.Background()); err != nil {
		t.Fatalf("LoadPrelude() error = %v", err)
	}

	return in
}

func newTestSession(t *testing.T) *session {
	t.Helper()

	factory := func(_ context.Context, w *bytes.Buffer) (*lang.Instance, error) {
		return newPreludeInstance(t, w), nil
	}

	s, err := newSession(context.Background(), factory, log.Make(nil))
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}

	return s
}

func TestNewSession_NoFactory(t *testing.T) {
	_, err := newSession(context.Background(), nil, log.Make(nil))
	if !errors.Is(err, ErrNoInstance) {
		t.Errorf("newSession(nil) error = %v, want %v", err, ErrNoInstance)
	}
}

func TestSession_Eval(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string // evaluated in order; the last is checked
		wantOutput string
		wantErr    bool
		wantQuit   bool
		wantClear  bool
	}{
		{name: "empty", lines: []string{"   "}},
		{name: "expression", lines: []string{"2 * Meters"}, wantOutput: "2 m"},
		{name: "show", lines: []string{"show 3 * Meters"}, wantOutput: "3 m"},
		{
			name:       "make_then_use",
			lines:      []string{"make label called Width for 4 * Meters", "Width"},
			wantOutput: "4 m",
		},
		{name: "make_silent", lines: []string{"make unit_class called Charge"}},
		{name: "undefined", lines: []string{"Furlongs"}, wantErr: true},
		{name: "syntax", lines: []string{"3 * * Meter"}, wantErr: true},
		{name: "help", lines: []string{":help"}, wantOutput: helpMessage},
		{name: "quit", lines: []string{":q"}, wantQuit: true},
		{name: "clear", lines: []string{":clear"}, wantClear: true},
		{name: "unknown_command", lines: []string{":frobnicate"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)

			var r result
			for _, line := range tt.lines {
				r = s.eval(context.Background(), line)
			}

			if (r.err != nil) != tt.wantErr {
				t.Fatalf("eval() error = %v, wantErr %v", r.err, tt.wantErr)
			}

			if !tt.wantErr && r.output != tt.wantOutput {
				t.Errorf("eval() output = %q, want %q", r.output, tt.wantOutput)
			}

			if r.quit != tt.wantQuit || r.clear != tt.wantClear {
				t.Errorf("eval() quit, clear = %v, %v, want %v, %v",
					r.quit, r.clear, tt.wantQuit, tt.wantClear)
			}
		})
	}
}

func TestSession_Names(t *testing.T) {
	s := newTestSession(t)

	r := s.eval(context.Background(), ":names")
	if r.err != nil {
		t.Fatalf("eval() error = %v", r.err)
	}

	for _, name := range []string{"Meter", "Feet", "Velocity"} {
		if !strings.Contains(" "+r.output+" ", " "+name+" ") {
			t.Errorf(":names output missing %q", name)
		}
	}
}

func TestFormatResult_Snippet(t *testing.T) {
	s := newTestSession(t)

	r := s.eval(context.Background(), "3 * * Meter")
	if r.err == nil {
		t.Fatal("eval() error = nil, want syntax error")
	}

	if out := formatResult(r); !strings.Contains(out, "^") {
		t.Errorf("formatResult() = %q, want caret snippet", out)
	}
}
