package lang

import (
	"math"
	"testing"
)

func TestScanner_Number(t *testing.T) {
	tests := []struct {
		input    string
		want     float64
		wantOK   bool
		wantRest string
	}{
		{"42", 42, true, ""},
		{"3.25 m", 3.25, true, " m"},
		{".5", 0.5, true, ""},
		{"1.", 1, true, "."},
		{"-7", -7, true, ""},
		{"+2e3", 2000, true, ""},
		{"6.02E+23", 6.02e23, true, ""},
		{"1e", 1, true, "e"},
		{"2ex", 2, true, "ex"},
		{"1e999", math.Inf(1), true, ""},
		{"abc", 0, false, "abc"},
		{"-", 0, false, "-"},
		{".", 0, false, "."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := newScanner(tt.input)

			got, ok := s.number()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("number() = %g, %v, want %g, %v", got, ok, tt.want, tt.wantOK)
			}

			if s.rest() != tt.wantRest {
				t.Errorf("rest() = %q, want %q", s.rest(), tt.wantRest)
			}
		})
	}
}

func TestScanner_NumberExponentOverflow(t *testing.T) {
	s := newScanner("1e99999999999")

	got, ok := s.number()
	if !ok || !math.IsNaN(got) {
		t.Errorf("number() = %g, %v, want NaN, true", got, ok)
	}

	if !s.eof() {
		t.Errorf("rest() = %q, want empty", s.rest())
	}
}

func TestScanner_Keyword(t *testing.T) {
	tests := []struct {
		input  string
		word   string
		wantOK bool
	}{
		{"make unit_class", "make", true},
		{"maker", "make", false},
		{"make_it", "make", false},
		{"make(", "make", true},
		{"mak", "make", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := newScanner(tt.input)

			if ok := s.keyword(tt.word); ok != tt.wantOK {
				t.Errorf("keyword(%q) = %v, want %v", tt.word, ok, tt.wantOK)
			}

			if !tt.wantOK && s.rest() != tt.input {
				t.Errorf("failed keyword consumed input, rest = %q", s.rest())
			}
		})
	}
}

func TestScanner_SkipSpace(t *testing.T) {
	s := newScanner("  // comment\n\t// another\n  x // trailing")
	s.skipSpace()

	if s.peek() != 'x' {
		t.Fatalf("peek() = %q, want 'x'", s.peek())
	}

	if pos := s.position(); pos.Line != 3 || pos.Column != 3 {
		t.Errorf("position() = %v, want line 3, column 3", pos)
	}

	s.advance()
	s.skipSpace()

	if !s.eof() {
		t.Errorf("rest() = %q, want empty", s.rest())
	}
}

func TestScanner_Identifier(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"Meter", "Meter", true},
		{"_x1 + y", "_x1", true},
		{"Ångström", "Ångström", true},
		{"1abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := newScanner(tt.input).identifier()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("identifier() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestScanner_Quoted(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{`"m"`, "m", false},
		{`"μs" rest`, "μs", false},
		{`""`, "", false},
		{`"open`, "", true},
		{"\"split\nline\"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := newScanner(tt.input).quoted()
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("quoted() = %q, %v, want %q, wantErr %v", got, err, tt.want, tt.wantErr)
			}
		})
	}
}
