package lang

import (
	"errors"
	"log/slog"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Position identifies a location in source text.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number in runes, starting at 1
}

// String returns "line L, column C".
func (p Position) String() string {
	return "line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// scanner holds the lexical state shared by the expression and statement
// parsers.
type scanner struct {
	input []byte
	pos   int
	line  int
	col   int
}

func newScanner(s string) *scanner {
	return &scanner{input: []byte(s), line: 1, col: 1}
}

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[s.pos:])

	return r
}

func (s *scanner) peekN(n int) string {
	if s.pos+n > len(s.input) {
		return string(s.input[s.pos:])
	}

	return string(s.input[s.pos : s.pos+n])
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRune(s.input[s.pos:])

	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *scanner) expect(ch rune) bool {
	if s.peek() == ch {
		s.advance()

		return true
	}

	return false
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) position() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.col,
	}
}

// mark and reset implement backtracking.
func (s *scanner) mark() scanner { return *s }

func (s *scanner) reset(m scanner) { *s = m }

// rest returns the unconsumed input.
func (s *scanner) rest() string {
	return string(s.input[s.pos:])
}

// fail builds a parse error at the current position.
func (s *scanner) fail(expected string) *Error {
	return ErrParse.WithPosition(s.position()).
		WithRemaining(s.rest()).
		With(slog.String("expected", expected))
}

// skipSpace skips whitespace and "//" comments.
func (s *scanner) skipSpace() {
	for !s.eof() {
		switch {
		case unicode.IsSpace(s.peek()):
			s.advance()

		case s.peekN(2) == "//":
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}

		default:
			return
		}
	}
}

// identifier scans one or more identifier characters not starting with a
// digit. It returns false without consuming input if none are present.
func (s *scanner) identifier() (string, bool) {
	if !isIdentifierStart(s.peek()) {
		return "", false
	}

	start := s.pos
	for !s.eof() && isIdentifierContinue(s.peek()) {
		s.advance()
	}

	return string(s.input[start:s.pos]), true
}

// keyword consumes word if it appears at the current position and is not
// immediately followed by another identifier character.
func (s *scanner) keyword(word string) bool {
	if s.peekN(len(word)) != word {
		return false
	}

	m := s.mark()

	for range word {
		s.advance()
	}

	if isIdentifierContinue(s.peek()) {
		s.reset(m)

		return false
	}

	return true
}

// number scans a numeric literal:
//
//	[+-] digits? ('.' digits)? ([eE] [+-]? digits)?
//
// At least one of the integer or fractional digits must be present. An
// exponent that does not fit in 32 bits yields NaN rather than an error.
func (s *scanner) number() (float64, bool) {
	m := s.mark()
	start := s.pos

	if s.peek() == '+' || s.peek() == '-' {
		s.advance()
	}

	intDigits := s.digits()

	fracDigits := 0
	if s.peek() == '.' {
		dot := s.mark()
		s.advance()

		if fracDigits = s.digits(); fracDigits == 0 {
			s.reset(dot)
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		s.reset(m)

		return 0, false
	}

	overflow := false

	if r := s.peek(); r == 'e' || r == 'E' {
		e := s.mark()
		s.advance()

		expStart := s.pos
		if s.peek() == '+' || s.peek() == '-' {
			s.advance()
		}

		if s.digits() == 0 {
			s.reset(e)
		} else {
			_, err := strconv.ParseInt(string(s.input[expStart:s.pos]), 10, 32)
			overflow = err != nil
		}
	}

	if overflow {
		return math.NaN(), true
	}

	v, err := strconv.ParseFloat(string(s.input[start:s.pos]), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN(), true
	}

	return v, true
}

func (s *scanner) digits() int {
	n := 0
	for !s.eof() && s.peek() >= '0' && s.peek() <= '9' {
		s.advance()
		n++
	}

	return n
}

// quoted scans a '"' delimited string with no escape processing. The closing
// quote must appear before the next newline.
func (s *scanner) quoted() (string, error) {
	if !s.expect('"') {
		return "", s.fail(`"`)
	}

	start := s.pos
	for !s.eof() {
		switch s.peek() {
		case '"':
			str := string(s.input[start:s.pos])
			s.advance()

			return str, nil

		case '\n':
			return "", s.fail(`closing "`)
		}

		s.advance()
	}

	return "", s.fail(`closing "`)
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
