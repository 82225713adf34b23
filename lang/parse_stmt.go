package lang

import (
	"context"
	"io"
	"log/slog"
	"slices"
)

// ParseStatement parses one statement from the start of src. It returns the
// statement and the input that follows it.
func ParseStatement(
	ctx context.Context,
	src string,
	opts ...Option,
) (Statement, string, error) {
	p := newParser(src, opts...)
	p.skipSpace()

	stmt, err := p.statement()
	if err != nil {
		return nil, src, err
	}

	p.logger.TraceContext(ctx, "parse statement complete",
		slog.String("statement", stmt.String()))

	return stmt, p.rest(), nil
}

// ParseStatements parses as many statements as possible from src. Parsing
// stops at the first position where no statement can be recognized, and the
// input from that position on is returned as the remainder.
//
// It fails only if src is not blank and not even one statement parses.
func ParseStatements(
	ctx context.Context,
	src string,
	opts ...Option,
) ([]Statement, string, error) {
	p := newParser(src, opts...)

	stmts, err := p.statements()
	if err != nil && len(stmts) == 0 {
		return nil, src, err
	}

	p.logger.TraceContext(ctx, "parse statements complete",
		slog.Int("statement_count", len(stmts)),
		slog.Int("remaining", len(p.rest())))

	return stmts, p.rest(), nil
}

// ParseProgram parses src as a complete program. Any input that is not part
// of a statement is an [ErrParse].
func ParseProgram(
	ctx context.Context,
	src string,
	opts ...Option,
) (*Program, error) {
	p := newParser(src, opts...)

	stmts, err := p.statements()
	if err != nil {
		return nil, err
	}

	p.logger.TraceContext(ctx, "parse program complete",
		slog.Int("statement_count", len(stmts)))

	return &Program{Statements: stmts, Source: src}, nil
}

// ParseProgramReader parses a complete program from an io.Reader.
func ParseProgramReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseProgram(ctx, string(data), opts...)
}

// statements parses statements until end of input. On failure it returns the
// statements parsed so far, the error, and leaves the scanner positioned at
// the start of the failed statement.
func (p *parser) statements() ([]Statement, error) {
	var stmts []Statement

	for {
		p.skipSpace()

		if p.eof() {
			return stmts, nil
		}

		m := p.mark()

		stmt, err := p.statement()
		if err != nil {
			p.reset(m)

			return stmts, err
		}

		stmts = append(stmts, stmt)
	}
}

func (p *parser) statement() (Statement, error) {
	pos := p.position()

	switch {
	case p.keyword("make"):
		return p.makeStatement(pos)

	case p.keyword("show"):
		value, err := p.valueExpr()
		if err != nil {
			return nil, err
		}

		return Show{Value: value, At: pos}, nil
	}

	return nil, p.fail("'make' or 'show'")
}

// valueExpr parses the value of a statement. A value cannot begin with a
// statement keyword, so a missing value is not confused with the statement
// that follows.
func (p *parser) valueExpr() (Expression, error) {
	p.skipSpace()

	m := p.mark()
	if p.keyword("make") || p.keyword("show") {
		p.reset(m)

		return nil, p.fail("value expression")
	}

	return p.expr10()
}

var kinds = []Kind{
	KindUnitClass,
	KindBaseUnit,
	KindDerivedUnit,
	KindEntityClass,
	KindLabel,
	KindValue,
}

func (p *parser) makeStatement(pos Position) (Statement, error) {
	p.skipSpace()

	word, ok := p.identifier()
	if !ok || !slices.Contains(kinds, Kind(word)) {
		return nil, ErrParse.WithPosition(pos).
			WithRemaining(p.rest()).
			With(slog.String("expected", "declaration kind"),
				slog.String("kind", word))
	}

	kind := Kind(word)

	p.skipSpace()

	if !p.keyword("called") {
		return nil, p.fail("'called'")
	}

	names, err := p.names()
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindUnitClass:
		return MakeUnitClass{Names: names, At: pos}, nil

	case KindEntityClass:
		m := p.mark()
		p.skipSpace()

		hasFor := p.keyword("for")
		p.skipSpace()

		if p.peek() != '{' {
			if hasFor {
				return nil, p.fail("'{'")
			}

			p.reset(m)

			return MakeEntityClass{Names: names, Props: EntityBuilder{At: p.position()}, At: pos}, nil
		}

		props, err := p.entityBuilder()
		if err != nil {
			return nil, err
		}

		return MakeEntityClass{Names: names, Props: props, At: pos}, nil

	case KindLabel:
		p.skipSpace()

		if !p.keyword("for") {
			return nil, p.fail("'for'")
		}

		value, err := p.valueExpr()
		if err != nil {
			return nil, err
		}

		return MakeLabel{Names: names, Value: value, At: pos}, nil
	}

	p.skipSpace()
	p.keyword("for")

	value, err := p.valueExpr()
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindBaseUnit:
		return MakeBaseUnit{Names: names, Props: value, At: pos}, nil
	case KindDerivedUnit:
		return MakeDerivedUnit{Names: names, Props: value, At: pos}, nil
	default:
		return MakeValue{Names: names, Value: value, At: pos}, nil
	}
}

// names parses name (',' name)*.
func (p *parser) names() ([]string, error) {
	var names []string

	for {
		p.skipSpace()

		name, ok := p.identifier()
		if !ok {
			return nil, p.fail("name")
		}

		names = append(names, name)

		m := p.mark()
		p.skipSpace()

		if !p.expect(',') {
			p.reset(m)

			return names, nil
		}
	}
}
