package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/quant/log"
)

// ParseExpression parses src as a single expression. The entire input must be
// consumed; trailing text is reported as [ErrParse] with the remaining input.
func ParseExpression(
	ctx context.Context,
	src string,
	opts ...Option,
) (Expression, error) {
	p := newParser(src, opts...)

	expr, err := p.expr10()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.eof() {
		return nil, p.fail("end of input")
	}

	p.logger.TraceContext(ctx, "parse expression complete",
		slog.String("expression", expr.String()))

	return expr, nil
}

// parser holds the parser state.
type parser struct {
	scanner

	logger log.Logger
}

func newParser(src string, opts ...Option) *parser {
	cfg := makeConfig(opts...)

	return &parser{
		scanner: *newScanner(src),
		logger:  cfg.logger,
	}
}

// expr10 parses left-associative addition and subtraction.
func (p *parser) expr10() (Expression, error) {
	lhs, err := p.expr20()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		var op BinaryOp

		switch p.peek() {
		case '+':
			op = Add
		case '-':
			op = Sub
		default:
			return lhs, nil
		}

		pos := p.position()
		p.advance()

		rhs, err := p.expr20()
		if err != nil {
			return nil, err
		}

		lhs = BinaryExpr{LHS: lhs, Op: op, RHS: rhs, At: pos}
	}
}

// expr20 parses left-associative multiplication and division.
func (p *parser) expr20() (Expression, error) {
	lhs, err := p.expr30()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		var op BinaryOp

		switch p.peek() {
		case '*':
			op = Mul
		case '/':
			op = Div
		default:
			return lhs, nil
		}

		pos := p.position()
		p.advance()

		rhs, err := p.expr30()
		if err != nil {
			return nil, err
		}

		lhs = BinaryExpr{LHS: lhs, Op: op, RHS: rhs, At: pos}
	}
}

// expr30 parses right-associative exponentiation. Operands are collected
// left to right and the tree is rebuilt from the rightmost operand.
func (p *parser) expr30() (Expression, error) {
	first, err := p.expr40()
	if err != nil {
		return nil, err
	}

	operands := []Expression{first}
	carets := []Position{}

	for {
		p.skipSpace()

		if p.peek() != '^' {
			break
		}

		carets = append(carets, p.position())
		p.advance()

		next, err := p.expr40()
		if err != nil {
			return nil, err
		}

		operands = append(operands, next)
	}

	result := operands[len(operands)-1]
	for i := len(operands) - 2; i >= 0; i-- {
		result = BinaryExpr{LHS: operands[i], Op: Pow, RHS: result, At: carets[i]}
	}

	return result, nil
}

// expr40 parses an atom optionally followed by a call argument list.
func (p *parser) expr40() (Expression, error) {
	p.skipSpace()

	atom, err := p.expr50()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if p.peek() != '(' {
		return atom, nil
	}

	pos := p.position()
	p.advance()

	var args []Expression

	for {
		p.skipSpace()

		if p.expect(')') {
			break
		}

		arg, err := p.expr10()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		p.skipSpace()

		if p.expect(',') {
			continue
		}

		if p.expect(')') {
			break
		}

		return nil, p.fail("',' or ')'")
	}

	return CallExpr{Func: atom, Args: args, At: pos}, nil
}

// expr50 parses an atom.
func (p *parser) expr50() (Expression, error) {
	pos := p.position()

	if v, ok := p.number(); ok {
		return NumberLit{Value: v, At: pos}, nil
	}

	if name, ok := p.identifier(); ok {
		return NameRef{Name: name, At: pos}, nil
	}

	switch p.peek() {
	case '"':
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}

		return StringLit{Value: s, At: pos}, nil

	case '(':
		p.advance()

		inner, err := p.expr10()
		if err != nil {
			return nil, err
		}

		p.skipSpace()

		if !p.expect(')') {
			return nil, p.fail("')'")
		}

		return inner, nil

	case '{':
		return p.entityBuilder()

	case '-':
		p.advance()
		p.skipSpace()

		operand, err := p.expr50()
		if err != nil {
			return nil, err
		}

		return UnaryExpr{Op: Negate, Operand: operand, At: pos}, nil
	}

	return nil, p.fail("number, name, string, '(' or '{'")
}

// entityBuilder parses { field, name: expr, ... } with an optional trailing
// comma.
func (p *parser) entityBuilder() (Expression, error) {
	b := EntityBuilder{At: p.position()}

	if !p.expect('{') {
		return nil, p.fail("'{'")
	}

	for {
		p.skipSpace()

		if p.expect('}') {
			return b, nil
		}

		at := p.position()

		name, ok := p.identifier()
		if !ok {
			return nil, p.fail("property or class name")
		}

		p.skipSpace()

		if p.expect(':') {
			value, err := p.expr10()
			if err != nil {
				return nil, err
			}

			b.Properties = append(b.Properties, Property{Name: name, Value: value})
		} else {
			b.Classes = append(b.Classes, NameRef{Name: name, At: at})
		}

		p.skipSpace()

		if p.expect(',') {
			continue
		}

		if p.expect('}') {
			return b, nil
		}

		return nil, p.fail("',' or '}'")
	}
}
