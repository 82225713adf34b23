package lang

import (
	"strconv"
	"strings"
)

// Expression is a node of a parsed expression tree.
//
// The set of implementations is closed: [NumberLit], [StringLit], [NameRef],
// [UnaryExpr], [BinaryExpr], [CallExpr], and [EntityBuilder].
type Expression interface {
	Pos() Position
	String() string
	expression()
}

// UnaryOp identifies a prefix operator.
type UnaryOp int

const (
	Negate UnaryOp = iota // -
)

// String returns the operator's source token.
func (op UnaryOp) String() string {
	switch op {
	case Negate:
		return "-"
	default:
		return "?"
	}
}

// BinaryOp identifies an infix operator.
type BinaryOp int

const (
	Add BinaryOp = iota // +
	Sub                 // -
	Mul                 // *
	Div                 // /
	Pow                 // ^
)

// String returns the operator's source token.
func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Pow:
		return "^"
	default:
		return "?"
	}
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
	At    Position
}

// StringLit is a double-quoted string literal.
type StringLit struct {
	Value string
	At    Position
}

// NameRef refers to a declared name.
type NameRef struct {
	Name string
	At   Position
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expression
	At      Position
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	LHS Expression
	Op  BinaryOp
	RHS Expression
	At  Position
}

// CallExpr applies a function to arguments. It parses but does not evaluate.
type CallExpr struct {
	Func Expression
	Args []Expression
	At   Position
}

// Property is a named field of an [EntityBuilder].
type Property struct {
	Name  string
	Value Expression
}

// EntityBuilder constructs an entity from class tags and properties, written
// as { tag, name: expr, ... }.
type EntityBuilder struct {
	Classes    []NameRef
	Properties []Property
	At         Position
}

func (NumberLit) expression()     {}
func (StringLit) expression()     {}
func (NameRef) expression()       {}
func (UnaryExpr) expression()     {}
func (BinaryExpr) expression()    {}
func (CallExpr) expression()      {}
func (EntityBuilder) expression() {}

func (e NumberLit) Pos() Position     { return e.At }
func (e StringLit) Pos() Position     { return e.At }
func (e NameRef) Pos() Position       { return e.At }
func (e UnaryExpr) Pos() Position     { return e.At }
func (e BinaryExpr) Pos() Position    { return e.At }
func (e CallExpr) Pos() Position      { return e.At }
func (e EntityBuilder) Pos() Position { return e.At }

func (e NumberLit) String() string {
	return strconv.FormatFloat(e.Value, 'g', -1, 64)
}

func (e StringLit) String() string { return `"` + e.Value + `"` }

func (e NameRef) String() string { return e.Name }

func (e UnaryExpr) String() string {
	return "(" + e.Op.String() + e.Operand.String() + ")"
}

func (e BinaryExpr) String() string {
	return "(" + e.LHS.String() + " " + e.Op.String() + " " + e.RHS.String() + ")"
}

func (e CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}

	return e.Func.String() + "(" + strings.Join(args, ", ") + ")"
}

func (e EntityBuilder) String() string {
	field := make([]string, 0, len(e.Classes)+len(e.Properties))
	for _, c := range e.Classes {
		field = append(field, c.Name)
	}

	for _, p := range e.Properties {
		field = append(field, p.Name+": "+p.Value.String())
	}

	if len(field) == 0 {
		return "{}"
	}

	return "{ " + strings.Join(field, ", ") + " }"
}
