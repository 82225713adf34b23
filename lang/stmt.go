package lang

import "strings"

// Statement is a parsed declaration or show request.
//
// The set of implementations is closed: [MakeUnitClass], [MakeBaseUnit],
// [MakeDerivedUnit], [MakeEntityClass], [MakeLabel], [MakeValue], and [Show].
type Statement interface {
	Pos() Position
	String() string
	statement()
}

// Kind names the declaration keyword following "make".
type Kind string

const (
	KindUnitClass   Kind = "unit_class"
	KindBaseUnit    Kind = "base_unit"
	KindDerivedUnit Kind = "derived_unit"
	KindEntityClass Kind = "entity_class"
	KindLabel       Kind = "label"
	KindValue       Kind = "value"
)

// MakeUnitClass declares a dimension.
type MakeUnitClass struct {
	Names []string
	At    Position
}

// MakeBaseUnit declares a unit from an entity carrying class, symbol and an
// optional prefix tag.
type MakeBaseUnit struct {
	Names []string
	Props Expression
	At    Position
}

// MakeDerivedUnit declares a unit from an entity carrying symbol, value and
// an optional prefix tag.
type MakeDerivedUnit struct {
	Names []string
	Props Expression
	At    Position
}

// MakeEntityClass declares an entity class. Props is parsed but unused.
type MakeEntityClass struct {
	Names []string
	Props Expression
	At    Position
}

// MakeLabel binds names to the result of an arbitrary expression.
//
// Precision, when set, replaces the precision of a scalar result. The
// language has no syntax for it; catalogs set it from sig_figs, percent_error
// or exact.
type MakeLabel struct {
	Names     []string
	Value     Expression
	Precision *Precision
	At        Position
}

// MakeValue binds names to an entity. Precision, when set, replaces the
// precision of every scalar property of the entity.
type MakeValue struct {
	Names     []string
	Value     Expression
	Precision *Precision
	At        Position
}

// Show evaluates an expression and hands the result to the show handler.
type Show struct {
	Value Expression
	At    Position
}

func (MakeUnitClass) statement()   {}
func (MakeBaseUnit) statement()    {}
func (MakeDerivedUnit) statement() {}
func (MakeEntityClass) statement() {}
func (MakeLabel) statement()       {}
func (MakeValue) statement()       {}
func (Show) statement()            {}

func (s MakeUnitClass) Pos() Position   { return s.At }
func (s MakeBaseUnit) Pos() Position    { return s.At }
func (s MakeDerivedUnit) Pos() Position { return s.At }
func (s MakeEntityClass) Pos() Position { return s.At }
func (s MakeLabel) Pos() Position       { return s.At }
func (s MakeValue) Pos() Position       { return s.At }
func (s Show) Pos() Position            { return s.At }

func (s MakeUnitClass) String() string {
	return formatMake(KindUnitClass, s.Names, "", nil)
}

func (s MakeBaseUnit) String() string {
	return formatMake(KindBaseUnit, s.Names, "", s.Props)
}

func (s MakeDerivedUnit) String() string {
	return formatMake(KindDerivedUnit, s.Names, "", s.Props)
}

func (s MakeEntityClass) String() string {
	return formatMake(KindEntityClass, s.Names, "", s.Props)
}

func (s MakeLabel) String() string {
	return formatMake(KindLabel, s.Names, "for", s.Value)
}

func (s MakeValue) String() string {
	return formatMake(KindValue, s.Names, "", s.Value)
}

func (s Show) String() string { return "show " + s.Value.String() }

func formatMake(kind Kind, names []string, sep string, value Expression) string {
	var sb strings.Builder

	sb.WriteString("make ")
	sb.WriteString(string(kind))
	sb.WriteString(" called ")
	sb.WriteString(strings.Join(names, ", "))

	if sep != "" {
		sb.WriteString(" " + sep)
	}

	if value != nil {
		sb.WriteString(" " + value.String())
	}

	return sb.String()
}

// Program is a sequence of statements parsed from one source.
type Program struct {
	Statements []Statement
	Source     string
}
