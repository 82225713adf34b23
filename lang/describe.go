package lang

import (
	"math"
	"strconv"
	"strings"
)

// Describe returns the human-readable rendering of d.
func (in *Instance) Describe(d Data) string {
	var sb strings.Builder

	d.Describe(&sb, in)

	return sb.String()
}

// Describe writes the dimension names, e.g. "Length / Time^2".
func (d UnitClassData) Describe(b *strings.Builder, in *Instance) {
	describeComposite(b, d.Class, func(id UnitClassID) string {
		return in.UnitClass(id).Names[0]
	})
}

// Describe writes the unit symbols, e.g. "m / s^2".
func (d UnitData) Describe(b *strings.Builder, in *Instance) {
	describeComposite(b, d.Unit, func(id UnitID) string {
		return in.Unit(id).Symbol
	})
}

// Describe writes the canonical entity class name.
func (d EntityClassData) Describe(b *strings.Builder, in *Instance) {
	b.WriteString(in.EntityClass(d.ID).Names[0])
}

// Describe writes the display value, its uncertainty, and the display unit.
func (s Scalar) Describe(b *strings.Builder, in *Instance) {
	v := s.DisplayValue(in)

	switch s.precision.kind {
	case KindSigFigs:
		if s.precision.sigFigs > 0 {
			b.WriteString(strconv.FormatFloat(v, 'g', s.precision.sigFigs, 64))
		} else {
			b.WriteString("~" + strconv.FormatFloat(v, 'g', 1, 64))
		}

	case KindPercentError:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteString(" ± ")
		b.WriteString(strconv.FormatFloat(s.precision.percent*100, 'g', 3, 64))
		b.WriteString("%")

	default:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}

	if !s.displayUnit.IsIdentity() {
		b.WriteString(" ")
		UnitData{Unit: s.displayUnit}.Describe(b, in)
	}
}

// Describe writes "{ tag, name: value }" with classes first and properties
// sorted by name.
func (e *Entity) Describe(b *strings.Builder, in *Instance) {
	field := make([]string, 0, len(e.classes)+len(e.properties))

	for _, id := range e.classes {
		field = append(field, in.EntityClass(id).Names[0])
	}

	for name, d := range e.Properties() {
		field = append(field, name+": "+in.Describe(d))
	}

	if len(field) == 0 {
		b.WriteString("{}")

		return
	}

	b.WriteString("{ ")
	b.WriteString(strings.Join(field, ", "))
	b.WriteString(" }")
}

// Describe writes the string quoted.
func (s String) Describe(b *strings.Builder, _ *Instance) {
	b.WriteString(strconv.Quote(string(s)))
}

// describeComposite writes the positive powers, then " / " and the negated
// negative powers. Powers of 1 are omitted. The identity is written as "1".
func describeComposite[I identifier[I]](
	b *strings.Builder,
	c Composite[I],
	name func(I) string,
) {
	var num, den []string

	for id, p := range c.Factors() {
		if p > 0 {
			num = append(num, name(id)+formatPower(p))
		} else {
			den = append(den, name(id)+formatPower(-p))
		}
	}

	switch {
	case len(num) == 0 && len(den) == 0:
		b.WriteString("1")

		return

	case len(num) == 0:
		b.WriteString("1")

	default:
		b.WriteString(strings.Join(num, " * "))
	}

	if len(den) > 0 {
		b.WriteString(" / ")
		b.WriteString(strings.Join(den, " / "))
	}
}

func formatPower(p float64) string {
	if math.Abs(p-1) < cancelEpsilon {
		return ""
	}

	return "^" + strconv.FormatFloat(p, 'g', 6, 64)
}
