package lang

import (
	"context"
	"log/slog"
	"slices"
)

// ExecuteStatement executes stmt against in. A failing statement declares
// nothing.
func (in *Instance) ExecuteStatement(ctx context.Context, stmt Statement) error {
	in.logger.TraceContext(ctx, "execute statement",
		slog.String("statement", stmt.String()))

	var err error

	switch s := stmt.(type) {
	case MakeUnitClass:
		_, err = in.AddUnitClass(UnitClass{Names: s.Names})

	case MakeBaseUnit:
		err = in.makeBaseUnit(ctx, s)

	case MakeDerivedUnit:
		err = in.makeDerivedUnit(ctx, s)

	case MakeEntityClass:
		_, err = in.AddEntityClass(EntityClass{Names: s.Names})

	case MakeLabel:
		var d Data

		d, err = in.ResolveExpression(ctx, s.Value, PreferValues)
		if err == nil {
			d, err = withPrecision(d, s.Precision)
		}

		if err == nil {
			err = in.DeclareLabel(s.Names, d)
		}

	case MakeValue:
		err = in.makeValue(ctx, s)

	case Show:
		var d Data

		d, err = in.ResolveExpression(ctx, s.Value, PreferValues)
		if err == nil {
			err = in.emit(ctx, d)
		}

	default:
		err = ErrTypeMismatch.With(slog.String("statement", stmt.String()))
	}

	if err != nil {
		e := WrapError(err)
		if _, ok := e.Position(); !ok {
			e = e.WithPosition(stmt.Pos())
		}

		return e
	}

	if _, ok := stmt.(Show); !ok {
		in.journal = append(in.journal, stmt)
	}

	return nil
}

// ExecuteProgram executes the statements of prog in order and stops at the
// first failure. Statements executed before the failure stay in effect.
func (in *Instance) ExecuteProgram(ctx context.Context, prog *Program) error {
	for i, stmt := range prog.Statements {
		if err := in.ExecuteStatement(ctx, stmt); err != nil {
			return WrapError(err).With(slog.Int("statement", i+1))
		}
	}

	in.logger.TraceContext(ctx, "execute program complete",
		slog.Int("statement_count", len(prog.Statements)))

	return nil
}

// Exec parses src as a program and executes it.
func (in *Instance) Exec(ctx context.Context, src string) error {
	prog, err := ParseProgram(ctx, src, WithLogger(in.logger))
	if err != nil {
		return err
	}

	return in.ExecuteProgram(ctx, prog)
}

func (in *Instance) makeBaseUnit(ctx context.Context, s MakeBaseUnit) error {
	props, err := in.unitProps(ctx, s.Props, "class", "symbol")
	if err != nil {
		return err
	}

	class, ok := props.values["class"].(UnitClassData)
	if !ok {
		return wrongShape("class", UnitClassData{}, props.values["class"])
	}

	_, err = in.AddUnit(Unit{
		Names:     s.Names,
		Class:     class.Class,
		Symbol:    props.symbol,
		BaseRatio: 1,
	}, props.prefix)

	return err
}

func (in *Instance) makeDerivedUnit(ctx context.Context, s MakeDerivedUnit) error {
	props, err := in.unitProps(ctx, s.Props, "value", "symbol")
	if err != nil {
		return err
	}

	value, ok := props.values["value"].(Scalar)
	if !ok {
		return wrongShape("value", Scalar{}, props.values["value"])
	}

	_, err = in.AddUnit(Unit{
		Names:     s.Names,
		Class:     value.Unit(),
		Symbol:    props.symbol,
		BaseRatio: value.Value(),
	}, props.prefix)

	return err
}

func (in *Instance) makeValue(ctx context.Context, s MakeValue) error {
	d, err := in.ResolveExpression(ctx, s.Value, PreferValues)
	if err != nil {
		return err
	}

	entity, ok := d.(*Entity)
	if !ok {
		return ErrTypeMismatch.With(
			slog.String("expected", dataKind(&Entity{})),
			slog.String("got", dataKind(d)))
	}

	if s.Precision != nil {
		d, err = withPrecision(entity, s.Precision)
		if err != nil {
			return err
		}

		entity = d.(*Entity)
	}

	return in.DeclareValue(s.Names, entity)
}

// withPrecision replaces the precision of a scalar, or of each scalar
// property of an entity, with p. A nil p leaves d unchanged.
func withPrecision(d Data, p *Precision) (Data, error) {
	if p == nil {
		return d, nil
	}

	switch x := d.(type) {
	case Scalar:
		return x.WithPrecision(*p), nil

	case *Entity:
		props := make(map[string]Data, len(x.properties))
		for name, v := range x.Properties() {
			if s, ok := v.(Scalar); ok {
				v = s.WithPrecision(*p)
			}

			props[name] = v
		}

		return NewEntity(props, slices.Collect(x.Classes())...), nil

	default:
		return nil, ErrTypeMismatch.With(
			slog.String("expected", dataKind(Scalar{})),
			slog.String("got", dataKind(d)),
			slog.String("precision", p.String()))
	}
}

// unitProperties is the structured content of a unit declaration entity.
type unitProperties struct {
	values map[string]Data
	symbol string
	prefix PrefixKind
}

// unitProps evaluates expr to an entity that must carry exactly the named
// properties (one of which is a string "symbol") and at most one of the
// metric or partial_metric class tags.
func (in *Instance) unitProps(
	ctx context.Context,
	expr Expression,
	required ...string,
) (unitProperties, error) {
	var props unitProperties

	d, err := in.ResolveExpression(ctx, expr, PreferValues)
	if err != nil {
		return props, err
	}

	entity, ok := d.(*Entity)
	if !ok {
		return props, ErrTypeMismatch.With(
			slog.String("expected", dataKind(&Entity{})),
			slog.String("got", dataKind(d)))
	}

	props.values = make(map[string]Data, len(required))

	for _, name := range required {
		v, ok := entity.Property(name)
		if !ok {
			return props, ErrTypeMismatch.With(slog.String("missing_property", name))
		}

		props.values[name] = v
	}

	for name := range entity.Properties() {
		if !slices.Contains(required, name) {
			return props, ErrTypeMismatch.With(slog.String("extra_property", name))
		}
	}

	symbol, ok := props.values["symbol"].(String)
	if !ok {
		return props, wrongShape("symbol", String(""), props.values["symbol"])
	}

	props.symbol = string(symbol)

	metric := entity.HasClass(in.metric)
	partial := entity.HasClass(in.partialMetric)

	switch {
	case metric && partial:
		return props, ErrTypeMismatch.With(
			slog.String("conflict", MetricClassName+", "+PartialMetricClassName))
	case metric:
		props.prefix = Metric
	case partial:
		props.prefix = PartialMetric
	}

	for id := range entity.Classes() {
		if id != in.metric && id != in.partialMetric {
			return props, ErrTypeMismatch.With(
				slog.String("extra_class", in.EntityClass(id).Names[0]))
		}
	}

	return props, nil
}

func wrongShape(property string, want, got Data) *Error {
	attrs := []slog.Attr{
		slog.String("property", property),
		slog.String("expected", dataKind(want)),
	}

	if got != nil {
		attrs = append(attrs, slog.String("got", dataKind(got)))
	}

	return ErrTypeMismatch.With(attrs...)
}
