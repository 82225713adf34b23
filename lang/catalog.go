package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/goccy/go-yaml"
)

// Catalog is the YAML form of a sequence of declarations, for example:
//
//	declarations:
//	  - kind: unit_class
//	    names: [Length]
//	  - kind: base_unit
//	    names: [Meter, Meters]
//	    class: Length
//	    symbol: m
//	    prefix: metric
//	  - kind: derived_unit
//	    names: [Foot, Feet]
//	    symbol: ft
//	    value: 0.3048 * Meters
//	  - kind: label
//	    names: [Velocity]
//	    for: Length / Time
//	  - kind: label
//	    names: [StandardStride]
//	    for: 0.762 * Meters
//	    sig_figs: 3
//
// Declarations are executed in order, so later entries may refer to names
// declared by earlier ones.
type Catalog struct {
	Declarations []Declaration `yaml:"declarations"`
}

// Declaration is one catalog entry. Which fields apply depends on Kind:
//
//   - unit_class, entity_class: Names only
//   - base_unit: Class, Symbol, optional Prefix
//   - derived_unit: Value, Symbol, optional Prefix
//   - label, value: For, and at most one of SigFigs, PercentError or Exact
//
// The precision fields replace the precision of a label's scalar result, or
// of every scalar property of a value. PercentError is relative, so 0.01 is
// 1%.
type Declaration struct {
	Kind         Kind     `yaml:"kind"`
	Names        []string `yaml:"names,flow"`
	Class        Source   `yaml:"class,omitempty"`
	Value        Source   `yaml:"value,omitempty"`
	Symbol       string   `yaml:"symbol,omitempty"`
	Prefix       string   `yaml:"prefix,omitempty"`
	For          Source   `yaml:"for,omitempty"`
	SigFigs      int      `yaml:"sig_figs,omitempty"`
	PercentError float64  `yaml:"percent_error,omitempty"`
	Exact        bool     `yaml:"exact,omitempty"`
}

// Source is expression text. Plain YAML numbers are accepted as their
// literal text.
type Source string

// UnmarshalYAML accepts any scalar node.
func (s *Source) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = Source(x)
	case map[string]any, []any:
		return fmt.Errorf("expression must be a scalar, got %T", v)
	default:
		*s = Source(fmt.Sprint(x))
	}

	return nil
}

// DecodeCatalog reads a YAML catalog from r. Unknown fields are rejected.
// An empty document decodes to an empty catalog.
func DecodeCatalog(ctx context.Context, r io.Reader) (Catalog, error) {
	var cat Catalog

	err := yaml.NewDecoder(r, yaml.DisallowUnknownField()).DecodeContext(ctx, &cat)
	if err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, ErrCatalog.Wrap(err)
	}

	return cat, nil
}

// EncodeCatalog writes cat to w as YAML.
func EncodeCatalog(ctx context.Context, w io.Writer, cat Catalog) error {
	data, err := yaml.MarshalContext(ctx, cat, yaml.Indent(2))
	if err != nil {
		return ErrCatalog.Wrap(err)
	}

	if _, err := w.Write(data); err != nil {
		return ErrCatalog.Wrap(err)
	}

	return nil
}

// LoadCatalog decodes a YAML catalog from r and executes its declarations.
// Declarations before a failing entry stay in effect.
func (in *Instance) LoadCatalog(ctx context.Context, r io.Reader) error {
	cat, err := DecodeCatalog(ctx, r)
	if err != nil {
		return err
	}

	for i, decl := range cat.Declarations {
		fail := func(err error) error {
			return ErrCatalog.Wrap(err).With(
				slog.Int("entry", i+1),
				slog.String("kind", string(decl.Kind)))
		}

		stmt, err := decl.Statement(ctx)
		if err != nil {
			return fail(err)
		}

		if err := in.ExecuteStatement(ctx, stmt); err != nil {
			return fail(err)
		}
	}

	in.logger.DebugContext(ctx, "catalog loaded",
		slog.Int("declarations", len(cat.Declarations)))

	return nil
}

// Statement lowers d to the statement it declares.
func (d Declaration) Statement(ctx context.Context) (Statement, error) {
	if len(d.Names) == 0 {
		return nil, ErrTypeMismatch.With(slog.String("missing", "names"))
	}

	prec, err := d.precision()
	if err != nil {
		return nil, err
	}

	if prec != nil && d.Kind != KindLabel && d.Kind != KindValue {
		return nil, ErrTypeMismatch.With(
			slog.String("kind", string(d.Kind)),
			slog.String("precision", prec.String()))
	}

	switch d.Kind {
	case KindUnitClass:
		return MakeUnitClass{Names: d.Names}, nil

	case KindEntityClass:
		return MakeEntityClass{Names: d.Names, Props: EntityBuilder{}}, nil

	case KindBaseUnit:
		props, err := d.unitBuilder(ctx, "class", d.Class)
		if err != nil {
			return nil, err
		}

		return MakeBaseUnit{Names: d.Names, Props: props}, nil

	case KindDerivedUnit:
		props, err := d.unitBuilder(ctx, "value", d.Value)
		if err != nil {
			return nil, err
		}

		return MakeDerivedUnit{Names: d.Names, Props: props}, nil

	case KindLabel, KindValue:
		value, err := parseSource(ctx, "for", d.For)
		if err != nil {
			return nil, err
		}

		if d.Kind == KindLabel {
			return MakeLabel{Names: d.Names, Value: value, Precision: prec}, nil
		}

		return MakeValue{Names: d.Names, Value: value, Precision: prec}, nil

	default:
		return nil, ErrTypeMismatch.With(slog.String("kind", string(d.Kind)))
	}
}

// precision returns the precision named by d, or nil if it names none.
func (d Declaration) precision() (*Precision, error) {
	var (
		p   Precision
		set int
	)

	if d.SigFigs != 0 {
		if d.SigFigs < 1 {
			return nil, ErrTypeMismatch.With(slog.Int("sig_figs", d.SigFigs))
		}

		p, set = SigFigs(d.SigFigs), set+1
	}

	if d.PercentError != 0 {
		if d.PercentError < 0 || math.IsNaN(d.PercentError) || math.IsInf(d.PercentError, 0) {
			return nil, ErrTypeMismatch.With(slog.Float64("percent_error", d.PercentError))
		}

		p, set = PercentError(d.PercentError), set+1
	}

	if d.Exact {
		p, set = Exact(), set+1
	}

	switch set {
	case 0:
		return nil, nil
	case 1:
		return &p, nil
	default:
		return nil, ErrTypeMismatch.With(
			slog.String("conflict", "sig_figs, percent_error and exact are exclusive"))
	}
}

// setPrecision records p in the precision fields of d.
func (d *Declaration) setPrecision(p *Precision) {
	if p == nil {
		return
	}

	switch p.Kind() {
	case KindSigFigs:
		d.SigFigs = p.SigFigs()
	case KindPercentError:
		d.PercentError = p.Percent()
	default:
		d.Exact = true
	}
}

// unitBuilder returns { key: src, symbol: "...", prefix } for a unit entry.
func (d Declaration) unitBuilder(ctx context.Context, key string, src Source) (EntityBuilder, error) {
	value, err := parseSource(ctx, key, src)
	if err != nil {
		return EntityBuilder{}, err
	}

	b := EntityBuilder{
		Properties: []Property{
			{Name: key, Value: value},
			{Name: "symbol", Value: StringLit{Value: d.Symbol}},
		},
	}

	switch d.Prefix {
	case "", NoPrefix.String():
	case Metric.String(), PartialMetric.String():
		b.Classes = append(b.Classes, NameRef{Name: d.Prefix})
	default:
		return EntityBuilder{}, ErrTypeMismatch.With(slog.String("prefix", d.Prefix))
	}

	return b, nil
}

func parseSource(ctx context.Context, field string, src Source) (Expression, error) {
	if src == "" {
		return nil, ErrTypeMismatch.With(slog.String("missing", field))
	}

	expr, err := ParseExpression(ctx, string(src))
	if err != nil {
		return nil, WrapError(err).With(slog.String("field", field))
	}

	return expr, nil
}

// Catalog returns every declaration executed by in, in order, as a catalog
// that recreates them when loaded into a new [Instance]. Units declared from
// anything other than a literal entity builder cannot be exported.
func (in *Instance) Catalog() (Catalog, error) {
	var cat Catalog

	for _, stmt := range in.journal {
		decl, err := DeclarationOf(stmt)
		if err != nil {
			return Catalog{}, ErrCatalog.Wrap(err).With(
				slog.String("statement", stmt.String()))
		}

		cat.Declarations = append(cat.Declarations, decl)
	}

	return cat, nil
}

// DeclarationOf returns the catalog entry equivalent to stmt. Show statements
// and units whose properties are not a literal entity builder have none.
func DeclarationOf(stmt Statement) (Declaration, error) {
	switch s := stmt.(type) {
	case MakeUnitClass:
		return Declaration{Kind: KindUnitClass, Names: s.Names}, nil

	case MakeEntityClass:
		return Declaration{Kind: KindEntityClass, Names: s.Names}, nil

	case MakeBaseUnit:
		return unitDeclaration(KindBaseUnit, s.Names, s.Props, "class")

	case MakeDerivedUnit:
		return unitDeclaration(KindDerivedUnit, s.Names, s.Props, "value")

	case MakeLabel:
		decl := Declaration{Kind: KindLabel, Names: s.Names, For: Source(s.Value.String())}
		decl.setPrecision(s.Precision)

		return decl, nil

	case MakeValue:
		decl := Declaration{Kind: KindValue, Names: s.Names, For: Source(s.Value.String())}
		decl.setPrecision(s.Precision)

		return decl, nil

	default:
		return Declaration{}, ErrTypeMismatch.With(slog.String("statement", stmt.String()))
	}
}

func unitDeclaration(kind Kind, names []string, props Expression, key string) (Declaration, error) {
	b, ok := props.(EntityBuilder)
	if !ok {
		return Declaration{}, ErrTypeMismatch.With(
			slog.String("expected", "entity builder"))
	}

	decl := Declaration{Kind: kind, Names: names}

	for _, p := range b.Properties {
		switch p.Name {
		case key:
			if kind == KindBaseUnit {
				decl.Class = Source(p.Value.String())
			} else {
				decl.Value = Source(p.Value.String())
			}

		case "symbol":
			lit, ok := p.Value.(StringLit)
			if !ok {
				return Declaration{}, wrongShape("symbol", String(""), nil)
			}

			decl.Symbol = lit.Value
		}
	}

	for _, tag := range b.Classes {
		decl.Prefix = tag.Name
	}

	return decl, nil
}
