package lang

import (
	"context"
	"errors"
	"math"
	"testing"
)

func newPreludeInstance(t *testing.T, opts ...Option) *Instance {
	t.Helper()

	in := New(opts...)
	if err := in.LoadPrelude(context.Background()); err != nil {
		t.Fatalf("LoadPrelude() error = %v", err)
	}

	return in
}

func resolve(in *Instance, src string, actx AmbiguityContext) (Data, error) {
	ctx := context.Background()

	expr, err := ParseExpression(ctx, src)
	if err != nil {
		return nil, err
	}

	return in.ResolveExpression(ctx, expr, actx)
}

func TestResolveExpression_OperatorTable(t *testing.T) {
	in := newPreludeInstance(t)

	if err := in.Exec(context.Background(), `make entity_class called Planet
make value called Earth { Planet, name: "Earth" }`); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	tests := []struct {
		src     string
		want    string // kind of the result
		wantErr error
	}{
		{"Length * Time", "unit class", nil},
		{"Length / Time", "unit class", nil},
		{"Length + Length", "", ErrTypeMismatch},
		{"Length ^ 2", "", ErrTypeMismatch},
		{"Length * Meter", "", ErrTypeMismatch},
		{"2 * Length", "", ErrTypeMismatch},

		{"Meter * Second", "unit", nil},
		{"Meter / Second", "unit", nil},
		{"Meter + Meter", "", ErrTypeMismatch},
		{"Meter ^ 2", "", ErrTypeMismatch},
		{"Meter * Length", "", ErrTypeMismatch},
		{"Meter * 2", "scalar", nil},
		{"Meter / 2", "scalar", nil},
		{"Meter + 2", "", ErrTypeMismatch},

		{"2 * Meter", "scalar", nil},
		{"2 / Second", "scalar", nil},
		{"2 + Meter", "", ErrTypeMismatch},
		{"2 ^ Meter", "", ErrTypeMismatch},
		{"1 * Meter + 1 * Foot", "scalar", nil},
		{"1 * Meter - 1 * Second", "", ErrDimensionMismatch},
		{"(2 * Meter) ^ 2", "scalar", nil},

		{"metric * 2", "", ErrTypeMismatch},
		{`"a" * 2`, "", ErrTypeMismatch},
		{`"a" + "b"`, "", ErrTypeMismatch},
		{"Earth * 2", "", ErrTypeMismatch},
		{"{} + {}", "", ErrTypeMismatch},

		{"-Meter", "", ErrTypeMismatch},
		{"-Length", "", ErrTypeMismatch},
		{`-"a"`, "", ErrTypeMismatch},
		{"-(2 * Meter)", "scalar", nil},

		{"sqrt(4)", "", ErrUnimplemented},
		{"Nowhere", "", ErrUndefinedName},
		{"2 * Nowhere", "", ErrUndefinedName},

		{"Earth", "entity", nil},
		{"Planet", "entity class", nil},
		{`"text"`, "string", nil},
		{"{ Planet, mass: 2 * Kilogram }", "entity", nil},
		{"{ Meter }", "", ErrTypeMismatch},
		{"{ Nowhere }", "", ErrUndefinedName},
		{"{ a: 1, a: 2 }", "", ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			d, err := resolve(in, tt.src, PreferValues)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveExpression() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("ResolveExpression() error = %v", err)
			}

			if got := dataKind(d); got != tt.want {
				t.Errorf("ResolveExpression() kind = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveExpression_Values(t *testing.T) {
	in := newPreludeInstance(t)

	tests := []struct {
		src  string
		want float64 // in base units
	}{
		{"3", 3},
		{"-3", -3},
		{"2 * Meter", 2},
		{"Meter * 2", 2},
		{"1 * Kilometer", 1000},
		{"1 * Foot", 0.3048},
		{"1 * Mile", 1609.344},
		{"1 * Hour", 3600},
		{"1 * Pound", 453.59237},
		{"12 * Inches / (1 * Foot)", 1},
		{"1 * Kilometer + 500 * Meter", 1500},
		{"1 * Meter - 1 * Meter", 0},
		{"(3 * Meter) ^ 2", 9},
		{"2 ^ 0.5", math.Sqrt2},
		{"1 / 0", math.Inf(1)},
		{"-(2 * Meter)", -2},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			d, err := resolve(in, tt.src, PreferValues)
			if err != nil {
				t.Fatalf("ResolveExpression() error = %v", err)
			}

			s, ok := d.(Scalar)
			if !ok {
				t.Fatalf("ResolveExpression() = %T, want Scalar", d)
			}

			if got := s.Value(); got != tt.want && math.Abs(got-tt.want) > 1e-9*math.Abs(tt.want) {
				t.Errorf("Value() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestResolveExpression_Dimensions(t *testing.T) {
	in := newPreludeInstance(t)

	velocity, err := resolve(in, "Velocity", PreferValues)
	if err != nil {
		t.Fatalf("ResolveExpression() error = %v", err)
	}

	d, err := resolve(in, "3 * Feet / (1 * Second)", PreferValues)
	if err != nil {
		t.Fatalf("ResolveExpression() error = %v", err)
	}

	if !d.(Scalar).Unit().Equal(velocity.(UnitClassData).Class) {
		t.Error("3 ft/s does not measure Velocity")
	}

	area, err := resolve(in, "(2 * Meter) ^ 2", PreferValues)
	if err != nil {
		t.Fatalf("ResolveExpression() error = %v", err)
	}

	want, _ := resolve(in, "Area", PreferValues)
	if !area.(Scalar).Unit().Equal(want.(UnitClassData).Class) {
		t.Error("(2 m)^2 does not measure Area")
	}
}

func TestResolveExpression_ErrorPosition(t *testing.T) {
	in := newPreludeInstance(t)

	tests := []struct {
		src  string
		want Position
	}{
		{"Nowhere", Position{Offset: 0, Line: 1, Column: 1}},
		{"2 * Nowhere", Position{Offset: 4, Line: 1, Column: 5}},
		{"1 * Meter + 1 * Second", Position{Offset: 10, Line: 1, Column: 11}},
		{"f(1)", Position{Offset: 1, Line: 1, Column: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := resolve(in, tt.src, PreferValues)
			if err == nil {
				t.Fatal("ResolveExpression() succeeded")
			}

			got, ok := WrapError(err).Position()
			if !ok {
				t.Fatalf("error %v has no position", err)
			}

			if got != tt.want {
				t.Errorf("Position() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
