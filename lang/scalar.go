package lang

import (
	"log/slog"
	"math"
)

// Scalar is a number with a dimension, a preferred display unit and a
// precision. Value is always expressed in the base unit of the dimension.
//
// The display unit must measure the same dimension as unit; every
// constructor in this package maintains that.
type Scalar struct {
	value       float64
	precision   Precision
	unit        CompositeUnitClass
	displayUnit CompositeUnit
}

// NewScalar returns a scalar of value (in base units) with the given
// precision, dimension and display unit.
func NewScalar(
	value float64,
	precision Precision,
	unit CompositeUnitClass,
	displayUnit CompositeUnit,
) Scalar {
	return Scalar{
		value:       value,
		precision:   precision,
		unit:        unit,
		displayUnit: displayUnit,
	}
}

// Unitless returns a dimensionless scalar.
func Unitless(value float64, precision Precision) Scalar {
	return Scalar{value: value, precision: precision}
}

// Value returns the magnitude in base units.
func (s Scalar) Value() float64 { return s.value }

// Precision returns the precision of s.
func (s Scalar) Precision() Precision { return s.precision }

// Unit returns the dimension of s.
func (s Scalar) Unit() CompositeUnitClass { return s.unit }

// DisplayUnit returns the unit s is displayed in.
func (s Scalar) DisplayUnit() CompositeUnit { return s.displayUnit }

// DisplayValue returns the magnitude of s expressed in its display unit.
func (s Scalar) DisplayValue(in *Instance) float64 {
	return s.value / in.BaseRatio(s.displayUnit)
}

// Add returns s+other. The operands must have the same dimension. The result
// is displayed in the unit of s.
func (s Scalar) Add(other Scalar) (Scalar, error) {
	if !s.unit.Equal(other.unit) {
		return Scalar{}, ErrDimensionMismatch.With(slog.String("op", Add.String()))
	}

	sum := s.value + other.value

	return Scalar{
		value:       sum,
		precision:   additive(s.value, other.value, s.precision, other.precision, sum),
		unit:        s.unit,
		displayUnit: s.displayUnit,
	}, nil
}

// Sub returns s-other under the rules of [Scalar.Add].
func (s Scalar) Sub(other Scalar) (Scalar, error) {
	sum, err := s.Add(other.Neg())
	if err != nil {
		return Scalar{}, ErrDimensionMismatch.With(slog.String("op", Sub.String()))
	}

	return sum, nil
}

// Mul returns s·other. It never fails.
func (s Scalar) Mul(other Scalar) Scalar {
	return Scalar{
		value:       s.value * other.value,
		precision:   multiplicative(s.value, other.value, s.precision, other.precision),
		unit:        s.unit.Mul(other.unit),
		displayUnit: s.displayUnit.Mul(other.displayUnit),
	}
}

// Div returns s/other. It never fails; division by zero follows IEEE 754.
func (s Scalar) Div(other Scalar) Scalar {
	return Scalar{
		value:       s.value / other.value,
		precision:   multiplicative(s.value, other.value, s.precision, other.precision),
		unit:        s.unit.Div(other.unit),
		displayUnit: s.displayUnit.Div(other.displayUnit),
	}
}

// Pow returns s raised to the display value of exponent. The dimension and
// display unit are raised to the same power; the precision of s is kept.
func (s Scalar) Pow(exponent Scalar, in *Instance) Scalar {
	exp := exponent.DisplayValue(in)

	return Scalar{
		value:       math.Pow(s.value, exp),
		precision:   s.precision,
		unit:        s.unit.Pow(exp),
		displayUnit: s.displayUnit.Pow(exp),
	}
}

// WithPrecision returns s with its precision replaced by p.
func (s Scalar) WithPrecision(p Precision) Scalar {
	s.precision = p

	return s
}

// Neg returns -s.
func (s Scalar) Neg() Scalar {
	s.value = -s.value

	return s
}
