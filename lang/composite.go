package lang

import (
	"iter"
	"math"
	"slices"
)

// cancelEpsilon is the magnitude below which a power is treated as zero.
const cancelEpsilon = 1e-10

// identifier is satisfied by the arena identifiers a [Composite] ranges over.
type identifier[I any] interface {
	comparable
	Compare(I) int
}

// factor is one term id^power of a [Composite].
type factor[I any] struct {
	power float64
	id    I
}

// Composite is a product of identifiers raised to real powers, such as
// Length·Time⁻² or m·s⁻¹. Factors are kept sorted by identifier with no
// duplicates and no cancelled (near-zero) powers. The zero value is the
// identity.
//
// Composites are immutable; every operation returns a new value.
type Composite[I identifier[I]] struct {
	factors []factor[I]
}

// Single returns id¹.
func Single[I identifier[I]](id I) Composite[I] {
	return Composite[I]{factors: []factor[I]{{power: 1, id: id}}}
}

// IsIdentity reports whether c has no factors (dimensionless or unitless).
func (c Composite[I]) IsIdentity() bool { return len(c.factors) == 0 }

// Len returns the number of factors in c.
func (c Composite[I]) Len() int { return len(c.factors) }

// Get returns the power of id in c, or 0 if absent.
func (c Composite[I]) Get(id I) float64 {
	i, ok := slices.BinarySearchFunc(c.factors, id,
		func(f factor[I], id I) int { return f.id.Compare(id) })
	if !ok {
		return 0
	}

	return c.factors[i].power
}

// Factors returns an iterator over each identifier and its power in
// ascending identifier order.
func (c Composite[I]) Factors() iter.Seq2[I, float64] {
	return func(yield func(I, float64) bool) {
		for _, f := range c.factors {
			if !yield(f.id, f.power) {
				return
			}
		}
	}
}

// Mul returns the product c·other.
func (c Composite[I]) Mul(other Composite[I]) Composite[I] {
	return c.union(other.factors, 1)
}

// Div returns the quotient c/other.
func (c Composite[I]) Div(other Composite[I]) Composite[I] {
	return c.union(other.factors, -1)
}

// Pow returns c raised to exponent. Any real exponent is accepted; an
// exponent of 0 yields the identity.
func (c Composite[I]) Pow(exponent float64) Composite[I] {
	out := make([]factor[I], 0, len(c.factors))

	for _, f := range c.factors {
		if p := f.power * exponent; math.Abs(p) >= cancelEpsilon {
			out = append(out, factor[I]{power: p, id: f.id})
		}
	}

	return Composite[I]{factors: out}
}

// Equal reports whether c and other are equivalent after cancellation.
func (c Composite[I]) Equal(other Composite[I]) bool {
	return c.Div(other).IsIdentity()
}

// union merges the sorted factor lists of c and rhs, scaling the powers of
// rhs by sign, summing shared identifiers and dropping cancelled factors.
func (c Composite[I]) union(rhs []factor[I], sign float64) Composite[I] {
	lhs := c.factors
	out := make([]factor[I], 0, len(lhs)+len(rhs))

	push := func(id I, p float64) {
		if math.Abs(p) >= cancelEpsilon {
			out = append(out, factor[I]{power: p, id: id})
		}
	}

	i, j := 0, 0
	for i < len(lhs) && j < len(rhs) {
		switch cmp := lhs[i].id.Compare(rhs[j].id); {
		case cmp < 0:
			push(lhs[i].id, lhs[i].power)
			i++
		case cmp > 0:
			push(rhs[j].id, sign*rhs[j].power)
			j++
		default:
			push(lhs[i].id, lhs[i].power+sign*rhs[j].power)
			i++
			j++
		}
	}

	for ; i < len(lhs); i++ {
		push(lhs[i].id, lhs[i].power)
	}

	for ; j < len(rhs); j++ {
		push(rhs[j].id, sign*rhs[j].power)
	}

	return Composite[I]{factors: out}
}
