package lang

import (
	"math"
	"strconv"
)

// PrecisionKind discriminates the variants of [Precision].
type PrecisionKind int

const (
	KindExact PrecisionKind = iota
	KindSigFigs
	KindPercentError
)

// Precision records how much of a value is known: exactly, to a number of
// significant figures, or within a relative error.
//
// The zero value is exact.
type Precision struct {
	kind    PrecisionKind
	sigFigs int
	percent float64
}

// Exact returns the precision of a value with no uncertainty.
func Exact() Precision { return Precision{kind: KindExact} }

// SigFigs returns a precision of n significant figures. It panics if n < 1.
func SigFigs(n int) Precision {
	if n < 1 {
		panic("lang: significant figures must be at least 1, got " + strconv.Itoa(n))
	}

	return Precision{kind: KindSigFigs, sigFigs: n}
}

// PercentError returns a precision of relative error p (0.01 is 1%).
func PercentError(p float64) Precision {
	return Precision{kind: KindPercentError, percent: p}
}

// sigFigsFloor is the unchecked constructor used by additive propagation,
// which may arrive at zero significant figures.
func sigFigsFloor(n int) Precision {
	return Precision{kind: KindSigFigs, sigFigs: max(n, 0)}
}

// Kind returns the variant of p.
func (p Precision) Kind() PrecisionKind { return p.kind }

// SigFigs returns the number of significant figures, or 0 if p is not a
// significant-figures precision.
func (p Precision) SigFigs() int { return p.sigFigs }

// Percent returns the relative error of a percent-error precision, or 0.
func (p Precision) Percent() float64 { return p.percent }

// PercentErrorFor returns the relative error p implies for value.
//
// For significant figures the absolute range is one unit in the last known
// digit, 10^(order(value)+1-n), divided by |value|. A zero value has no
// defined relative error and reports 0.
func (p Precision) PercentErrorFor(value float64) float64 {
	switch p.kind {
	case KindSigFigs:
		if value == 0 {
			return 0
		}

		rng := math.Pow(10, float64(orderOf(value)+1-p.sigFigs))

		return rng / math.Abs(value)

	case KindPercentError:
		return p.percent

	default:
		return 0
	}
}

func (p Precision) String() string {
	switch p.kind {
	case KindSigFigs:
		return strconv.Itoa(p.sigFigs) + " sig figs"
	case KindPercentError:
		return "±" + strconv.FormatFloat(p.percent*100, 'g', -1, 64) + "%"
	default:
		return "exact"
	}
}

// minOrder bounds the order of magnitude reported for zero.
const minOrder = -9999

// orderOf returns floor(log10(|v|)), or minOrder for zero.
func orderOf(v float64) int {
	if v == 0 || math.IsNaN(v) {
		return minOrder
	}

	if math.IsInf(v, 0) {
		return -minOrder
	}

	return max(int(math.Floor(math.Log10(math.Abs(v)))), minOrder)
}

// additive returns the precision of lhs+rhs, whose sum is sum.
func additive(lhs, rhs float64, lp, rp Precision, sum float64) Precision {
	switch {
	case lp.kind == KindExact:
		return rp

	case rp.kind == KindExact:
		return lp

	case lp.kind == KindSigFigs && rp.kind == KindSigFigs:
		last := max(orderOf(lhs)-lp.sigFigs, orderOf(rhs)-rp.sigFigs)

		return sigFigsFloor(orderOf(sum) - last)

	default:
		rng := math.Abs(lhs)*lp.PercentErrorFor(lhs) +
			math.Abs(rhs)*rp.PercentErrorFor(rhs)

		return PercentError(rng / math.Abs(sum))
	}
}

// multiplicative returns the precision of lhs*rhs or lhs/rhs.
func multiplicative(lhs, rhs float64, lp, rp Precision) Precision {
	switch {
	case lp.kind == KindExact:
		return rp

	case rp.kind == KindExact:
		return lp

	case lp.kind == KindSigFigs && rp.kind == KindSigFigs:
		return sigFigsFloor(min(lp.sigFigs, rp.sigFigs))

	default:
		l := lp.PercentErrorFor(lhs)
		r := rp.PercentErrorFor(rhs)

		return PercentError(math.Sqrt(l*l + r*r))
	}
}
