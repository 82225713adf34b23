package lang

import (
	"slices"
	"unicode"
	"unicode/utf8"
)

type (
	// UnitClassID identifies a declared [UnitClass].
	UnitClassID = StorageID[UnitClass]
	// UnitID identifies a declared [Unit].
	UnitID = StorageID[Unit]
	// EntityClassID identifies a declared [EntityClass].
	EntityClassID = StorageID[EntityClass]

	// CompositeUnitClass is a product of dimensions.
	CompositeUnitClass = Composite[UnitClassID]
	// CompositeUnit is a product of units.
	CompositeUnit = Composite[UnitID]
)

// UnitClass is a dimension such as Length or Time. The first name is
// canonical.
type UnitClass struct {
	Names []string
}

// Unit is a concrete unit of measure.
type Unit struct {
	Names []string
	// Class is the dimension the unit measures.
	Class CompositeUnitClass
	// Symbol is the short display form, e.g. "km".
	Symbol string
	// BaseRatio converts a value in this unit to the base unit of Class.
	BaseRatio float64
}

// EntityClass tags entities. The first name is canonical.
type EntityClass struct {
	Names []string
}

// PrefixKind selects which metric prefix variants are generated for a unit.
type PrefixKind int

const (
	NoPrefix      PrefixKind = iota // no variants
	Metric                          // every prefix, Yotta through Yocto
	PartialMetric                   // only prefixes below unity, Deci through Yocto
)

func (k PrefixKind) String() string {
	switch k {
	case Metric:
		return "metric"
	case PartialMetric:
		return "partial_metric"
	default:
		return "none"
	}
}

// MetricPrefix is an SI prefix.
type MetricPrefix struct {
	Name   string
	Symbol string
	Factor float64
}

// MetricPrefixes lists the SI prefixes from largest to smallest.
var MetricPrefixes = []MetricPrefix{
	{"Yotta", "Y", 1e24},
	{"Zetta", "Z", 1e21},
	{"Exa", "E", 1e18},
	{"Peta", "P", 1e15},
	{"Tera", "T", 1e12},
	{"Giga", "G", 1e9},
	{"Mega", "M", 1e6},
	{"Kilo", "k", 1e3},
	{"Hecto", "h", 1e2},
	{"Deka", "da", 1e1},
	{"Deci", "d", 1e-1},
	{"Centi", "c", 1e-2},
	{"Milli", "m", 1e-3},
	{"Micro", "μ", 1e-6},
	{"Nano", "n", 1e-9},
	{"Pico", "p", 1e-12},
	{"Femto", "f", 1e-15},
	{"Atto", "a", 1e-18},
	{"Zepto", "z", 1e-21},
	{"Yocto", "y", 1e-24},
}

// smallPrefixesStart is the index of the first prefix below unity.
const smallPrefixesStart = 10

// Prefixes returns the prefixes generated for kind.
func (k PrefixKind) Prefixes() []MetricPrefix {
	switch k {
	case Metric:
		return MetricPrefixes
	case PartialMetric:
		return MetricPrefixes[smallPrefixesStart:]
	default:
		return nil
	}
}

// WithPrefix returns the variant of u scaled by prefix. Each name has its
// first letter lowercased and the prefix name prepended, so Meter becomes
// Kilometer. Aliases that differ only in the case of their first letter
// yield one variant name.
func (u Unit) WithPrefix(prefix MetricPrefix) Unit {
	names := make([]string, 0, len(u.Names))
	for _, name := range u.Names {
		if v := prefix.Name + decapitalize(name); !slices.Contains(names, v) {
			names = append(names, v)
		}
	}

	return Unit{
		Names:     names,
		Class:     u.Class,
		Symbol:    prefix.Symbol + u.Symbol,
		BaseRatio: u.BaseRatio * prefix.Factor,
	}
}

func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}
