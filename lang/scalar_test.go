package lang

import (
	"errors"
	"math"
	"testing"
)

func testDimensions() (length, time CompositeUnitClass) {
	var p StoragePool[UnitClass]

	return Single(p.Push(UnitClass{Names: []string{"Length"}})),
		Single(p.Push(UnitClass{Names: []string{"Time"}}))
}

func TestScalar_AddDimensionMismatch(t *testing.T) {
	length, time := testDimensions()

	m := NewScalar(3, Exact(), length, CompositeUnit{})
	s := NewScalar(2, Exact(), time, CompositeUnit{})

	if _, err := m.Add(s); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Add() error = %v, want %v", err, ErrDimensionMismatch)
	}

	if _, err := m.Sub(s); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Sub() error = %v, want %v", err, ErrDimensionMismatch)
	}

	p := m.Mul(s)
	if p.Value() != 6 || !p.Unit().Equal(length.Mul(time)) {
		t.Errorf("Mul() = %g %v, want 6 Length·Time", p.Value(), p.Unit())
	}

	q := m.Div(s)
	if q.Value() != 1.5 || !q.Unit().Equal(length.Div(time)) {
		t.Errorf("Div() = %g %v, want 1.5 Length/Time", q.Value(), q.Unit())
	}
}

func TestScalar_Add(t *testing.T) {
	length, _ := testDimensions()

	a := NewScalar(2, Exact(), length, CompositeUnit{})
	b := NewScalar(0.5, SigFigs(2), length, CompositeUnit{})

	sum, err := a.Add(b)
	if err != nil {
		t.Fatal(err)
	}

	if sum.Value() != 2.5 || sum.Precision().SigFigs() != 2 {
		t.Errorf("Add() = %g (%v), want 2.5 (2 sig figs)", sum.Value(), sum.Precision())
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatal(err)
	}

	if diff.Value() != 1.5 {
		t.Errorf("Sub() = %g, want 1.5", diff.Value())
	}
}

func TestScalar_WeakestLink(t *testing.T) {
	p := Unitless(2, SigFigs(3)).Mul(Unitless(3, SigFigs(5)))

	if p.Precision().Kind() != KindSigFigs || p.Precision().SigFigs() != 3 {
		t.Errorf("Mul() precision = %v, want 3 sig figs", p.Precision())
	}
}

func TestScalar_Neg(t *testing.T) {
	length, _ := testDimensions()

	s := NewScalar(4, SigFigs(2), length, CompositeUnit{}).Neg()
	if s.Value() != -4 || s.Precision().SigFigs() != 2 || !s.Unit().Equal(length) {
		t.Errorf("Neg() = %g (%v) %v, want -4 (2 sig figs) Length", s.Value(), s.Precision(), s.Unit())
	}
}

func TestScalar_Pow(t *testing.T) {
	in := New()

	class, err := in.AddUnitClass(UnitClass{Names: []string{"Length"}})
	if err != nil {
		t.Fatal(err)
	}

	unit, err := in.AddUnit(Unit{
		Names:     []string{"Foot"},
		Class:     Single(class),
		Symbol:    "ft",
		BaseRatio: 0.3048,
	}, NoPrefix)
	if err != nil {
		t.Fatal(err)
	}

	ft := in.AsScalar(Single(unit))

	sq := ft.Pow(Unitless(2, Exact()), in)
	if math.Abs(sq.Value()-0.3048*0.3048) > 1e-15 {
		t.Errorf("Pow() value = %g, want %g", sq.Value(), 0.3048*0.3048)
	}

	if sq.Unit().Get(class) != 2 || sq.DisplayUnit().Get(unit) != 2 {
		t.Errorf("Pow() dimension = %v, display = %v, want squared", sq.Unit(), sq.DisplayUnit())
	}

	if got := sq.DisplayValue(in); math.Abs(got-1) > 1e-12 {
		t.Errorf("DisplayValue() = %g, want 1", got)
	}
}
