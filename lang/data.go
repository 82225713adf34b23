package lang

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// Data is anything an expression can evaluate to: either [MetaData] (a
// dimension, unit or entity class) or [ValueData] (a scalar, entity or
// string).
type Data interface {
	// Describe appends a human-readable rendering of the data to b.
	Describe(b *strings.Builder, in *Instance)
	data()
}

// MetaData is a dimension, unit or entity class.
//
// The set of implementations is closed: [UnitClassData], [UnitData], and
// [EntityClassData].
type MetaData interface {
	Data
	meta()
}

// ValueData is a concrete value.
//
// The set of implementations is closed: [Scalar], [*Entity], and [String].
type ValueData interface {
	Data
	valueData()
}

// UnitClassData is a (possibly compound) dimension.
type UnitClassData struct {
	Class CompositeUnitClass
}

// UnitData is a (possibly compound) unit.
type UnitData struct {
	Unit CompositeUnit
}

// EntityClassData is an entity class.
type EntityClassData struct {
	ID EntityClassID
}

// String is a string value.
type String string

func (UnitClassData) data()   {}
func (UnitData) data()        {}
func (EntityClassData) data() {}
func (Scalar) data()          {}
func (*Entity) data()         {}
func (String) data()          {}

func (UnitClassData) meta()   {}
func (UnitData) meta()        {}
func (EntityClassData) meta() {}

func (Scalar) valueData()  {}
func (*Entity) valueData() {}
func (String) valueData()  {}

// Entity is an immutable record of named properties and class tags.
type Entity struct {
	properties map[string]Data
	classes    []EntityClassID // sorted, unique
}

// NewEntity returns an entity with the given properties and classes.
// Duplicate classes are collapsed.
func NewEntity(properties map[string]Data, classes ...EntityClassID) *Entity {
	cls := slices.Clone(classes)
	slices.SortFunc(cls, EntityClassID.Compare)

	return &Entity{
		properties: maps.Clone(properties),
		classes:    slices.Compact(cls),
	}
}

// Property returns the named property.
func (e *Entity) Property(name string) (Data, bool) {
	d, ok := e.properties[name]

	return d, ok
}

// Properties returns an iterator over the properties of e sorted by name.
func (e *Entity) Properties() iter.Seq2[string, Data] {
	return func(yield func(string, Data) bool) {
		for _, name := range slices.Sorted(maps.Keys(e.properties)) {
			if !yield(name, e.properties[name]) {
				return
			}
		}
	}
}

// HasClass reports whether e is tagged with id.
func (e *Entity) HasClass(id EntityClassID) bool {
	_, ok := slices.BinarySearchFunc(e.classes, id, EntityClassID.Compare)

	return ok
}

// Classes returns an iterator over the class tags of e.
func (e *Entity) Classes() iter.Seq[EntityClassID] {
	return slices.Values(e.classes)
}

// AmbiguousItem holds the independent results of looking a name up in each
// namespace. Nil fields are misses.
type AmbiguousItem struct {
	Meta  MetaData
	Value *Entity
	Label Data
	// LabelAlias is the label alias that matched, when Label is set.
	LabelAlias string
}

// AmbiguityContext decides which namespace wins when a name is bound in more
// than one.
type AmbiguityContext int

const (
	// PreferValues resolves value, then meta item, then label.
	PreferValues AmbiguityContext = iota
	// PreferMeta resolves meta item first, then as PreferValues.
	PreferMeta
)

// Resolve picks the hit of item that ctx prefers.
func (ctx AmbiguityContext) Resolve(item AmbiguousItem) (Data, bool) {
	if ctx == PreferMeta && item.Meta != nil {
		return item.Meta, true
	}

	switch {
	case item.Value != nil:
		return item.Value, true
	case item.Meta != nil:
		return item.Meta, true
	case item.Label != nil:
		return item.Label, true
	default:
		return nil, false
	}
}

// dataKind names a Data variant for error reports.
func dataKind(d Data) string {
	switch d.(type) {
	case UnitClassData:
		return "unit class"
	case UnitData:
		return "unit"
	case EntityClassData:
		return "entity class"
	case Scalar:
		return "scalar"
	case *Entity:
		return "entity"
	case String:
		return "string"
	default:
		return "unknown"
	}
}
