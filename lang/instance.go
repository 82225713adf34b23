package lang

import (
	"context"
	"iter"
	"log/slog"
	"maps"
	"math"
	"slices"

	"github.com/ardnew/quant/log"
)

// Names of the entity classes every [Instance] starts with. Tagging a unit
// declaration with one of them selects its metric prefix policy.
const (
	MetricClassName        = "metric"
	PartialMetricClassName = "partial_metric"
)

// Instance is an evaluation environment: it owns every declared dimension,
// unit and entity class, and the three namespaces names are bound in.
//
// Meta items (dimensions, units, entity classes), values (entities) and
// labels are independent namespaces; a name may be bound in more than one.
//
// An Instance is not safe for concurrent use.
type Instance struct {
	unitClasses   StoragePool[UnitClass]
	units         StoragePool[Unit]
	entityClasses StoragePool[EntityClass]

	metaItems ManyToOneMap[string, MetaData]
	values    ManyToOneMap[string, *Entity]
	labels    ManyToOneMap[string, Data]

	metric        EntityClassID
	partialMetric EntityClassID

	journal []Statement // successfully executed declarations

	config
}

// New returns an Instance holding only the built-in entity classes
// [MetricClassName] and [PartialMetricClassName].
func New(opts ...Option) *Instance {
	in := &Instance{config: makeConfig(opts...)}

	var err error

	in.metric, err = in.AddEntityClass(EntityClass{Names: []string{MetricClassName}})
	if err != nil {
		panic(err)
	}

	in.partialMetric, err = in.AddEntityClass(EntityClass{Names: []string{PartialMetricClassName}})
	if err != nil {
		panic(err)
	}

	return in
}

// Logger returns the logger the instance traces with.
func (in *Instance) Logger() log.Logger { return in.logger }

// AddUnitClass declares a dimension under all of its names.
func (in *Instance) AddUnitClass(class UnitClass) (UnitClassID, error) {
	id := in.unitClasses.NextID()

	err := in.metaItems.Declare(class.Names, UnitClassData{Class: Single(id)})
	if err != nil {
		return id, err
	}

	in.unitClasses.Push(class)

	in.logger.Trace("declared unit class",
		slog.Any("names", class.Names),
		slog.Int("id", id.Index()))

	return id, nil
}

// AddUnit declares unit and, depending on prefix, its metric variants.
// Every name of the unit and its variants is checked before anything is
// declared, so on failure nothing is.
func (in *Instance) AddUnit(unit Unit, prefix PrefixKind) (UnitID, error) {
	variants := make([]Unit, 0, len(prefix.Prefixes()))
	for _, p := range prefix.Prefixes() {
		variants = append(variants, unit.WithPrefix(p))
	}

	all := slices.Clone(unit.Names)
	for _, v := range variants {
		all = append(all, v.Names...)
	}

	if taken := in.metaItems.collisions(all); len(taken) > 0 {
		return UnitID{}, collisionError(taken)
	}

	id := in.pushUnit(unit)

	for _, v := range variants {
		in.pushUnit(v)
	}

	in.logger.Trace("declared unit",
		slog.Any("names", unit.Names),
		slog.String("symbol", unit.Symbol),
		slog.Float64("base_ratio", unit.BaseRatio),
		slog.String("prefix", prefix.String()),
		slog.Int("variants", len(variants)))

	return id, nil
}

func (in *Instance) pushUnit(unit Unit) UnitID {
	id := in.units.Push(unit)
	in.metaItems.Insert(unit.Names, UnitData{Unit: Single(id)})

	return id
}

// AddEntityClass declares an entity class under all of its names.
func (in *Instance) AddEntityClass(class EntityClass) (EntityClassID, error) {
	id := in.entityClasses.NextID()

	err := in.metaItems.Declare(class.Names, EntityClassData{ID: id})
	if err != nil {
		return id, err
	}

	in.entityClasses.Push(class)

	in.logger.Trace("declared entity class",
		slog.Any("names", class.Names),
		slog.Int("id", id.Index()))

	return id, nil
}

// DeclareLabel binds names to data in the label namespace.
func (in *Instance) DeclareLabel(names []string, data Data) error {
	if err := in.labels.Declare(names, data); err != nil {
		return err
	}

	in.logger.Trace("declared label",
		slog.Any("names", names),
		slog.String("kind", dataKind(data)))

	return nil
}

// DeclareValue binds names to entity in the value namespace.
func (in *Instance) DeclareValue(names []string, entity *Entity) error {
	if err := in.values.Declare(names, entity); err != nil {
		return err
	}

	in.logger.Trace("declared value", slog.Any("names", names))

	return nil
}

// LookupItem looks name up in every namespace.
func (in *Instance) LookupItem(name string) AmbiguousItem {
	var item AmbiguousItem

	if m, ok := in.metaItems.Get(name); ok {
		item.Meta = m
	}

	if v, ok := in.values.Get(name); ok {
		item.Value = v
	}

	if l, ok := in.labels.Get(name); ok {
		item.Label = l
		item.LabelAlias = name
	}

	return item
}

// Lookup resolves name under actx.
func (in *Instance) Lookup(name string, actx AmbiguityContext) (Data, error) {
	d, ok := actx.Resolve(in.LookupItem(name))
	if !ok {
		return nil, ErrUndefinedName.With(slog.String("name", name))
	}

	return d, nil
}

// UnitClass returns the dimension identified by id.
func (in *Instance) UnitClass(id UnitClassID) UnitClass { return in.unitClasses.Get(id) }

// Unit returns the unit identified by id.
func (in *Instance) Unit(id UnitID) Unit { return in.units.Get(id) }

// EntityClass returns the entity class identified by id.
func (in *Instance) EntityClass(id EntityClassID) EntityClass {
	return in.entityClasses.Get(id)
}

// UnitClasses returns an iterator over every declared dimension.
func (in *Instance) UnitClasses() iter.Seq2[UnitClassID, UnitClass] {
	return in.unitClasses.All()
}

// Units returns an iterator over every declared unit, prefix variants
// included.
func (in *Instance) Units() iter.Seq2[UnitID, Unit] { return in.units.All() }

// EntityClasses returns an iterator over every declared entity class.
func (in *Instance) EntityClasses() iter.Seq2[EntityClassID, EntityClass] {
	return in.entityClasses.All()
}

// Labels returns an iterator over every label with all of its aliases.
func (in *Instance) Labels() iter.Seq2[[]string, Data] { return in.labels.Entries() }

// Values returns an iterator over every named entity with all of its
// aliases.
func (in *Instance) Values() iter.Seq2[[]string, *Entity] { return in.values.Entries() }

// Names returns every bound name across all namespaces, sorted and unique.
func (in *Instance) Names() []string {
	set := make(map[string]struct{})

	for _, seq := range []iter.Seq[string]{
		in.metaItems.Keys(),
		in.values.Keys(),
		in.labels.Keys(),
	} {
		for k := range seq {
			set[k] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(set))
}

// BaseRatio returns the factor converting a value in unit to base units:
// the product of each factor's base ratio raised to its power.
func (in *Instance) BaseRatio(unit CompositeUnit) float64 {
	ratio := 1.0

	for id, power := range unit.Factors() {
		ratio *= math.Pow(in.units.Get(id).BaseRatio, power)
	}

	return ratio
}

// DimensionOf returns the dimension measured by unit.
func (in *Instance) DimensionOf(unit CompositeUnit) CompositeUnitClass {
	var class CompositeUnitClass

	for id, power := range unit.Factors() {
		class = class.Mul(in.units.Get(id).Class.Pow(power))
	}

	return class
}

// AsScalar returns one of unit as an exact scalar displayed in unit.
func (in *Instance) AsScalar(unit CompositeUnit) Scalar {
	return NewScalar(in.BaseRatio(unit), Exact(), in.DimensionOf(unit), unit)
}

// emit hands data to the configured show handler.
func (in *Instance) emit(ctx context.Context, data Data) error {
	if in.config.show != nil {
		return in.config.show(ctx, in, data)
	}

	_, err := in.output.Write([]byte(in.Describe(data) + "\n"))

	return err
}
