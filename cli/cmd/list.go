package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/quant/lang"
)

// Record kinds reported by list.
const (
	recordClass       = "class"
	recordUnit        = "unit"
	recordEntityClass = "entity_class"
	recordLabel       = "label"
	recordValue       = "value"
)

// List prints the declared names of an instance.
type List struct {
	Kind   []string `default:"class,unit,entity_class,label,value" enum:"class,unit,entity_class,label,value" help:"Kinds of declarations to list" sep:"," short:"k"`
	Where  string   `help:"Only list records matching this expression, e.g. 'ratio > 1 and dimension == \"Length\"'" short:"w"`
	Output string   `default:"text" enum:"text,yaml,json" help:"Output format" short:"o"`
}

// record is one listed declaration. The expr tags name the variables
// available to --where.
type record struct {
	Kind      string   `expr:"kind"      yaml:"kind"`
	Name      string   `expr:"name"      yaml:"name"`
	Aliases   []string `expr:"aliases"   yaml:"aliases,omitempty,flow"`
	Symbol    string   `expr:"symbol"    yaml:"symbol,omitempty"`
	Dimension string   `expr:"dimension" yaml:"dimension,omitempty"`
	Ratio     float64  `expr:"ratio"     yaml:"ratio,omitempty"`
	Value     string   `expr:"value"     yaml:"value,omitempty"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := stdoutFrom(ctx)

	in, err := NewInstance(ctx, out)
	if err != nil {
		return err
	}

	filter, err := compileFilter(l.Where)
	if err != nil {
		return err
	}

	var selected []record

	for _, rec := range records(in, l.Kind) {
		ok, err := filter(rec)
		if err != nil {
			return err
		}

		if ok {
			selected = append(selected, rec)
		}
	}

	return writeRecords(out, l.Output, selected)
}

// compileFilter compiles src into a predicate over records. An empty src
// accepts everything.
func compileFilter(src string) (func(record) (bool, error), error) {
	if strings.TrimSpace(src) == "" {
		return func(record) (bool, error) { return true, nil }, nil
	}

	prog, err := expr.Compile(src, expr.Env(record{}), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("where", src))
	}

	return func(rec record) (bool, error) {
		return runFilter(prog, rec, src)
	}, nil
}

func runFilter(prog *vm.Program, rec record, src string) (bool, error) {
	v, err := expr.Run(prog, rec)
	if err != nil {
		return false, ErrFilter.Wrap(err).With(
			slog.String("where", src),
			slog.String("name", rec.Name))
	}

	ok, _ := v.(bool)

	return ok, nil
}

// records returns the declarations of in for the requested kinds, in
// declaration order within each kind.
func records(in *lang.Instance, kinds []string) []record {
	var recs []record

	describe := func(d lang.Data) string { return in.Describe(d) }

	for _, kind := range kinds {
		switch kind {
		case recordClass:
			for id, class := range in.UnitClasses() {
				recs = append(recs, record{
					Kind:      kind,
					Name:      class.Names[0],
					Aliases:   class.Names[1:],
					Dimension: describe(lang.UnitClassData{Class: lang.Single(id)}),
				})
			}

		case recordUnit:
			for _, unit := range in.Units() {
				recs = append(recs, record{
					Kind:      kind,
					Name:      unit.Names[0],
					Aliases:   unit.Names[1:],
					Symbol:    unit.Symbol,
					Dimension: describe(lang.UnitClassData{Class: unit.Class}),
					Ratio:     unit.BaseRatio,
				})
			}

		case recordEntityClass:
			for _, class := range in.EntityClasses() {
				recs = append(recs, record{
					Kind:    kind,
					Name:    class.Names[0],
					Aliases: class.Names[1:],
				})
			}

		case recordLabel:
			for names, d := range in.Labels() {
				rec := record{
					Kind:    kind,
					Name:    names[0],
					Aliases: names[1:],
					Value:   describe(d),
				}

				switch x := d.(type) {
				case lang.Scalar:
					rec.Dimension = describe(lang.UnitClassData{Class: x.Unit()})
					rec.Ratio = x.Value()
				case lang.UnitClassData:
					rec.Dimension = rec.Value
				case lang.UnitData:
					rec.Dimension = describe(lang.UnitClassData{Class: in.DimensionOf(x.Unit)})
					rec.Ratio = in.BaseRatio(x.Unit)
				}

				recs = append(recs, rec)
			}

		case recordValue:
			for names, entity := range in.Values() {
				recs = append(recs, record{
					Kind:    kind,
					Name:    names[0],
					Aliases: names[1:],
					Value:   describe(entity),
				})
			}
		}
	}

	return recs
}

// writeRecords renders recs to w in the given format.
func writeRecords(w io.Writer, format string, recs []record) error {
	var text string

	switch format {
	case "yaml", "json":
		opts := []yaml.EncodeOption{yaml.Indent(2)}
		if format == "json" {
			opts = append(opts, yaml.JSON())
		}

		if recs == nil {
			recs = []record{}
		}

		data, err := yaml.MarshalWithOptions(recs, opts...)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		text = string(data)

	default:
		text = recordTable(recs) + "\n"
	}

	if _, err := io.WriteString(w, text); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func recordTable(recs []record) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers("KIND", "NAME", "ALIASES", "SYMBOL", "DIMENSION", "RATIO", "VALUE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	for _, rec := range recs {
		ratio := ""
		if rec.Ratio != 0 {
			ratio = fmt.Sprintf("%g", rec.Ratio)
		}

		t.Row(
			rec.Kind,
			rec.Name,
			strings.Join(rec.Aliases, ", "),
			rec.Symbol,
			rec.Dimension,
			ratio,
			rec.Value,
		)
	}

	return t.Render()
}
