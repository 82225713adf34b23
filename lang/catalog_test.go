package lang

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

const catalogProgram = `make unit_class called Length
make unit_class called Time
make base_unit called Meter, Meters { class: Length, symbol: "m", metric }
make base_unit called Second { class: Time, symbol: "s", partial_metric }
make derived_unit called Foot, Feet { symbol: "ft", value: 0.3048 * Meters }
make entity_class called Planet
make label called Velocity for Length / Time
make label called Stride for 2.5 * Feet
show Stride
make value called Earth { Planet, name: "Earth", radius: 6371 * Kilometers }`

func TestCatalog_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestInstance(t, catalogProgram)

	cat, err := src.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}

	if got := len(cat.Declarations); got != 9 {
		t.Fatalf("Catalog() has %d declarations, want 9", got)
	}

	wantKinds := []Kind{
		KindUnitClass, KindUnitClass, KindBaseUnit, KindBaseUnit,
		KindDerivedUnit, KindEntityClass, KindLabel, KindLabel, KindValue,
	}

	for i, decl := range cat.Declarations {
		if decl.Kind != wantKinds[i] {
			t.Errorf("declaration %d kind = %s, want %s", i+1, decl.Kind, wantKinds[i])
		}
	}

	meter := cat.Declarations[2]
	if meter.Class != "Length" || meter.Symbol != "m" || meter.Prefix != "metric" ||
		!slices.Equal(meter.Names, []string{"Meter", "Meters"}) {
		t.Errorf("Meter declaration = %+v", meter)
	}

	var buf bytes.Buffer
	if err := EncodeCatalog(ctx, &buf, cat); err != nil {
		t.Fatalf("EncodeCatalog() error = %v", err)
	}

	dst := New()
	if err := dst.LoadCatalog(ctx, &buf); err != nil {
		t.Fatalf("LoadCatalog() error = %v\n%s", err, buf.String())
	}

	if got, want := dst.Names(), src.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %q, want %q", got, want)
	}

	for _, name := range []string{"Stride", "Earth", "Velocity", "Millisecond"} {
		a, _ := src.Lookup(name, PreferValues)
		b, _ := dst.Lookup(name, PreferValues)

		if got, want := dst.Describe(b), src.Describe(a); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestDecodeCatalog(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    []Declaration
		wantErr error
	}{
		{
			name: "empty",
			doc:  "",
		},
		{
			name: "number_source",
			doc: `declarations:
  - kind: label
    names: [Two]
    for: 2
`,
			want: []Declaration{{Kind: KindLabel, Names: []string{"Two"}, For: "2"}},
		},
		{
			name: "block_names",
			doc: `declarations:
  - kind: unit_class
    names:
      - Length
      - Distance
`,
			want: []Declaration{{Kind: KindUnitClass, Names: []string{"Length", "Distance"}}},
		},
		{
			name: "unknown_field",
			doc: `declarations:
  - kind: unit_class
    names: [Length]
    colour: blue
`,
			wantErr: ErrCatalog,
		},
		{
			name: "mapping_source",
			doc: `declarations:
  - kind: label
    names: [Two]
    for: { a: 1 }
`,
			wantErr: ErrCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := DecodeCatalog(context.Background(), strings.NewReader(tt.doc))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeCatalog() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("DecodeCatalog() error = %v", err)
			}

			if len(cat.Declarations) != len(tt.want) {
				t.Fatalf("DecodeCatalog() = %d declarations, want %d",
					len(cat.Declarations), len(tt.want))
			}

			for i, got := range cat.Declarations {
				want := tt.want[i]
				if got.Kind != want.Kind || got.For != want.For || !slices.Equal(got.Names, want.Names) {
					t.Errorf("declaration %d = %+v, want %+v", i+1, got, want)
				}
			}
		})
	}
}

func TestLoadCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		wantErr error
	}{
		{
			name: "bad_prefix",
			entry: `  - kind: base_unit
    names: [Meter]
    class: Length
    symbol: m
    prefix: mega
`,
			wantErr: ErrTypeMismatch,
		},
		{
			name: "missing_names",
			entry: `  - kind: unit_class
`,
			wantErr: ErrTypeMismatch,
		},
		{
			name: "unknown_kind",
			entry: `  - kind: constant
    names: [Pi]
`,
			wantErr: ErrTypeMismatch,
		},
		{
			name: "missing_value",
			entry: `  - kind: derived_unit
    names: [Foot]
    symbol: ft
`,
			wantErr: ErrTypeMismatch,
		},
		{
			name: "syntax",
			entry: `  - kind: label
    names: [Bad]
    for: 1 +
`,
			wantErr: ErrParse,
		},
		{
			name: "undefined",
			entry: `  - kind: label
    names: [Bad]
    for: Nowhere
`,
			wantErr: ErrUndefinedName,
		},
		{
			name: "collision",
			entry: `  - kind: unit_class
    names: [Length]
`,
			wantErr: ErrNameCollision,
		},
		{
			name: "precision_conflict",
			entry: `  - kind: label
    names: [Gauge]
    for: 2
    sig_figs: 3
    percent_error: 0.01
`,
			wantErr: ErrTypeMismatch,
		},
		{
			name: "negative_sig_figs",
			entry: `  - kind: label
    names: [Gauge]
    for: 2
    sig_figs: -3
`,
			wantErr: ErrTypeMismatch,
		},
		{
			name: "precision_on_unit_class",
			entry: `  - kind: unit_class
    names: [Time]
    sig_figs: 3
`,
			wantErr: ErrTypeMismatch,
		},
		{
			name: "precision_on_dimension",
			entry: `  - kind: label
    names: [Span]
    for: Length
    exact: true
`,
			wantErr: ErrTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `declarations:
  - kind: unit_class
    names: [Length]
` + tt.entry

			in := New()

			err := in.LoadCatalog(context.Background(), strings.NewReader(doc))
			if !errors.Is(err, ErrCatalog) || !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadCatalog() error = %v, want %v and %v", err, ErrCatalog, tt.wantErr)
			}

			// Entries before the failure stay in effect.
			if _, err := in.Lookup("Length", PreferMeta); err != nil {
				t.Errorf("Lookup(Length) error = %v", err)
			}
		})
	}
}

func TestCatalog_Unexportable(t *testing.T) {
	in := newTestInstance(t, `make unit_class called Length
make value called MeterProps { class: Length, symbol: "m" }
make base_unit called Meter for MeterProps`)

	if _, err := in.Catalog(); !errors.Is(err, ErrCatalog) {
		t.Errorf("Catalog() error = %v, want %v", err, ErrCatalog)
	}
}

func TestDeclarationOf(t *testing.T) {
	ctx := context.Background()

	stmt, _, err := ParseStatement(ctx, `make derived_unit called Mile { symbol: "mi", value: 5280 * Feet, metric }`)
	if err != nil {
		t.Fatalf("ParseStatement() error = %v", err)
	}

	decl, err := DeclarationOf(stmt)
	if err != nil {
		t.Fatalf("DeclarationOf() error = %v", err)
	}

	if decl.Symbol != "mi" || decl.Value != "(5280 * Feet)" || decl.Prefix != "metric" {
		t.Errorf("DeclarationOf() = %+v", decl)
	}

	back, err := decl.Statement(ctx)
	if err != nil {
		t.Fatalf("Statement() error = %v", err)
	}

	if _, ok := back.(MakeDerivedUnit); !ok {
		t.Errorf("Statement() = %T, want MakeDerivedUnit", back)
	}

	show, _, err := ParseStatement(ctx, "show 1")
	if err != nil {
		t.Fatalf("ParseStatement() error = %v", err)
	}

	if _, err := DeclarationOf(show); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("DeclarationOf(show) error = %v, want %v", err, ErrTypeMismatch)
	}
}

func TestLoadCatalog_Precision(t *testing.T) {
	const doc = `declarations:
  - kind: unit_class
    names: [Length]
  - kind: base_unit
    names: [Meter, Meters]
    class: Length
    symbol: m
    prefix: metric
  - kind: label
    names: [Gauge]
    for: 1.23456
    sig_figs: 3
  - kind: label
    names: [Tolerance]
    for: 2
    percent_error: 0.05
  - kind: value
    names: [Rod]
    for: "{ length: 1.23456 * Meters, label: \"steel\" }"
    sig_figs: 2
`

	ctx := context.Background()

	in := New()
	if err := in.LoadCatalog(ctx, strings.NewReader(doc)); err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	tests := []struct {
		src  string
		want string
	}{
		{"Gauge", "1.23"},
		{"Gauge * Meters", "1.23 m"},
		{"Gauge * 1.5 * Kilometers", "1.85 km"},
		{"Tolerance", "2 ± 5%"},
		{"Rod", `{ label: "steel", length: 1.2 m }`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			d, err := resolve(in, tt.src, PreferValues)
			if err != nil {
				t.Fatalf("ResolveExpression() error = %v", err)
			}

			if got := in.Describe(d); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}

	// The precision survives export.
	cat, err := in.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}

	gauge, tolerance, rod := cat.Declarations[2], cat.Declarations[3], cat.Declarations[4]
	if gauge.SigFigs != 3 || gauge.PercentError != 0 || gauge.Exact {
		t.Errorf("Gauge declaration = %+v, want sig_figs 3", gauge)
	}

	if tolerance.PercentError != 0.05 || tolerance.SigFigs != 0 {
		t.Errorf("Tolerance declaration = %+v, want percent_error 0.05", tolerance)
	}

	if rod.SigFigs != 2 {
		t.Errorf("Rod declaration = %+v, want sig_figs 2", rod)
	}
}
