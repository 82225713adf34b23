package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const scenario = `make unit_class called Length
make base_unit called Meter, Meters { class: Length, symbol: "m", metric }
make unit_class called Time
make base_unit called Second, Seconds { class: Time, symbol: "s", partial_metric }
make label called Velocity for Length / Time
show (1 * Meter / Second ^ 2) is Acceleration
`

func TestParseStatements_Scenario(t *testing.T) {
	stmts, rest, err := ParseStatements(context.Background(), scenario)
	if err != nil {
		t.Fatalf("ParseStatements() error = %v", err)
	}

	if len(stmts) != 6 {
		t.Fatalf("got %d statements, want 6", len(stmts))
	}

	wantTypes := []string{
		"make unit_class called Length",
		`make base_unit called Meter, Meters { metric, class: Length, symbol: "m" }`,
		"make unit_class called Time",
		`make base_unit called Second, Seconds { partial_metric, class: Time, symbol: "s" }`,
		"make label called Velocity for (Length / Time)",
		"show ((1 * Meter) / (Second ^ 2))",
	}

	for i, stmt := range stmts {
		if got := stmt.String(); got != wantTypes[i] {
			t.Errorf("statement %d = %s, want %s", i+1, got, wantTypes[i])
		}
	}

	if strings.TrimSpace(rest) != "is Acceleration" {
		t.Errorf("remainder = %q, want %q", rest, "is Acceleration")
	}

	_, err = ParseProgram(context.Background(), scenario)
	if !errors.Is(err, ErrParse) {
		t.Errorf("ParseProgram() error = %v, want %v", err, ErrParse)
	}
}

func TestParseStatement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		wantRest string
	}{
		{
			name:  "unit_class_aliases",
			input: "make unit_class called Length, Distance",
			want:  "make unit_class called Length, Distance",
		},
		{
			name:     "unit_class_takes_no_value",
			input:    "make unit_class called Length show 1",
			want:     "make unit_class called Length",
			wantRest: " show 1",
		},
		{
			name:     "entity_class_without_builder",
			input:    "make entity_class called Planet\nmake value called Earth { Planet }",
			want:     "make entity_class called Planet {}",
			wantRest: "\nmake value called Earth { Planet }",
		},
		{
			name:  "entity_class_with_builder",
			input: "make entity_class called Planet { mass: 1 }",
			want:  "make entity_class called Planet { mass: 1 }",
		},
		{
			name:  "entity_class_for_builder",
			input: "make entity_class called Planet for { }",
			want:  "make entity_class called Planet {}",
		},
		{
			name:  "derived_unit_for",
			input: `make derived_unit called Foot for { symbol: "ft", value: 0.3048 * Meters }`,
			want:  `make derived_unit called Foot { symbol: "ft", value: (0.3048 * Meters) }`,
		},
		{
			name:  "value",
			input: "make value called Earth { Planet, radius: 6371 * Kilometers }",
			want:  "make value called Earth { Planet, radius: (6371 * Kilometers) }",
		},
		{
			name:  "label_scalar",
			input: "make label called Pi for 3.14",
			want:  "make label called Pi for 3.14",
		},
		{
			name:  "show",
			input: "  // leading comment\nshow -Meter",
			want:  "show (-Meter)",
		},
		{
			name:  "value_name_starting_with_keyword",
			input: "make label called Tool for makeshift * showcase",
			want:  "make label called Tool for (makeshift * showcase)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, rest, err := ParseStatement(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ParseStatement() error = %v", err)
			}

			if got := stmt.String(); got != tt.want {
				t.Errorf("ParseStatement() = %s, want %s", got, tt.want)
			}

			if rest != tt.wantRest {
				t.Errorf("remainder = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestParseStatement_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no_keyword", "Length"},
		{"unknown_kind", "make unit called Meter"},
		{"missing_called", "make unit_class Length"},
		{"missing_name", "make unit_class called"},
		{"trailing_comma", "make unit_class called Length,"},
		{"label_without_for", "make label called Velocity Length / Time"},
		{"base_unit_without_value", "make base_unit called Meter"},
		{"value_without_value", "make value called Earth"},
		{"entity_class_for_without_builder", "make entity_class called Planet for Mass"},
		{"show_without_value", "show"},
		{"keyword_prefix", "maker unit_class called X"},
		{"base_unit_before_make", "make base_unit called X\nmake unit_class called Y"},
		{"derived_unit_before_show", "make derived_unit called X show 1"},
		{"value_before_show", "make value called X\nshow 1"},
		{"label_for_before_make", "make label called X for\nmake unit_class called Y"},
		{"show_before_show", "show\nshow 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rest, err := ParseStatement(context.Background(), tt.input)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("ParseStatement(%q) error = %v, want %v", tt.input, err, ErrParse)
			}

			if rest != tt.input {
				t.Errorf("remainder = %q, want the whole input", rest)
			}
		})
	}
}

func TestParseProgram(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"blank", "  // nothing\n\n", 0, false},
		{"one", "show 1", 1, false},
		{"many_same_line", "make unit_class called A make unit_class called B show A", 3, false},
		{"residual", "show 1 )", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseProgram(context.Background(), tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProgram() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				if rest := WrapError(err).Remaining(); rest != ")" {
					t.Errorf("Remaining() = %q, want %q", rest, ")")
				}

				return
			}

			if len(prog.Statements) != tt.want {
				t.Errorf("got %d statements, want %d", len(prog.Statements), tt.want)
			}
		})
	}
}

func TestParseProgramReader(t *testing.T) {
	prog, err := ParseProgramReader(context.Background(), strings.NewReader(scenario[:strings.LastIndex(scenario, "show")]))
	if err != nil {
		t.Fatalf("ParseProgramReader() error = %v", err)
	}

	if len(prog.Statements) != 5 {
		t.Errorf("got %d statements, want 5", len(prog.Statements))
	}
}
