package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ardnew/quant/lang"
)

func TestEval(t *testing.T) {
	tests := []struct {
		name    string
		exprs   []string
		meta    bool
		want    string
		wantErr error
	}{
		{name: "number", exprs: []string{"1 + 2"}, want: "3\n"},
		{name: "scalar", exprs: []string{"2 * Meters"}, want: "2 m\n"},
		{name: "several", exprs: []string{"1", "2 * Meters"}, want: "1\n2 m\n"},
		{name: "dimension", exprs: []string{"Length / Time"}, meta: true, want: "Length / Time\n"},
		{name: "parse_error", exprs: []string{"1 +"}, wantErr: lang.ErrParse},
		{name: "undefined", exprs: []string{"Furlongs"}, wantErr: lang.ErrUndefinedName},
		{
			name:    "dimension_mismatch",
			exprs:   []string{"1 * Meter + 1 * Second"},
			wantErr: lang.ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := WithStdio(context.Background(), nil, &out)

			err := (&Eval{Exprs: tt.exprs, Meta: tt.meta}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Eval.Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr == nil && out.String() != tt.want {
				t.Errorf("Eval.Run() output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}
