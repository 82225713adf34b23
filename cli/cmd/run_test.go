package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/quant/lang"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "show",
			input: "show 2 * Meters\nshow 3 * Meters\n",
			want:  "2 m\n3 m\n",
		},
		{
			name:  "declare_then_show",
			input: "make label called Width for 4 * Meters\nshow Width\n",
			want:  "4 m\n",
		},
		{
			name:    "undefined_name",
			input:   "show 1\nshow Furlongs\n",
			want:    "1\n",
			wantErr: lang.ErrUndefinedName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := WithStdio(context.Background(), strings.NewReader(tt.input), &out)

			err := (&Run{Sources: []string{"-"}}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_SharedInstance(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.qty", "make label called Width for 4 * Meters\n")
	second := writeFile(t, dir, "second.qty", "show 2 * Width\n")

	var out bytes.Buffer

	ctx := WithStdio(context.Background(), nil, &out)

	if err := (&Run{Sources: []string{first, second}}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got, want := out.String(), "8 m\n"; got != want {
		t.Errorf("Run() output = %q, want %q", got, want)
	}
}
