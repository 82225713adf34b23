package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/quant/lang"
)

// Fmt parses programs and prints them in canonical form without executing
// them.
type Fmt struct {
	Output string `default:"native" enum:"native,yaml,json" help:"Output format" short:"o"`

	Sources []string `arg:"" default:"-" help:"Program file(s) or '-' for stdin" name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(ctx, f.Sources...)
	if err != nil {
		return err
	}

	defer srcs.Close()

	var stmts []lang.Statement

	for _, src := range srcs {
		prog, err := lang.ParseProgramReader(ctx, src)
		if err != nil {
			return lang.WrapError(err).With(slog.String("file", src.name))
		}

		stmts = append(stmts, prog.Statements...)
	}

	return formatStatements(stdoutFrom(ctx), f.Output, stmts)
}

// formatStatements writes stmts to w. The native format is one statement
// per line; yaml and json write a catalog, which cannot hold show
// statements.
func formatStatements(w io.Writer, format string, stmts []lang.Statement) error {
	var text string

	switch format {
	case "yaml", "json":
		cat := lang.Catalog{Declarations: make([]lang.Declaration, 0, len(stmts))}

		for i, stmt := range stmts {
			decl, err := lang.DeclarationOf(stmt)
			if err != nil {
				return ErrInvalidInput.Wrap(err).With(slog.Int("statement", i+1))
			}

			cat.Declarations = append(cat.Declarations, decl)
		}

		opts := []yaml.EncodeOption{yaml.Indent(2)}
		if format == "json" {
			opts = append(opts, yaml.JSON())
		}

		data, err := yaml.MarshalWithOptions(cat, opts...)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		text = string(data)

	default:
		var sb strings.Builder

		for _, stmt := range stmts {
			sb.WriteString(stmt.String())
			sb.WriteByte('\n')
		}

		text = sb.String()
	}

	if _, err := io.WriteString(w, text); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
