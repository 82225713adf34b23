package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/quant/lang"
)

// Eval evaluates expressions and prints their descriptions.
type Eval struct {
	Exprs []string `arg:""   help:"Expression(s) to evaluate"               name:"expr"`
	Meta  bool     `          help:"Prefer units and dimensions over values" short:"m"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := stdoutFrom(ctx)

	in, err := NewInstance(ctx, out)
	if err != nil {
		return err
	}

	actx := lang.PreferValues
	if e.Meta {
		actx = lang.PreferMeta
	}

	for _, src := range e.Exprs {
		d, err := evaluate(ctx, in, src, actx)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(out, in.Describe(d)); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// evaluate parses and resolves a single expression.
func evaluate(
	ctx context.Context,
	in *lang.Instance,
	src string,
	actx lang.AmbiguityContext,
) (lang.Data, error) {
	expr, err := lang.ParseExpression(ctx, src, lang.WithLogger(in.Logger()))
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("expr", src))
	}

	d, err := in.ResolveExpression(ctx, expr, actx)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("expr", src))
	}

	return d, nil
}
