package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/quant/lang"
	"github.com/ardnew/quant/log"
)

// Run executes program files against one shared instance.
type Run struct {
	Sources []string `arg:"" default:"-" help:"Program file(s) or '-' for stdin" name:"source"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := stdoutFrom(ctx)

	in, err := NewInstance(ctx, out)
	if err != nil {
		return err
	}

	srcs, err := openSources(ctx, r.Sources...)
	if err != nil {
		return err
	}

	defer srcs.Close()

	for _, src := range srcs {
		if err := execSource(ctx, in, src); err != nil {
			return err
		}
	}

	return nil
}

// execSource reads src in full and executes it as one program.
func execSource(ctx context.Context, in *lang.Instance, src source) error {
	text, err := io.ReadAll(src)
	if err != nil {
		return ErrReadSource.Wrap(err).With(slog.String("file", src.name))
	}

	log.DebugContext(ctx, "execute source",
		slog.String("file", src.name),
		slog.Int("bytes", len(text)))

	if err := in.Exec(ctx, string(text)); err != nil {
		e := lang.WrapError(err).With(slog.String("file", src.name))

		if snip := e.Snippet(string(text)); snip != "" {
			e = e.With(slog.String("near", snip))
		}

		return e
	}

	return nil
}
