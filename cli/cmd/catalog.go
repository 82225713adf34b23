package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/quant/lang"
	"github.com/ardnew/quant/log"
)

// Catalog prints every declaration of the prepared instance, plus those of
// the given program files, as a YAML catalog.
type Catalog struct {
	Sources []string `arg:"" help:"Program file(s) to execute before exporting" name:"source" optional:""`
}

// Run executes the catalog command.
func (c *Catalog) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := stdoutFrom(ctx)

	// show statements in the sources must not corrupt the YAML stream
	in, err := NewInstance(ctx, nil)
	if err != nil {
		return err
	}

	srcs, err := openSources(ctx, c.Sources...)
	if err != nil {
		return err
	}

	defer srcs.Close()

	for _, src := range srcs {
		if err := execSource(ctx, in, src); err != nil {
			return err
		}
	}

	cat, err := in.Catalog()
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "export catalog",
		slog.Int("declarations", len(cat.Declarations)))

	return lang.EncodeCatalog(ctx, out, cat)
}
