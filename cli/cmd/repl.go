package cmd

import (
	"bytes"
	"context"

	"github.com/ardnew/quant/cli/cmd/repl"
	"github.com/ardnew/quant/lang"
	"github.com/ardnew/quant/log"
)

// Repl starts an interactive session.
type Repl struct {
	NoHistory bool `help:"Do not read or write the history file"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	factory := func(ctx context.Context, w *bytes.Buffer) (*lang.Instance, error) {
		return NewInstance(ctx, w)
	}

	return repl.Run(ctx, factory, r.cacheDir(ctx), log.Default())
}

// cacheDir returns the directory holding the history file, or an empty
// string to keep history in memory.
func (r *Repl) cacheDir(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[CacheIdentifier]
}
