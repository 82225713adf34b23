package lang

import (
	"context"
	"io"

	"github.com/ardnew/quant/log"
)

// ShowFunc receives the result of every executed show statement.
type ShowFunc func(ctx context.Context, in *Instance, data Data) error

// Option configures parsing and evaluation.
type Option func(*config)

type config struct {
	logger log.Logger
	output io.Writer
	show   ShowFunc
}

func makeConfig(opts ...Option) config {
	cfg := config{output: io.Discard}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithLogger sets the logger used to trace parsing and execution.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithOutput sets the writer that receives one description line per executed
// show statement. It has no effect if [WithShow] is also given.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithShow replaces the default show handler, which writes descriptions to
// the writer set with [WithOutput].
func WithShow(fn ShowFunc) Option {
	return func(c *config) {
		c.show = fn
	}
}
