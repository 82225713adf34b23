package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/quant/lang"
	"github.com/ardnew/quant/log"
)

func Example_basic() {
	logger := log.Make(os.Stderr)
	logger.Info("catalog loaded", slog.Int("declarations", 12))
}

func Example_levels() {
	logger := log.Make(os.Stderr, log.WithLevel(log.LevelWarn))

	logger.Debug("resolved expression") // dropped
	logger.Warn("ignoring invalid configuration", slog.String("path", "config.yaml"))
	logger.Error("run failed", slog.Any("error", lang.ErrUndefinedName))
}

// Trace level exposes every parse and declaration step of an instance.
func Example_traceInstance() {
	logger := log.Make(os.Stderr,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithPretty(true))

	in := lang.New(lang.WithLogger(logger), lang.WithOutput(os.Stdout))

	_ = in.Exec(context.Background(), `make unit_class called Length
make base_unit called Meter { class: Length, symbol: "m" }
show 3 * Meter`)
}

// Errors from the lang package carry their attributes into structured logs.
func Example_errorAttributes() {
	logger := log.Make(os.Stderr, log.WithCaller(true))

	_, err := lang.ParseExpression(context.Background(), "1 +")
	if err != nil {
		logger.Error("parse failed", slog.Any("error", err))
	}
}

func Example_withAttributes() {
	logger := log.Make(os.Stderr, log.WithTimeLayout("RFC3339Nano")).
		With(slog.String("source", "units.qty"))

	logger.Info("executing program")
	logger.Debug("statement", slog.Int("line", 4))
}
