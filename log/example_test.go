package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/snek/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.Info("script finished", slog.String("script", "hello.snek"), slog.Int("statements", 3))
	logger.Debug("hidden below the default level")

	// Output:
	// level=INFO msg="script finished" script=hello.snek statements=3
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none")).
		With(slog.String("mode", "repl"))

	logger.Warn("history disabled")

	// Output:
	// {"level":"WARN","msg":"history disabled","mode":"repl"}
}

func ExampleLogger_Wrap() {
	logger := log.Make(os.Stdout, log.WithPretty(false), log.WithTimeLayout(""))

	verbose := logger.Wrap(log.WithLevel(log.LevelTrace), log.WithFormat(log.FormatText))
	verbose.Trace("token", slog.String("kind", "Indent"))

	// Output:
	// level=TRACE msg=token kind=Indent
}
