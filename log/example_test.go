package log_test

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/wildwinter/expression-parser/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("expression parsed", slog.Int("tokens", 7))
	logger.Debug("not written")

	// Output:
	// level=INFO msg="expression parsed" tokens=7
}

func ExampleLogger_Wrap() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	verbose := logger.Wrap(log.WithLevel(log.LevelTrace))
	verbose.Trace("tokenize", slog.String("source", "1+2"))

	// Output:
	// level=TRACE msg=tokenize source=1+2
}

func ExampleParseLevel() {
	for _, s := range []string{"trace", "WARN", "info+2"} {
		fmt.Println(log.ParseLevel(s))
	}

	// Output:
	// trace
	// warn
	// info+2
}
