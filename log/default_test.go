package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func withDefault(t *testing.T, l Logger) {
	t.Helper()

	saved := Default()
	SetDefault(l)

	t.Cleanup(func() { SetDefault(saved) })
}

func TestDefault_PackageFunctions(t *testing.T) {
	var buf bytes.Buffer

	withDefault(t, Make(&buf, WithLevel(LevelTrace), WithPretty(false)))

	Trace("trace message")
	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")
	InfoContext(t.Context(), "context message")

	output := buf.String()
	for _, want := range []string{
		"trace message",
		"debug message",
		"info message",
		"warn message",
		"error message",
		"context message",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in output: %s", want, output)
		}
	}
}

func TestDefault_Config(t *testing.T) {
	var buf bytes.Buffer

	withDefault(t, Make(&buf, WithPretty(false)))

	Debug("hidden")

	if buf.Len() != 0 {
		t.Fatalf("debug written at default level: %s", buf.String())
	}

	Config(WithLevel(LevelDebug))
	Debug("shown")

	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug not written after Config: %s", buf.String())
	}
}

func TestDefault_With(t *testing.T) {
	var buf bytes.Buffer

	withDefault(t, Make(&buf, WithPretty(false)))

	With(slog.String("component", "repl")).Info("ready")

	if !strings.Contains(buf.String(), "component=repl") {
		t.Errorf("expected attribute, got: %s", buf.String())
	}
}
