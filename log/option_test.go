package log

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-05T14:07:09Z"},
		{"rfc-3339", "2024-03-05T14:07:09Z"},
		{"Kitchen", "2:07PM"},
		{"DateTime", "2024-03-05 14:07:09"},
		{"ms", "Mar  5 14:07:09.123"},
		{"2006/01/02", "2024/03/05"},
		{"none", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("format(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestOptions_Immutable(t *testing.T) {
	base := makeConfig(nil, WithLevel(LevelWarn))
	derived := apply(base, WithLevel(LevelTrace), WithCaller(true), nil)

	if base.level != LevelWarn || base.caller {
		t.Errorf("apply modified its input: %+v", base)
	}

	if derived.level != LevelTrace || !derived.caller {
		t.Errorf("options not applied: %+v", derived)
	}
}

func TestOptions_NilOutputDiscards(t *testing.T) {
	c := makeConfig(nil)
	if c.output == nil {
		t.Fatal("nil writer was not replaced")
	}

	c = apply(c, WithOutput(nil))
	if c.output == nil {
		t.Fatal("WithOutput(nil) left a nil writer")
	}
}

func TestOptions_TraceLevelName(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		logger := Make(&buf, WithLevel(LevelTrace), WithPretty(pretty))
		logger.Trace("step")

		if !strings.Contains(buf.String(), "TRACE") {
			t.Errorf("pretty=%v: expected TRACE level, got: %s", pretty, buf.String())
		}
	}
}

func TestPrettyHandler_GroupsAreFlattened(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"))
	logger.Logger.WithGroup("eval").Info("done", "depth", 3)

	output := buf.String()
	if !strings.Contains(output, "eval.depth") {
		t.Errorf("expected qualified key eval.depth, got: %s", output)
	}

	if strings.Contains(output, "time") {
		t.Errorf("expected no time field, got: %s", output)
	}
}

func TestPrettyHandler_JSONObject(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	logger.Info("parsed")

	output := buf.String()
	if !strings.HasPrefix(output, "{\n") || !strings.HasSuffix(output, "\n}\n") {
		t.Errorf("expected multi-line object, got: %q", output)
	}

	if !strings.Contains(output, "parsed") {
		t.Errorf("expected message, got: %q", output)
	}
}
