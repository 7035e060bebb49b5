package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type resolverTestCLI struct {
	LogLevel  string   `default:"info"`
	LogPretty bool     `default:"true" negatable:""`
	Indent    int      `default:"2"`
	Ratio     float64  `default:"1"`
	Bindings  []string `short:"b"`
}

func TestResolve_AppliesValues(t *testing.T) {
	const doc = `
log-level: debug
log_pretty: false
indent: 4
ratio: 0.25
bindings:
  - a.yaml
  - b.yaml
unknown: ignored
`

	resolver, err := resolve(t.Context())(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	var cli resolverTestCLI

	parser, err := kong.New(&cli, kong.Resolvers(resolver))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cli.LogLevel)
	}

	if cli.LogPretty {
		t.Error("LogPretty = true, want false")
	}

	if cli.Indent != 4 {
		t.Errorf("Indent = %d, want 4", cli.Indent)
	}

	if cli.Ratio != 0.25 {
		t.Errorf("Ratio = %v, want 0.25", cli.Ratio)
	}

	if want := []string{"a.yaml", "b.yaml"}; !slices.Equal(cli.Bindings, want) {
		t.Errorf("Bindings = %v, want %v", cli.Bindings, want)
	}
}

func TestResolve_FlagsOverrideConfig(t *testing.T) {
	resolver, err := resolve(t.Context())(strings.NewReader("log-level: debug\n"))
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	var cli resolverTestCLI

	parser, err := kong.New(&cli, kong.Resolvers(resolver))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--log-level=warn"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cli.LogLevel)
	}
}

func TestResolve_Configuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("indent: 8\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli resolverTestCLI

	parser, err := kong.New(&cli,
		kong.Configuration(resolve(t.Context()), path, path+".missing"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.Indent != 8 {
		t.Errorf("Indent = %d, want 8", cli.Indent)
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, doc := range []string{"- a\n- b\n", "key: [unterminated\n"} {
		if _, err := resolve(t.Context())(strings.NewReader(doc)); err == nil {
			t.Errorf("resolve(%q) succeeded, want error", doc)
		}
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{uint64(3), "3"},
		{int64(-3), "-3"},
		{1.5, "1.5"},
		{true, true},
		{"text", "text"},
	}

	for _, tt := range tests {
		if got := flagValue(tt.in); got != tt.want {
			t.Errorf("flagValue(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	got, ok := flagValue([]any{uint64(1), "x"}).([]any)
	if !ok || len(got) != 2 || got[0] != "1" || got[1] != "x" {
		t.Errorf("flagValue(slice) = %v, want [1 x]", got)
	}
}
