package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wildwinter/expression-parser/lang"
)

// runWith runs fn with stdin set to in and returns what it wrote.
func runWith(
	t *testing.T,
	ctx context.Context,
	in string,
	fn func(context.Context) error,
) (string, error) {
	t.Helper()

	var out bytes.Buffer

	err := fn(WithStdio(ctx, strings.NewReader(in), &out))

	return out.String(), err
}

func TestEvalRun(t *testing.T) {
	bindings := writeFile(t, "bindings.yaml", testBindings)

	tests := []struct {
		name      string
		expr      []string
		stdin     string
		files     []string
		overrides []string
		trace     bool
		want      string
	}{
		{
			name: "arithmetic",
			expr: []string{"1 + 2 * 3"},
			want: "7\n",
		},
		{
			name: "joined arguments",
			expr: []string{"(1", "+", "2)", "*", "3"},
			want: "9\n",
		},
		{
			name:      "override",
			expr:      []string{"name == 'fred'"},
			overrides: []string{"name=fred"},
			want:      "true\n",
		},
		{
			name:  "bindings file",
			expr:  []string{"whisky('a', 2)"},
			files: []string{bindings},
			want:  "2whisky_a\n",
		},
		{
			name:      "expression from stdin",
			expr:      []string{"-"},
			stdin:     "counter * 10\n",
			files:     []string{bindings},
			overrides: []string{"counter=4"},
			want:      "40\n",
		},
		{
			name:      "override reaches functions",
			expr:      []string{"tally()"},
			files:     []string{bindings},
			overrides: []string{"counter=4"},
			want:      "40\n",
		},
		{
			name:      "negative override",
			expr:      []string{"counter"},
			files:     []string{bindings},
			overrides: []string{"counter=-3"},
			want:      "-3\n",
		},
		{
			name:  "builtin",
			expr:  []string{"upper(name)"},
			files: []string{bindings},
			want:  "FRED\n",
		},
		{
			name:  "trace",
			expr:  []string{"1 + 2"},
			trace: true,
			want:  "Number: 1\nNumber: 2\nEvaluated: 1 + 2 = 3\n3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithBindingFiles(t.Context(), tt.files)
			ctx = WithOverrides(ctx, tt.overrides)

			cmd := &Eval{Expr: tt.expr, Trace: tt.trace}

			got, err := runWith(t, ctx, tt.stdin, cmd.Run)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		expr    []string
		lenient bool
		want    error
	}{
		{"empty", nil, false, ErrNoExpression},
		{"blank stdin", []string{"-"}, false, ErrNoExpression},
		{"syntax", []string{"1 +"}, false, lang.ErrSyntax},
		{"unexpected character", []string{"1 +# 2"}, false, lang.ErrSyntax},
		{"reference", []string{"missing"}, false, lang.ErrReference},
		{"type", []string{"'abc' + 1"}, false, lang.ErrType},
		{"arithmetic", []string{"1 / 0"}, false, lang.ErrArithmetic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &Eval{Expr: tt.expr, Lenient: tt.lenient}

			_, err := runWith(t, t.Context(), "  \n", cmd.Run)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEvalRun_Lenient(t *testing.T) {
	cmd := &Eval{Expr: []string{"1 +# 2"}, Lenient: true}

	got, err := runWith(t, t.Context(), "", cmd.Run)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got != "3\n" {
		t.Errorf("Run() output = %q, want %q", got, "3\n")
	}
}

func TestEvalRun_TraceBeforeError(t *testing.T) {
	cmd := &Eval{Expr: []string{"1 + missing"}, Trace: true}

	got, err := runWith(t, t.Context(), "", cmd.Run)
	if !errors.Is(err, lang.ErrReference) {
		t.Fatalf("Run() error = %v, want ErrReference", err)
	}

	if got != "Number: 1\n" {
		t.Errorf("Run() output = %q, want %q", got, "Number: 1\n")
	}
}
