package lang

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestNode_Print_Indent(t *testing.T) {
	tree := Not(NewVariable("ready"))

	var buf bytes.Buffer
	if err := tree.Print(&buf, 1); err != nil {
		t.Fatalf("Print error: %v", err)
	}

	want := "  Not\n    Variable(ready)\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAST_Print(t *testing.T) {
	ast, err := Parse(t.Context(), "whisky('x', 1.5) or D")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := ast.Print(t.Context(), &buf); err != nil {
		t.Fatalf("Print error: %v", err)
	}

	want := `Or
  FunctionCall(whisky)
    String(x)
    Number(1.5)
  Variable(D)
`
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestAST_Walk(t *testing.T) {
	ast, err := Parse(t.Context(), "f(1, x) + 2")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	var kinds []Kind
	for n := range ast.Walk() {
		kinds = append(kinds, n.Kind())
	}

	want := []Kind{KindPlus, KindFunctionCall, KindNumber, KindVariable, KindNumber}
	if !slices.Equal(kinds, want) {
		t.Errorf("got %v, want %v", kinds, want)
	}

	count := 0
	for range ast.Walk() {
		count++
		if count == 2 {
			break
		}
	}

	if count != 2 {
		t.Errorf("early break visited %d nodes", count)
	}
}

func TestNode_Accessors(t *testing.T) {
	call := NewFunctionCall("f", NewNumber(1), NewString("a"))
	bin := Minus(call, NewBoolean(true))
	neg := Negative(NewVariable("v"))

	if bin.Left() != call {
		t.Error("Left should return the left operand")
	}

	if bin.Operand() != nil {
		t.Error("Operand of a binary node should be nil")
	}

	if neg.Operand() == nil || neg.Operand().Name() != "v" {
		t.Error("Operand should return the unary operand")
	}

	if neg.Left() != nil {
		t.Error("Left of a unary node should be nil")
	}

	if call.Name() != "f" || len(call.Args()) != 2 {
		t.Errorf("call accessors: name=%q args=%d", call.Name(), len(call.Args()))
	}

	args := call.Args()
	args[0] = nil

	if call.Args()[0] == nil {
		t.Error("Args should return a copy")
	}

	if got := call.Args()[1].Value(); got != "a" {
		t.Errorf("Value = %v, want a", got)
	}

	if bin.Precedence() != PrecedenceAdditive {
		t.Errorf("Precedence = %d, want %d", bin.Precedence(), PrecedenceAdditive)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		kind       Kind
		name       string
		operator   string
		precedence int
	}{
		{KindOr, "Or", "or", 40},
		{KindAnd, "And", "and", 50},
		{KindEquals, "Equals", "==", 60},
		{KindLessThanEquals, "LessThanEquals", "<=", 60},
		{KindMinus, "Minus", "-", 70},
		{KindMultiply, "Multiply", "*", 80},
		{KindDivide, "Divide", "/", 85},
		{KindNegative, "Negative", "-", 90},
		{KindNot, "Not", "not", 90},
		{KindFunctionCall, "FunctionCall", "", 100},
		{Kind(-1), "Unknown", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}

			if got := tt.kind.Operator(); got != tt.operator {
				t.Errorf("Operator() = %q, want %q", got, tt.operator)
			}

			if got := tt.kind.Precedence(); got != tt.precedence {
				t.Errorf("Precedence() = %d, want %d", got, tt.precedence)
			}
		})
	}
}

func TestNewBinary_Panics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"unary kind", func() { NewBinary(KindNot, NewNumber(1), NewNumber(2)) }},
		{"nil operand", func() { NewBinary(KindPlus, NewNumber(1), nil) }},
		{"binary kind as unary", func() { NewUnary(KindPlus, NewNumber(1)) }},
		{"nil unary operand", func() { NewUnary(KindNot, nil) }},
		{"nil argument", func() { NewFunctionCall("f", nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()

			tt.fn()
		})
	}
}

func TestAST_FormatJSON(t *testing.T) {
	ast, err := Parse(t.Context(), "1 + x")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := ast.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatalf("FormatJSON error: %v", err)
	}

	want := `{"canonical":"1 + x","root":{"kind":"Plus","left":{"kind":"Number","value":1},` +
		`"operator":"+","right":{"kind":"Variable","name":"x"}},"source":"1 + x"}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	buf.Reset()

	if err := ast.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatalf("FormatJSON indent error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("indented output is not JSON: %v", err)
	}

	if !strings.Contains(buf.String(), "\n  \"canonical\"") {
		t.Errorf("expected two-space indentation, got:\n%s", buf.String())
	}
}

func TestAST_FormatYAML(t *testing.T) {
	ast, err := Parse(t.Context(), "not f('a', 2)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer
		if err := ast.FormatYAML(t.Context(), &buf, indent); err != nil {
			t.Fatalf("FormatYAML(%d) error: %v", indent, err)
		}

		var decoded struct {
			Canonical string `yaml:"canonical"`
			Root      struct {
				Kind    string `yaml:"kind"`
				Operand struct {
					Kind string `yaml:"kind"`
					Name string `yaml:"name"`
				} `yaml:"operand"`
			} `yaml:"root"`
		}

		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("FormatYAML(%d) output does not decode: %v\n%s", indent, err, buf.String())
		}

		if decoded.Canonical != "not f('a', 2)" {
			t.Errorf("canonical = %q", decoded.Canonical)
		}

		if decoded.Root.Kind != "Not" || decoded.Root.Operand.Name != "f" {
			t.Errorf("unexpected root: %+v", decoded.Root)
		}
	}
}

func TestNewAST(t *testing.T) {
	ast := NewAST(Plus(NewNumber(1), NewNumber(2)))

	if ast.Source != "" {
		t.Errorf("Source = %q, want empty", ast.Source)
	}

	if _, ok := ast.ToMap()["source"]; ok {
		t.Error("ToMap should omit an empty source")
	}

	got, err := ast.Evaluate(t.Context(), nil, nil)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if got != 3.0 {
		t.Errorf("got %v, want 3", got)
	}
}

func TestNewAST_NilRoot(t *testing.T) {
	ast := NewAST(nil)

	if _, err := ast.Evaluate(t.Context(), Env{}, nil); !errors.Is(err, ErrSyntax) {
		t.Errorf("Evaluate error = %v, want ErrSyntax", err)
	}

	var buf bytes.Buffer
	if err := ast.Print(t.Context(), &buf); !errors.Is(err, ErrSyntax) {
		t.Errorf("Print error = %v, want ErrSyntax", err)
	}

	if got := ast.Write(StyleSingleQuote); got != "" {
		t.Errorf("Write = %q, want empty", got)
	}

	for n := range ast.Walk() {
		t.Errorf("Walk yielded %v", n.Kind())
	}

	if m := ast.ToMap(); len(m) != 0 {
		t.Errorf("ToMap = %v, want empty", m)
	}
}
