package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatJSON writes the tree as JSON to w. An indent greater than zero
// pretty-prints with that many spaces per level.
func (ast *AST) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ast, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ast)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the tree as YAML to w. An indent of zero selects flow
// style.
func (ast *AST) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ast.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// MarshalJSON implements [json.Marshaler].
func (ast *AST) MarshalJSON() ([]byte, error) {
	return json.Marshal(ast.ToMap())
}

// ToMap converts the tree to nested maps: the expression source, its
// canonical text, and the root node.
func (ast *AST) ToMap() map[string]any {
	m := map[string]any{}

	if ast.Root != nil {
		m["canonical"] = ast.Root.Write(StyleSingleQuote)
		m["root"] = ast.Root.ToMap()
	}

	if ast.Source != "" {
		m["source"] = ast.Source
	}

	return m
}

// ToMap converts the subtree rooted at n to nested maps. Every node has a
// "kind"; operators add "operator" and their operands, literals a "value",
// and names a "name".
func (n *Node) ToMap() map[string]any {
	m := map[string]any{"kind": n.kind.String()}

	switch n.kind {
	case KindBoolean, KindNumber, KindString:
		m["value"] = n.value

	case KindVariable:
		m["name"] = n.name

	case KindFunctionCall:
		args := make([]any, len(n.args))
		for i, arg := range n.args {
			args[i] = arg.ToMap()
		}

		m["name"] = n.name
		m["args"] = args

	case KindNegative, KindNot:
		m["operator"] = n.kind.Operator()
		m["operand"] = n.left.ToMap()

	case KindOr, KindAnd,
		KindEquals, KindNotEquals,
		KindGreaterThan, KindLessThan,
		KindGreaterThanEquals, KindLessThanEquals,
		KindPlus, KindMinus, KindMultiply, KindDivide:
		m["operator"] = n.kind.Operator()
		m["left"] = n.left.ToMap()
		m["right"] = n.right.ToMap()
	}

	return m
}

// resultTypeName returns the Go type name of a value for log attributes.
func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}
