package repl

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/wildwinter/expression-parser/binding"
	"github.com/wildwinter/expression-parser/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string
	argIndex int // 0-based
	inCall   bool
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// detectFunctionCall finds the innermost unclosed call before cursor and the
// index of the argument being typed. Parentheses and commas inside string
// literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Offsets of unclosed '(' and the commas seen at each depth.
	var (
		open   []int
		commas []int
		quote  byte
	)

	for i := 0; i < cursor; i++ {
		c := input[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}

		case c == '\'' || c == '"':
			quote = c

		case c == '(':
			open = append(open, i)
			commas = append(commas, 0)

		case c == ')' && len(open) > 0:
			open = open[:len(open)-1]
			commas = commas[:len(commas)-1]

		case c == ',' && len(commas) > 0:
			commas[len(commas)-1]++
		}
	}

	if len(open) == 0 {
		return functionCall{}
	}

	paren := open[len(open)-1]
	start := paren

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isNameRune(r) {
			break
		}

		start -= size
	}

	name := input[start:paren]
	if name == "" {
		return functionCall{}
	}

	return functionCall{
		name:     name,
		argIndex: commas[len(commas)-1],
		inCall:   true,
	}
}

// getSignature returns the signature of the function called name and its
// parameter labels, looking in bindings before builtins. It returns "" if
// name is not a function.
func getSignature(
	bindings *binding.Bindings,
	builtins lang.Env,
	name string,
) (signature string, params []string) {
	if sig, ok := bindings.Signature(name); ok {
		open := strings.IndexByte(sig, '(')
		if open < 0 || !strings.HasSuffix(sig, ")") {
			return "", nil // a variable
		}

		if inner := sig[open+1 : len(sig)-1]; inner != "" {
			params = strings.Split(inner, ", ")
		}

		return sig, params
	}

	fn, ok := builtins[name]
	if !ok {
		return "", nil
	}

	return reflectSignature(name, fn)
}

// reflectSignature describes a Go func by its parameter types.
func reflectSignature(name string, fn any) (string, []string) {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return "", nil
	}

	params := make([]string, t.NumIn())

	for i := range params {
		pt := t.In(i)

		if t.IsVariadic() && i == len(params)-1 {
			params[i] = "..." + typeLabel(pt.Elem())
		} else {
			params[i] = typeLabel(pt)
		}
	}

	return name + "(" + strings.Join(params, ", ") + ")", params
}

// typeLabel names a parameter type the way the expression language sees it.
func typeLabel(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"

	case reflect.Bool:
		return "bool"

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"

	default:
		return "any"
	}
}

// renderSignatureHint renders signature with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted for all further
// arguments.
func renderSignatureHint(signature string, params []string, argIndex int) string {
	open := strings.IndexByte(signature, '(')
	if open < 0 {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(signature[:open]))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")

		if argIndex == i || variadic && argIndex > i {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
