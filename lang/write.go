package lang

import (
	"fmt"
	"strings"
)

// Style selects how string literals are quoted when a tree is written.
// The zero value is [StyleSingleQuote].
type Style int

const (
	StyleSingleQuote        Style = iota // 'text'
	StyleEscapedSingleQuote              // \'text\'
	StyleDoubleQuote                     // "text"
	StyleEscapedDoubleQuote              // \"text\"
)

var styleNames = [...]string{
	StyleSingleQuote:        "single",
	StyleEscapedSingleQuote: "escaped-single",
	StyleDoubleQuote:        "double",
	StyleEscapedDoubleQuote: "escaped-double",
}

// Styles returns the names accepted by [ParseStyle], in declaration order.
func Styles() []string { return append([]string(nil), styleNames[:]...) }

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}

	return styleNames[s]
}

// quote returns the delimiter written on both sides of a string literal.
func (s Style) quote() string {
	switch s {
	case StyleEscapedSingleQuote:
		return `\'`

	case StyleDoubleQuote:
		return `"`

	case StyleEscapedDoubleQuote:
		return `\"`

	default:
		return `'`
	}
}

// ParseStyle returns the style with the given name.
func ParseStyle(name string) (Style, error) {
	for i, n := range styleNames {
		if strings.EqualFold(name, n) {
			return Style(i), nil
		}
	}

	return 0, fmt.Errorf("unknown quote style %q (want one of: %s)",
		name, strings.Join(styleNames[:], ", "))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Style) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}

	*s = v

	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (s Style) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Write renders the subtree rooted at n as canonical source text. Logical
// operators are always spelled "and", "or" and "not". A child is wrapped in
// parentheses only when its precedence is lower than its parent's.
//
// Operators of equal precedence are not parenthesized, so a right-nested
// chain does not round-trip: 1 - (2 - 3) is written 1 - 2 - 3, which
// parses left to right and evaluates to -4 rather than 2.
func (n *Node) Write(style Style) string {
	var sb strings.Builder

	n.write(&sb, style)

	return sb.String()
}

func (n *Node) write(sb *strings.Builder, style Style) {
	switch n.kind {
	case KindBoolean, KindNumber:
		sb.WriteString(display(n.value))

	case KindString:
		q := style.quote()
		sb.WriteString(q)
		sb.WriteString(display(n.value))
		sb.WriteString(q)

	case KindVariable:
		sb.WriteString(n.name)

	case KindFunctionCall:
		sb.WriteString(n.name)
		sb.WriteByte('(')

		for i, arg := range n.args {
			if i > 0 {
				sb.WriteString(", ")
			}

			arg.write(sb, style)
		}

		sb.WriteByte(')')

	case KindNegative, KindNot:
		sb.WriteString(n.kind.Operator())
		sb.WriteByte(' ')
		n.writeChild(sb, n.left, style)

	case KindOr, KindAnd,
		KindEquals, KindNotEquals,
		KindGreaterThan, KindLessThan,
		KindGreaterThanEquals, KindLessThanEquals,
		KindPlus, KindMinus, KindMultiply, KindDivide:
		n.writeChild(sb, n.left, style)
		sb.WriteByte(' ')
		sb.WriteString(n.kind.Operator())
		sb.WriteByte(' ')
		n.writeChild(sb, n.right, style)
	}
}

func (n *Node) writeChild(sb *strings.Builder, child *Node, style Style) {
	if child.precedence >= n.precedence {
		child.write(sb, style)

		return
	}

	sb.WriteByte('(')
	child.write(sb, style)
	sb.WriteByte(')')
}
