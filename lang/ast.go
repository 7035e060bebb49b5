package lang

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/wildwinter/expression-parser/log"
)

// Kind identifies the variant of a [Node]. The set is closed: every switch
// over Kind in this package is exhaustive.
type Kind int

const (
	KindOr Kind = iota
	KindAnd
	KindEquals
	KindNotEquals
	KindGreaterThan
	KindLessThan
	KindGreaterThanEquals
	KindLessThanEquals
	KindPlus
	KindMinus
	KindMultiply
	KindDivide
	KindNegative
	KindNot
	KindBoolean
	KindNumber
	KindString
	KindVariable
	KindFunctionCall

	kindCount
)

// Operator precedence. Only the writer consults it, to decide where
// parentheses are required.
const (
	PrecedenceOr       = 40
	PrecedenceAnd      = 50
	PrecedenceCompare  = 60
	PrecedenceAdditive = 70
	PrecedenceMultiply = 80
	PrecedenceDivide   = 85
	PrecedenceUnary    = 90
	PrecedenceTerm     = 100
)

var kindInfo = [kindCount]struct {
	name       string
	operator   string
	precedence int
}{
	KindOr:                {"Or", "or", PrecedenceOr},
	KindAnd:               {"And", "and", PrecedenceAnd},
	KindEquals:            {"Equals", "==", PrecedenceCompare},
	KindNotEquals:         {"NotEquals", "!=", PrecedenceCompare},
	KindGreaterThan:       {"GreaterThan", ">", PrecedenceCompare},
	KindLessThan:          {"LessThan", "<", PrecedenceCompare},
	KindGreaterThanEquals: {"GreaterThanEquals", ">=", PrecedenceCompare},
	KindLessThanEquals:    {"LessThanEquals", "<=", PrecedenceCompare},
	KindPlus:              {"Plus", "+", PrecedenceAdditive},
	KindMinus:             {"Minus", "-", PrecedenceAdditive},
	KindMultiply:          {"Multiply", "*", PrecedenceMultiply},
	KindDivide:            {"Divide", "/", PrecedenceDivide},
	KindNegative:          {"Negative", "-", PrecedenceUnary},
	KindNot:               {"Not", "not", PrecedenceUnary},
	KindBoolean:           {"Boolean", "", PrecedenceTerm},
	KindNumber:            {"Number", "", PrecedenceTerm},
	KindString:            {"String", "", PrecedenceTerm},
	KindVariable:          {"Variable", "", PrecedenceTerm},
	KindFunctionCall:      {"FunctionCall", "", PrecedenceTerm},
}

func (k Kind) valid() bool { return k >= 0 && k < kindCount }

// String returns the name of the node kind as used in structure dumps.
func (k Kind) String() string {
	if !k.valid() {
		return "Unknown"
	}

	return kindInfo[k].name
}

// Operator returns the canonical operator text for binary and unary kinds,
// or "" for terms.
func (k Kind) Operator() string {
	if !k.valid() {
		return ""
	}

	return kindInfo[k].operator
}

// Precedence returns the fixed precedence of the kind.
func (k Kind) Precedence() int {
	if !k.valid() {
		return 0
	}

	return kindInfo[k].precedence
}

// IsBinary reports whether k is a binary operator.
func (k Kind) IsBinary() bool { return k >= KindOr && k <= KindDivide }

// IsUnary reports whether k is a unary operator.
func (k Kind) IsUnary() bool { return k == KindNegative || k == KindNot }

// Node is one node of an expression tree. Nodes are created by the
// constructors in this package and never modified afterwards, so a tree may
// be evaluated and written concurrently.
type Node struct {
	kind       Kind
	precedence int

	left  *Node // binary left operand, unary operand
	right *Node // binary right operand

	value any    // literal scalar: bool, float64 or string
	name  string // variable or function name
	args  []*Node
}

// Kind returns the variant of n.
func (n *Node) Kind() Kind { return n.kind }

// Precedence returns the precedence fixed when n was constructed.
func (n *Node) Precedence() int { return n.precedence }

// Left returns the left operand of a binary node, or nil.
func (n *Node) Left() *Node {
	if !n.kind.IsBinary() {
		return nil
	}

	return n.left
}

// Right returns the right operand of a binary node, or nil.
func (n *Node) Right() *Node { return n.right }

// Operand returns the operand of a unary node, or nil.
func (n *Node) Operand() *Node {
	if !n.kind.IsUnary() {
		return nil
	}

	return n.left
}

// Value returns the scalar stored in a literal node, or nil.
func (n *Node) Value() any { return n.value }

// Name returns the name of a variable or function call node.
func (n *Node) Name() string { return n.name }

// Args returns the arguments of a function call node.
func (n *Node) Args() []*Node {
	return append([]*Node(nil), n.args...)
}

// Children returns an iterator over the direct children of n in evaluation
// order.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		switch {
		case n.kind.IsBinary():
			if !yield(n.left) {
				return
			}

			yield(n.right)

		case n.kind.IsUnary():
			yield(n.left)

		case n.kind == KindFunctionCall:
			for _, arg := range n.args {
				if !yield(arg) {
					return
				}
			}
		}
	}
}

// Print writes the structure dump of n to w, one node per line, each line
// indented by two spaces per level starting at indent.
func (n *Node) Print(w io.Writer, indent int) error {
	_, err := io.WriteString(w, strings.Repeat("  ", indent)+n.label()+"\n")
	if err != nil {
		return err
	}

	for child := range n.Children() {
		if err := child.Print(w, indent+1); err != nil {
			return err
		}
	}

	return nil
}

// Dump returns the structure dump of n.
func (n *Node) Dump() string {
	var sb strings.Builder

	_ = n.Print(&sb, 0)

	return sb.String()
}

// label returns the one-line structure dump text of n.
func (n *Node) label() string {
	switch n.kind {
	case KindBoolean, KindNumber, KindString:
		return n.kind.String() + "(" + display(n.value) + ")"

	case KindVariable, KindFunctionCall:
		return n.kind.String() + "(" + n.name + ")"

	case KindOr, KindAnd,
		KindEquals, KindNotEquals,
		KindGreaterThan, KindLessThan,
		KindGreaterThanEquals, KindLessThanEquals,
		KindPlus, KindMinus, KindMultiply, KindDivide,
		KindNegative, KindNot:
		return n.kind.String()

	default:
		return "Unknown"
	}
}

// AST is a parsed expression: the tree root together with its source text and
// the logger used while parsing and evaluating it.
type AST struct {
	Root   *Node
	Source string
	logger log.Logger
	lexOpt []TokenizeOption
}

// Option configures parsing and evaluation of an AST.
type Option func(*AST)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(ast *AST) {
		ast.logger = logger
	}
}

// WithTokenizer passes options through to [Tokenize].
func WithTokenizer(opts ...TokenizeOption) Option {
	return func(ast *AST) {
		ast.lexOpt = append(ast.lexOpt, opts...)
	}
}

var errNoRoot = ErrSyntax.Wrapf("expression has no root node")

// NewAST wraps an existing tree, for example one made with the node
// constructors, so it can be used wherever a parsed AST is expected.
// A nil root is a syntax error when evaluated or printed, writes as the
// empty string, and walks no nodes.
func NewAST(root *Node, opts ...Option) *AST {
	ast := &AST{Root: root}
	for _, opt := range opts {
		opt(ast)
	}

	return ast
}

// Print writes the structure dump of the tree to w.
func (ast *AST) Print(ctx context.Context, w io.Writer) error {
	if ast.Root == nil {
		return errNoRoot
	}

	ast.logger.TraceContext(ctx, "print structure",
		slog.String("root", ast.Root.Kind().String()))

	return ast.Root.Print(w, 0)
}

// Write renders the tree as source text in the given quoting style.
func (ast *AST) Write(style Style) string {
	if ast.Root == nil {
		return ""
	}

	return ast.Root.Write(style)
}

// Walk returns an iterator over all nodes of the tree in depth-first
// pre-order.
func (ast *AST) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if ast.Root == nil {
			return
		}

		walk(ast.Root, yield)
	}
}

func walk(n *Node, yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}

	for child := range n.Children() {
		if !walk(child, yield) {
			return false
		}
	}

	return true
}
