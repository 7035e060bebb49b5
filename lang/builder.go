package lang

import "fmt"

// NewBinary creates a binary operator node. It panics if kind is not a
// binary kind or an operand is nil.
func NewBinary(kind Kind, left, right *Node) *Node {
	if !kind.IsBinary() {
		panic(fmt.Sprintf("lang: %s is not a binary operator", kind))
	}

	if left == nil || right == nil {
		panic("lang: nil operand")
	}

	return &Node{
		kind:       kind,
		precedence: kind.Precedence(),
		left:       left,
		right:      right,
	}
}

// NewUnary creates a unary operator node. It panics if kind is not a unary
// kind or operand is nil.
func NewUnary(kind Kind, operand *Node) *Node {
	if !kind.IsUnary() {
		panic(fmt.Sprintf("lang: %s is not a unary operator", kind))
	}

	if operand == nil {
		panic("lang: nil operand")
	}

	return &Node{
		kind:       kind,
		precedence: kind.Precedence(),
		left:       operand,
	}
}

// NewBoolean creates a boolean literal.
func NewBoolean(v bool) *Node {
	return &Node{kind: KindBoolean, precedence: PrecedenceTerm, value: v}
}

// NewNumber creates a numeric literal.
func NewNumber(v float64) *Node {
	return &Node{kind: KindNumber, precedence: PrecedenceTerm, value: v}
}

// NewString creates a string literal. The value excludes quotes.
func NewString(v string) *Node {
	return &Node{kind: KindString, precedence: PrecedenceTerm, value: v}
}

// NewVariable creates a reference to a context variable.
func NewVariable(name string) *Node {
	return &Node{kind: KindVariable, precedence: PrecedenceTerm, name: name}
}

// NewFunctionCall creates a call of a context function. The args slice is
// copied.
func NewFunctionCall(name string, args ...*Node) *Node {
	for _, arg := range args {
		if arg == nil {
			panic("lang: nil argument")
		}
	}

	return &Node{
		kind:       KindFunctionCall,
		precedence: PrecedenceTerm,
		name:       name,
		args:       append([]*Node(nil), args...),
	}
}

// Convenience constructors for each operator.

func Or(l, r *Node) *Node          { return NewBinary(KindOr, l, r) }
func And(l, r *Node) *Node         { return NewBinary(KindAnd, l, r) }
func Equals(l, r *Node) *Node      { return NewBinary(KindEquals, l, r) }
func NotEquals(l, r *Node) *Node   { return NewBinary(KindNotEquals, l, r) }
func GreaterThan(l, r *Node) *Node { return NewBinary(KindGreaterThan, l, r) }
func LessThan(l, r *Node) *Node    { return NewBinary(KindLessThan, l, r) }
func Plus(l, r *Node) *Node        { return NewBinary(KindPlus, l, r) }
func Minus(l, r *Node) *Node       { return NewBinary(KindMinus, l, r) }
func Multiply(l, r *Node) *Node    { return NewBinary(KindMultiply, l, r) }
func Divide(l, r *Node) *Node      { return NewBinary(KindDivide, l, r) }
func Negative(n *Node) *Node       { return NewUnary(KindNegative, n) }
func Not(n *Node) *Node            { return NewUnary(KindNot, n) }

func GreaterThanEquals(l, r *Node) *Node {
	return NewBinary(KindGreaterThanEquals, l, r)
}

func LessThanEquals(l, r *Node) *Node {
	return NewBinary(KindLessThanEquals, l, r)
}
