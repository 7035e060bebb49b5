// Package lang implements a small expression language for conditions and
// computed values: boolean logic, comparisons, arithmetic, string literals,
// and references to variables and functions supplied by the host.
//
// # Pipeline
//
// Source text flows through three stages:
//
//	Tokenize → ParseTokens → *Node
//
// [Parse] runs the first two and returns an [AST]. The tree is immutable and
// has two independent consumers: [Node.Evaluate] computes a scalar against a
// [Context], and [Node.Write] renders canonical source text.
//
// # Grammar
//
// Operators, loosest binding first. Every binary level is left-associative.
//
//	or, ||
//	and, &&
//	== = != > < >= <=
//	+ -
//	* /
//	not, !, unary -
//
// Terms are parenthesized expressions, the booleans true/True/false/False,
// decimal numbers, single- or double-quoted strings (no escapes), variables,
// and function calls written name(arg, ...).
//
// # Values
//
// Evaluation produces one of three scalar types: bool, float64 or string.
// Operators coerce their operands: logical operators use [ToBool], ordering
// and arithmetic use [ToNumber], and equality coerces the right operand to
// the type of the left. Both operands are always evaluated.
//
// # Example
//
//	ast, err := lang.Parse(ctx, `get_name() == 'fred' and counter > 0`)
//	if err != nil {
//		return err
//	}
//
//	env := lang.Env{
//		"get_name": func() string { return "fred" },
//		"counter":  1,
//	}
//
//	result, err := ast.Evaluate(ctx, env, nil) // true
//
// # Errors
//
// Every error wraps one of [ErrSyntax], [ErrReference], [ErrType] or
// [ErrArithmetic], so callers classify failures with [errors.Is].
package lang
