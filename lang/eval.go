package lang

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Trace collects one human-readable line per evaluated node, children before
// their parent. A nil *Trace records nothing.
type Trace []string

func (t *Trace) add(format string, args ...any) {
	if t == nil {
		return
	}

	*t = append(*t, fmt.Sprintf(format, args...))
}

// String returns the trace lines joined by newlines.
func (t Trace) String() string { return strings.Join(t, "\n") }

// Evaluate computes the value of the tree against env. If trace is not nil,
// each evaluated node appends a line to it.
func (ast *AST) Evaluate(
	ctx context.Context,
	env Context,
	trace *Trace,
) (any, error) {
	if ast.Root == nil {
		return nil, errNoRoot
	}

	ast.logger.TraceContext(ctx, "evaluate start",
		slog.String("root", ast.Root.Kind().String()))

	result, err := ast.Root.Evaluate(env, trace)
	if err != nil {
		ast.logger.TraceContext(ctx, "evaluate failed", slog.Any("error", err))

		return nil, err
	}

	ast.logger.TraceContext(ctx, "evaluate complete",
		slog.String("result", display(result)),
		slog.String("result_type", resultTypeName(result)))

	return result, nil
}

// Evaluate computes the value of the subtree rooted at n against env. The
// result is a bool, float64 or string.
//
// Every operand is evaluated, left to right, before its operator is applied;
// "and" and "or" do not short-circuit.
func (n *Node) Evaluate(env Context, trace *Trace) (any, error) {
	if env == nil {
		env = Env(nil)
	}

	ec := &evalContext{env: env, trace: trace}

	return ec.evaluate(n)
}

// evalContext holds the state shared by one evaluation.
type evalContext struct {
	env   Context
	trace *Trace
}

func (ec *evalContext) evaluate(n *Node) (any, error) {
	switch n.kind {
	case KindBoolean:
		ec.trace.add("Boolean: %s", display(n.value))

		return n.value, nil

	case KindNumber:
		ec.trace.add("Number: %s", display(n.value))

		return n.value, nil

	case KindString:
		ec.trace.add("String: %s", display(n.value))

		return n.value, nil

	case KindVariable:
		return ec.evaluateVariable(n)

	case KindFunctionCall:
		return ec.evaluateCall(n)

	case KindNegative, KindNot:
		return ec.evaluateUnary(n)

	case KindOr, KindAnd,
		KindEquals, KindNotEquals,
		KindGreaterThan, KindLessThan,
		KindGreaterThanEquals, KindLessThanEquals,
		KindPlus, KindMinus, KindMultiply, KindDivide:
		return ec.evaluateBinary(n)

	default:
		return nil, ErrType.Wrapf("invalid node kind %d", int(n.kind))
	}
}

func (ec *evalContext) evaluateBinary(n *Node) (any, error) {
	left, err := ec.evaluate(n.left)
	if err != nil {
		return nil, err
	}

	right, err := ec.evaluate(n.right)
	if err != nil {
		return nil, err
	}

	result, err := applyBinary(n.kind, left, right)
	if err != nil {
		return nil, err
	}

	ec.trace.add("Evaluated: %s %s %s = %s",
		display(left), n.kind.Operator(), display(right), display(result))

	return result, nil
}

func (ec *evalContext) evaluateUnary(n *Node) (any, error) {
	operand, err := ec.evaluate(n.left)
	if err != nil {
		return nil, err
	}

	result, err := applyUnary(n.kind, operand)
	if err != nil {
		return nil, err
	}

	ec.trace.add("Evaluated: %s %s = %s",
		n.kind.Operator(), display(operand), display(result))

	return result, nil
}

func (ec *evalContext) evaluateVariable(n *Node) (any, error) {
	raw, ok := ec.env.Lookup(n.name)
	if !ok {
		return nil, ErrReference.
			Wrapf("variable '%s' not found in context", n.name).
			With(slog.String("variable", n.name))
	}

	value, ok := Scalar(raw)
	if !ok {
		return nil, ErrType.
			Wrapf("variable '%s' must return bool, string, or numeric", n.name).
			With(
				slog.String("variable", n.name),
				slog.String("type", resultTypeName(raw)),
			)
	}

	ec.trace.add("Fetching variable: %s -> %s", n.name, display(value))

	return value, nil
}

func (ec *evalContext) evaluateCall(n *Node) (any, error) {
	raw, ok := ec.env.Lookup(n.name)
	if !ok {
		return nil, ErrReference.
			Wrapf("function '%s' not found in context", n.name).
			With(slog.String("function", n.name))
	}

	fn, err := resolveFunction(n.name, raw)
	if err != nil {
		return nil, err
	}

	args := make([]any, len(n.args))

	for i, arg := range n.args {
		v, err := ec.evaluate(arg)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	if err := checkArity(n.name, fn, args); err != nil {
		return nil, err
	}

	out, err := fn.Call(args)
	if err != nil {
		var le *Error
		if !errors.As(err, &le) || le.kind == nil {
			le = ErrType.Wrap(err)
		}

		return nil, le.With(slog.String("function", n.name))
	}

	result, ok := Scalar(out)
	if !ok {
		return nil, ErrType.
			Wrapf("function '%s' must return bool, string, or numeric", n.name).
			With(
				slog.String("function", n.name),
				slog.String("type", resultTypeName(out)),
			)
	}

	ec.trace.add("Calling function: %s(%s) = %s",
		n.name, formatArgs(args), display(result))

	return result, nil
}

func applyBinary(kind Kind, left, right any) (any, error) {
	switch kind {
	case KindOr, KindAnd:
		l, err := ToBool(left)
		if err != nil {
			return nil, err
		}

		r, err := ToBool(right)
		if err != nil {
			return nil, err
		}

		if kind == KindOr {
			return l || r, nil
		}

		return l && r, nil

	case KindEquals, KindNotEquals:
		r, err := matchType(left, right)
		if err != nil {
			return nil, err
		}

		if kind == KindEquals {
			return left == r, nil
		}

		return left != r, nil

	case KindDivide:
		r, err := ToNumber(right)
		if err != nil {
			return nil, err
		}

		if r == 0 {
			return nil, ErrArithmetic.Wrapf("division by zero").
				With(slog.String("dividend", display(left)))
		}

		l, err := ToNumber(left)
		if err != nil {
			return nil, err
		}

		return l / r, nil

	case KindGreaterThan, KindLessThan,
		KindGreaterThanEquals, KindLessThanEquals,
		KindPlus, KindMinus, KindMultiply:
		l, err := ToNumber(left)
		if err != nil {
			return nil, err
		}

		r, err := ToNumber(right)
		if err != nil {
			return nil, err
		}

		return applyNumeric(kind, l, r), nil

	default:
		return nil, ErrType.Wrapf("%s is not a binary operator", kind)
	}
}

func applyNumeric(kind Kind, l, r float64) any {
	switch kind {
	case KindGreaterThan:
		return l > r

	case KindLessThan:
		return l < r

	case KindGreaterThanEquals:
		return l >= r

	case KindLessThanEquals:
		return l <= r

	case KindPlus:
		return l + r

	case KindMinus:
		return l - r

	default:
		return l * r
	}
}

func applyUnary(kind Kind, operand any) (any, error) {
	switch kind {
	case KindNegative:
		v, err := ToNumber(operand)
		if err != nil {
			return nil, err
		}

		return -v, nil

	case KindNot:
		v, err := ToBool(operand)
		if err != nil {
			return nil, err
		}

		return !v, nil

	default:
		return nil, ErrType.Wrapf("%s is not a unary operator", kind)
	}
}

// formatArgs renders call arguments as a JSON array.
func formatArgs(args []any) string {
	data, err := json.Marshal(args)
	if err != nil {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = display(arg)
		}

		return "[" + strings.Join(parts, ",") + "]"
	}

	return string(data)
}
