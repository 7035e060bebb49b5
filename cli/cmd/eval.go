package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wildwinter/expression-parser/lang"
	"github.com/wildwinter/expression-parser/log"
)

// Eval evaluates an expression against the loaded bindings.
type Eval struct {
	Expr    []string `arg:"" help:"Expression to evaluate, or '-' to read it from stdin" name:"expr"`
	Trace   bool     `       help:"Print each evaluation step before the result"                     short:"t"`
	Lenient bool     `       help:"Skip characters that start no token instead of failing"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, err := parseExpression(ctx, e.Expr, e.Lenient)
	if err != nil {
		return err
	}

	bindings, err := loadBindings(ctx)
	if err != nil {
		return err
	}

	var trace *lang.Trace
	if e.Trace {
		trace = new(lang.Trace)
	}

	result, err := ast.Evaluate(ctx, bindings.Context(), trace)

	_, out := stdioFrom(ctx)

	if trace != nil {
		for _, line := range *trace {
			if _, werr := fmt.Fprintln(out, line); werr != nil {
				return ErrWriteOutput.Wrap(werr)
			}
		}
	}

	if err != nil {
		return lang.WrapError(err).
			With(
				slog.String("command", "eval"),
				slog.String("expr", ast.Source),
			)
	}

	if _, err := fmt.Fprintln(out, lang.FormatResult(result)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// parseExpression reads the expression given by args and parses it.
func parseExpression(
	ctx context.Context,
	args []string,
	lenient bool,
) (*lang.AST, error) {
	src, err := readExpression(ctx, args)
	if err != nil {
		return nil, err
	}

	if src == "" {
		return nil, ErrNoExpression
	}

	ast, err := lang.Parse(ctx, src,
		lang.WithLogger(log.Default()),
		lang.WithTokenizer(lang.WithSkipUnmatched(lenient)),
	)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("expr", src))
	}

	return ast, nil
}
