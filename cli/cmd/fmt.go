package cmd

import (
	"context"
	"fmt"

	"github.com/wildwinter/expression-parser/lang"
)

// Fmt parses an expression and writes it back in canonical form.
type Fmt struct {
	Expr    []string `arg:"" help:"Expression to format, or '-' to read it from stdin" name:"expr"`
	Style   string   `       help:"String quoting style"                                             default:"single" enum:"single,escaped-single,double,escaped-double" short:"s"`
	Lenient bool     `       help:"Skip characters that start no token instead of failing"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	style, err := lang.ParseStyle(f.Style)
	if err != nil {
		return err
	}

	ast, err := parseExpression(ctx, f.Expr, f.Lenient)
	if err != nil {
		return err
	}

	_, out := stdioFrom(ctx)

	if _, err := fmt.Fprintln(out, ast.Write(style)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
