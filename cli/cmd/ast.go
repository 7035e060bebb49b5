package cmd

import (
	"context"
	"log/slog"
)

// AST prints the parsed tree of an expression.
type AST struct {
	Expr    []string `arg:"" help:"Expression to parse, or '-' to read it from stdin" name:"expr"`
	Format  string   `       help:"Output format"                                           default:"native" enum:"native,json,yaml" short:"o"`
	Indent  int      `       help:"Indent width for JSON and YAML output"                    default:"2"                               short:"i"`
	Lenient bool     `       help:"Skip characters that start no token instead of failing"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, err := parseExpression(ctx, a.Expr, a.Lenient)
	if err != nil {
		return err
	}

	_, out := stdioFrom(ctx)

	switch a.Format {
	case "json":
		err = ast.FormatJSON(ctx, out, a.Indent)

	case "yaml":
		err = ast.FormatYAML(ctx, out, a.Indent)

	default:
		err = ast.Print(ctx, out)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", a.Format))
	}

	return nil
}
