package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wildwinter/expression-parser/lang"
)

// Tokens prints the tokens of an expression, one "kind<TAB>text" per line.
type Tokens struct {
	Expr    []string `arg:"" help:"Expression to tokenize, or '-' to read it from stdin" name:"expr"`
	Lenient bool     `       help:"Skip characters that start no token instead of failing"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readExpression(ctx, t.Expr)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(src, lang.WithSkipUnmatched(t.Lenient))
	if err != nil {
		return lang.WrapError(err).With(slog.String("expr", src))
	}

	_, out := stdioFrom(ctx)

	for _, tok := range tokens {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", tok.Kind, tok.Text); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
