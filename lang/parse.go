package lang

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
)

// ParseReader parses an expression read from r.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*AST, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, WrapError(err)
	}

	return Parse(ctx, string(data), opts...)
}

// Parse tokenizes and parses src into an AST.
func Parse(ctx context.Context, src string, opts ...Option) (*AST, error) {
	ast := NewAST(nil, opts...)
	ast.Source = src

	ast.logger.TraceContext(ctx, "parse start",
		slog.Int("length", len(src)))

	tokens, err := Tokenize(src, ast.lexOpt...)
	if err != nil {
		ast.logger.TraceContext(ctx, "tokenize failed", slog.Any("error", err))

		return nil, err
	}

	root, err := ParseTokens(tokens)
	if err != nil {
		ast.logger.TraceContext(ctx, "parse failed",
			slog.Int("token_count", len(tokens)),
			slog.Any("error", err))

		return nil, err
	}

	ast.Root = root

	ast.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.String("root", root.Kind().String()))

	return ast, nil
}

// ParseTokens parses a complete token sequence into a tree. Every token must
// be consumed.
func ParseTokens(tokens []Token) (*Node, error) {
	if len(tokens) == 0 {
		return nil, ErrSyntax.Wrapf("empty token sequence")
	}

	p := &parser{tokens: tokens}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if !p.eof() {
		return nil, ErrSyntax.
			Wrapf("unexpected token '%s' at position %d", p.peek(), p.pos).
			With(slog.String("token", p.peek()), slog.Int("position", p.pos))
	}

	return node, nil
}

// parser holds the state of one parse. It is not reused.
type parser struct {
	tokens []Token
	pos    int
}

// Grammar, loosest binding first:
//
//	or      := and (("or"|"||") and)*
//	and     := compare (("and"|"&&") compare)*
//	compare := add (("=="|"="|"!="|">"|"<"|">="|"<=") add)*
//	add     := mul (("+"|"-") mul)*
//	mul     := unary (("*"|"/") unary)*
//	unary   := ("not"|"!") unary | "-" unary | term
//	term    := "(" or ")" | boolean | number | string
//	         | identifier [ "(" [or ("," or)*] ")" ]

var (
	orOps      = map[string]Kind{"or": KindOr, "||": KindOr}
	andOps     = map[string]Kind{"and": KindAnd, "&&": KindAnd}
	compareOps = map[string]Kind{
		"==": KindEquals,
		"=":  KindEquals,
		"!=": KindNotEquals,
		">":  KindGreaterThan,
		"<":  KindLessThan,
		">=": KindGreaterThanEquals,
		"<=": KindLessThanEquals,
	}
	addOps = map[string]Kind{"+": KindPlus, "-": KindMinus}
	mulOps = map[string]Kind{"*": KindMultiply, "/": KindDivide}
)

func (p *parser) parseOr() (*Node, error) {
	return p.parseBinary(orOps, (*parser).parseAnd)
}

func (p *parser) parseAnd() (*Node, error) {
	return p.parseBinary(andOps, (*parser).parseCompare)
}

func (p *parser) parseCompare() (*Node, error) {
	return p.parseBinary(compareOps, (*parser).parseAdd)
}

func (p *parser) parseAdd() (*Node, error) {
	return p.parseBinary(addOps, (*parser).parseMul)
}

func (p *parser) parseMul() (*Node, error) {
	return p.parseBinary(mulOps, (*parser).parseUnary)
}

// parseBinary parses one left-associative precedence level.
func (p *parser) parseBinary(
	ops map[string]Kind,
	next func(*parser) (*Node, error),
) (*Node, error) {
	node, err := next(p)
	if err != nil {
		return nil, err
	}

	for {
		kind, ok := p.matchOperator(ops)
		if !ok {
			return node, nil
		}

		right, err := next(p)
		if err != nil {
			return nil, err
		}

		node = NewBinary(kind, node, right)
	}
}

func (p *parser) parseUnary() (*Node, error) {
	var kind Kind

	switch {
	case p.match("not", "!"):
		kind = KindNot

	case p.match("-"):
		kind = KindNegative

	default:
		return p.parseTerm()
	}

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return NewUnary(kind, operand), nil
}

func (p *parser) parseTerm() (*Node, error) {
	if p.eof() {
		return nil, ErrSyntax.Wrapf("unexpected end of expression").
			With(slog.Int("position", p.pos))
	}

	tok := p.tokens[p.pos]

	switch {
	case tok.Text == "(" && tok.Kind == TokenPunctuation:
		p.advance()

		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		if err := p.consume(")"); err != nil {
			return nil, err
		}

		return node, nil

	case tok.Text == "true" || tok.Text == "True":
		p.advance()

		return NewBoolean(true), nil

	case tok.Text == "false" || tok.Text == "False":
		p.advance()

		return NewBoolean(false), nil

	case isNumberText(tok.Text):
		p.advance()

		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, ErrSyntax.Wrap(err).With(slog.String("token", tok.Text))
		}

		return NewNumber(f), nil

	case isQuoted(tok.Text):
		p.advance()

		return NewString(tok.Text[1 : len(tok.Text)-1]), nil

	case tok.Kind == TokenIdentifier || (tok.Kind != TokenLogical && isIdentifierText(tok.Text)):
		p.advance()

		if !p.match("(") {
			return NewVariable(tok.Text), nil
		}

		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}

		return NewFunctionCall(tok.Text, args...), nil

	default:
		return nil, ErrSyntax.
			Wrapf("unexpected token: %s", tok.Text).
			With(slog.String("token", tok.Text), slog.Int("position", p.pos))
	}
}

// parseArgs parses a call's argument list after its opening parenthesis.
func (p *parser) parseArgs() ([]*Node, error) {
	var args []*Node

	if p.match(")") {
		return args, nil
	}

	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if !p.match(",") {
			break
		}
	}

	if err := p.consume(")"); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *parser) eof() bool { return p.pos >= len(p.tokens) }

// peek returns the text of the current token, or "" at the end.
func (p *parser) peek() string {
	if p.eof() {
		return ""
	}

	return p.tokens[p.pos].Text
}

func (p *parser) advance() {
	if !p.eof() {
		p.pos++
	}
}

// match consumes the current token if its text is one of texts.
// String literals never match, so a quoted "and" stays a string.
func (p *parser) match(texts ...string) bool {
	if p.eof() || p.tokens[p.pos].Kind == TokenString {
		return false
	}

	if !slices.Contains(texts, p.tokens[p.pos].Text) {
		return false
	}

	p.pos++

	return true
}

// matchOperator consumes the current token if it is a key of ops.
func (p *parser) matchOperator(ops map[string]Kind) (Kind, bool) {
	if p.eof() || p.tokens[p.pos].Kind == TokenString {
		return 0, false
	}

	kind, ok := ops[p.tokens[p.pos].Text]
	if ok {
		p.pos++
	}

	return kind, ok
}

func (p *parser) consume(text string) error {
	if p.match(text) {
		return nil
	}

	if p.eof() {
		return ErrSyntax.
			Wrapf("expected '%s' but expression ended", text).
			With(slog.String("expected", text))
	}

	return ErrSyntax.
		Wrapf("expected '%s' but found '%s'", text, p.peek()).
		With(
			slog.String("expected", text),
			slog.String("found", p.peek()),
			slog.Int("position", p.pos),
		)
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}

	q := s[0]

	return (q == '"' || q == '\'') && s[len(s)-1] == q
}
