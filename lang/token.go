package lang

import (
	"log/slog"
	"strings"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	// TokenOperator is a comparison or arithmetic operator.
	TokenOperator TokenKind = iota

	// TokenPunctuation is a parenthesis or argument separator.
	TokenPunctuation

	// TokenLogical is a logical keyword or symbol (and, &&, or, ||, not, !).
	TokenLogical

	// TokenIdentifier names a variable or function.
	TokenIdentifier

	// TokenNumber is a numeric literal.
	TokenNumber

	// TokenString is a quoted string literal, quotes included.
	TokenString

	// TokenBoolean is one of true, True, false, False.
	TokenBoolean
)

// String returns the name of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenOperator:
		return "operator"

	case TokenPunctuation:
		return "punctuation"

	case TokenLogical:
		return "logical"

	case TokenIdentifier:
		return "identifier"

	case TokenNumber:
		return "number"

	case TokenString:
		return "string"

	case TokenBoolean:
		return "boolean"

	default:
		return "unknown"
	}
}

// Token is one unit of lexical text. Its position is its index in the
// sequence returned by [Tokenize].
type Token struct {
	Kind TokenKind
	Text string
}

// String returns the token text.
func (t Token) String() string { return t.Text }

// TokenizeOption configures [Tokenize].
type TokenizeOption func(*tokenizer)

// WithSkipUnmatched makes the tokenizer drop characters that start no token
// instead of failing. Unterminated string quotes are dropped the same way.
func WithSkipUnmatched(skip bool) TokenizeOption {
	return func(t *tokenizer) {
		t.skipUnmatched = skip
	}
}

// Tokenize splits src into tokens. Alternatives are tried in priority order:
// two-character comparisons, single-character operators and punctuation,
// logical symbols, words (identifiers, logical and boolean keywords), numbers
// and quoted strings. Whitespace between tokens is discarded.
//
// Tokenize fails with [ErrSyntax] if src contains no tokens, or if a
// character starts no token and [WithSkipUnmatched] is not set.
func Tokenize(src string, opts ...TokenizeOption) ([]Token, error) {
	t := &tokenizer{src: src}
	for _, opt := range opts {
		opt(t)
	}

	return t.run()
}

type tokenizer struct {
	src           string
	pos           int
	tokens        []Token
	skipUnmatched bool
}

var (
	pairOperators   = []string{">=", "<=", "==", "!="}
	pairLogicals    = []string{"&&", "||"}
	logicalKeywords = map[string]bool{"and": true, "or": true, "not": true}
	booleanKeywords = map[string]bool{
		"true": true, "True": true, "false": true, "False": true,
	}
)

func (t *tokenizer) run() ([]Token, error) {
	for {
		t.skipSpace()

		if t.pos >= len(t.src) {
			break
		}

		if t.scan() {
			continue
		}

		if !t.skipUnmatched {
			return nil, ErrSyntax.
				Wrapf("unexpected character %q at offset %d", t.src[t.pos], t.pos).
				With(slog.Int("offset", t.pos))
		}

		t.pos++
	}

	if len(t.tokens) == 0 {
		return nil, ErrSyntax.
			Wrapf("no tokens were recognized in expression: '%s'", t.src).
			With(slog.String("expression", t.src))
	}

	return t.tokens, nil
}

// scan appends the token starting at the current position, if any.
func (t *tokenizer) scan() bool {
	rest := t.src[t.pos:]

	for _, op := range pairOperators {
		if strings.HasPrefix(rest, op) {
			return t.emit(TokenOperator, len(op))
		}
	}

	switch c := rest[0]; c {
	case '=', '>', '<', '+', '-', '/', '*':
		return t.emit(TokenOperator, 1)

	case '(', ')', ',':
		return t.emit(TokenPunctuation, 1)

	case '!':
		return t.emit(TokenLogical, 1)

	case '"', '\'':
		end := strings.IndexByte(rest[1:], c)
		if end < 0 {
			return false
		}

		return t.emit(TokenString, end+2)
	}

	for _, op := range pairLogicals {
		if strings.HasPrefix(rest, op) {
			return t.emit(TokenLogical, len(op))
		}
	}

	if isWordStart(rest[0]) {
		n := 1
		for n < len(rest) && isWordPart(rest[n]) {
			n++
		}

		switch word := rest[:n]; {
		case logicalKeywords[word]:
			return t.emit(TokenLogical, n)

		case booleanKeywords[word]:
			return t.emit(TokenBoolean, n)

		default:
			return t.emit(TokenIdentifier, n)
		}
	}

	if n := numberLength(rest); n > 0 {
		return t.emit(TokenNumber, n)
	}

	return false
}

func (t *tokenizer) emit(kind TokenKind, n int) bool {
	t.tokens = append(t.tokens, Token{Kind: kind, Text: t.src[t.pos : t.pos+n]})
	t.pos += n

	return true
}

func (t *tokenizer) skipSpace() {
	for t.pos < len(t.src) && isSpace(t.src[t.pos]) {
		t.pos++
	}
}

// numberLength returns the length of the numeric literal -?\d+(\.\d+)? at
// the start of s, or 0.
func numberLength(s string) int {
	n := 0
	if n < len(s) && s[n] == '-' {
		n++
	}

	digits := countDigits(s[n:])
	if digits == 0 {
		return 0
	}

	n += digits

	if n < len(s) && s[n] == '.' {
		if frac := countDigits(s[n+1:]); frac > 0 {
			n += 1 + frac
		}
	}

	return n
}

// isNumberText reports whether s is exactly one numeric literal.
func isNumberText(s string) bool {
	return s != "" && numberLength(s) == len(s)
}

// isIdentifierText reports whether s is exactly one identifier.
func isIdentifierText(s string) bool {
	if s == "" || !isWordStart(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isWordPart(s[i]) {
			return false
		}
	}

	return true
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}

	return n
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool { return isWordStart(c) || isDigit(c) }
