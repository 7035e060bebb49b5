package lang

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzTokenize checks that the tokenizer never panics and that every token
// it returns is non-empty.
func FuzzTokenize(f *testing.F) {
	f.Add("a>=b")
	f.Add("'unterminated")
	f.Add("x && !y || z")
	f.Add("-12.5 * (3 - -4)")
	f.Add("f(1, 'two', \"three\")")
	f.Add("#$%")
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		for _, skip := range []bool{false, true} {
			tokens, err := Tokenize(input, WithSkipUnmatched(skip))
			if err != nil {
				if !errors.Is(err, ErrSyntax) {
					t.Errorf("Tokenize(%q) returned non-syntax error: %v", input, err)
				}

				continue
			}

			for i, tok := range tokens {
				if tok.Text == "" {
					t.Errorf("Tokenize(%q) token %d is empty", input, i)
				}
			}
		}
	})
}

// FuzzParse checks that parsing, writing and evaluating never panic, and that
// every failure carries one of the error kinds.
func FuzzParse(f *testing.F) {
	f.Add("1+2*3")
	f.Add("(1+2")
	f.Add("get_name()=='fred' and counter>0 and 5/5.0!=0")
	f.Add("not not not x")
	f.Add("f(g(h(1)), -2)")
	f.Add("1 / 0")
	f.Add(")(")

	env := testEnv()

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		ast, err := Parse(t.Context(), input)
		if err != nil {
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Parse(%q) returned non-syntax error: %v", input, err)
			}

			return
		}

		_ = ast.Write(StyleDoubleQuote)
		_ = ast.Root.Dump()

		if _, err := ast.Evaluate(t.Context(), env, nil); err != nil {
			if !errors.Is(err, ErrReference) &&
				!errors.Is(err, ErrType) &&
				!errors.Is(err, ErrArithmetic) {
				t.Errorf("Evaluate(%q) returned unclassified error: %v", input, err)
			}
		}
	})
}
