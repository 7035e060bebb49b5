package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/wildwinter/expression-parser/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "set", "trace", "style", "ast", "clear", "edit", "quit",
}

// keywords are completed in eval mode alongside context names.
var keywords = []string{"and", "or", "not", "true", "false"}

// isWordBoundary reports whether r separates completion words: whitespace,
// operators, punctuation and quotes.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', ',',
		'+', '-', '*', '/',
		'<', '>', '=', '!',
		'&', '|', '\'', '"':
		return true
	}

	return false
}

// wordBounds returns the word containing the cursor and its byte offsets.
// The word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// insideString reports whether offset falls inside a quoted string literal.
func insideString(input string, offset int) bool {
	var quote byte

	for i := 0; i < offset && i < len(input); i++ {
		switch c := input[i]; {
		case quote == 0 && (c == '\'' || c == '"'):
			quote = c

		case c == quote:
			quote = 0
		}
	}

	return quote != 0
}

// evalCandidates returns the names completed in eval mode.
func (m model) evalCandidates() []string {
	names := slices.Concat(m.bindings.Names(), m.builtins.Names(), keywords)
	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches calculates the fuzzy matches for the word at the cursor.
// No completions are offered for an empty word or inside string literals.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.cursor())
	if word == "" || insideString(input, wordStart) {
		return nil, wordStart, wordEnd
	}

	candidates := ctrlCommands
	if m.mode == modeEval {
		candidates = m.evalCandidates()
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// width. The selected candidate (when tabbing) is highlighted.
func (m model) renderCandidateBar() string {
	if len(m.matches) == 0 || m.width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := len(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range m.matches {
		rendered := m.renderCandidate(match, m.tabActive && i == m.suggIdx)

		width := lipgloss.Width(rendered)
		if i > 0 {
			width += len(sep)
		}

		last := i == len(m.matches)-1
		if i > 0 && (used+width > m.width || !last && used+width+reserve > m.width) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += width
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Functions get a "()" suffix.
func (m model) renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if m.isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name resolves to something callable.
func (m model) isFunction(name string) bool {
	v, ok := m.context().Lookup(name)
	if !ok {
		return false
	}

	_, err := lang.Func(v)

	return err == nil
}
