package binding

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/mung"

	"github.com/wildwinter/expression-parser/lang"
)

// Builtins returns the functions available to every expression: upper,
// lower, len, env, prefix and prefixif.
//
// env looks names up in environ, given as "KEY=VALUE" strings; a nil
// environ uses [os.Environ].
func Builtins(environ []string) lang.Env {
	return lang.Env{
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"len":      utf8.RuneCountInString,
		"env":      envFunc(environMap(environ)),
		"prefix":   mungPrefix,
		"prefixif": mungPrefixIf,
	}
}

// exprBuiltins are made visible to function bodies. The string helpers are
// omitted since the body language has its own upper, lower and len.
func exprBuiltins(environ map[string]string) map[string]any {
	return map[string]any{
		"env":      envFunc(environ),
		"prefix":   mungPrefix,
		"prefixif": mungPrefixIf,
	}
}

func envFunc(environ map[string]string) func(string) string {
	return func(name string) string { return environ[name] }
}

// environMap converts "KEY=VALUE" strings to a map. If environ is nil,
// os.Environ() is used.
func environMap(environ []string) map[string]string {
	if environ == nil {
		environ = os.Environ()
	}

	result := make(map[string]string, len(environ))

	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			result[k] = v
		}
	}

	return result
}

// mungPrefix prepends items to the PATH-like list subject, removing
// duplicates.
func mungPrefix(subject string, item ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(item...),
	).String()
}

// mungPrefixIf is like mungPrefix but only prepends items naming existing
// directories.
func mungPrefixIf(subject string, item ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(item...),
		mung.WithFilter(isDir),
	).String()
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
