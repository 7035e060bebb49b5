package binding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/wildwinter/expression-parser/lang"
	"github.com/wildwinter/expression-parser/log"
)

// Bindings is a set of named variables and functions that expressions can
// reference. A Bindings is immutable once loaded; [Bindings.Set] and
// [Merge] return new values.
type Bindings struct {
	variables   map[string]any
	definitions map[string]Definition
	functions   map[string]*function
	environ     map[string]string
	logger      log.Logger
}

// document is the YAML (or JSON) form of a Bindings.
type document struct {
	Variables map[string]any        `yaml:"variables,omitempty"`
	Functions map[string]Definition `yaml:"functions,omitempty"`
}

// Option configures loading.
type Option func(*Bindings)

// WithLogger sets the logger used while loading and watching.
func WithLogger(logger log.Logger) Option {
	return func(b *Bindings) { b.logger = logger }
}

// WithEnviron sets the process environment, as "KEY=VALUE" strings, seen by
// the env builtin. The default is [os.Environ].
func WithEnviron(environ []string) Option {
	return func(b *Bindings) { b.environ = environMap(environ) }
}

// New returns an empty Bindings.
func New(opts ...Option) *Bindings {
	b := &Bindings{
		variables:   map[string]any{},
		definitions: map[string]Definition{},
		functions:   map[string]*function{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	if b.environ == nil {
		b.environ = environMap(nil)
	}

	return b
}

// Load decodes a bindings document from r and compiles its functions.
//
//	variables:
//	  counter: 1
//	  name: fred
//	functions:
//	  whisky:
//	    params: [id, n]
//	    body: 'string(n) + "whisky_" + id'
//
// Variables must be scalars. Unknown top-level keys are rejected.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*Bindings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	var doc document

	err = yaml.UnmarshalContext(ctx, data, &doc, yaml.Strict())
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	b := New(opts...)

	for name, value := range doc.Variables {
		if err := b.setVariable(name, value); err != nil {
			return nil, err
		}
	}

	builtins := exprBuiltins(b.environ)

	for _, name := range slices.Sorted(maps.Keys(doc.Functions)) {
		if !isIdentifier(name) {
			return nil, ErrInvalidBinding.Wrapf("invalid function name %q", name)
		}

		if _, ok := b.variables[name]; ok {
			return nil, ErrInvalidBinding.
				Wrapf("'%s' is defined as both a variable and a function", name)
		}

		def := doc.Functions[name]

		fn, err := compile(name, def, builtins)
		if err != nil {
			return nil, err
		}

		b.definitions[name] = def
		b.functions[name] = fn
	}

	b.logger.DebugContext(ctx, "bindings loaded",
		slog.Int("variables", len(b.variables)),
		slog.Int("functions", len(b.functions)))

	return b, nil
}

// LoadFile is like [Load] but reads from the named file.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Bindings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("file", path))
	}
	defer f.Close()

	b, err := Load(ctx, f, opts...)
	if err != nil {
		var be *Error
		if errors.As(err, &be) {
			return nil, be.With(slog.String("file", path))
		}

		return nil, err
	}

	return b, nil
}

// Merge combines bindings; a name defined in a later argument replaces the
// same name from an earlier one. Nil arguments are skipped.
func Merge(bs ...*Bindings) *Bindings {
	out := New()

	for _, b := range bs {
		if b == nil {
			continue
		}

		for name, v := range b.variables {
			out.remove(name)
			out.variables[name] = v
		}

		for name, fn := range b.functions {
			out.remove(name)
			out.functions[name] = fn
			out.definitions[name] = b.definitions[name]
		}

		out.environ = b.environ
		out.logger = b.logger
	}

	return out
}

// Set returns a copy of b with the variable name bound to value, replacing
// any variable or function of that name.
func (b *Bindings) Set(name string, value any) (*Bindings, error) {
	out := Merge(b)
	out.remove(name)

	if err := out.setVariable(name, value); err != nil {
		return nil, err
	}

	return out, nil
}

func (b *Bindings) setVariable(name string, value any) error {
	if !isIdentifier(name) {
		return ErrInvalidBinding.Wrapf("invalid variable name %q", name)
	}

	v, ok := lang.Scalar(value)
	if !ok {
		return ErrInvalidBinding.
			Wrapf("variable '%s' must be a bool, string, or number, not %T", name, value).
			With(slog.String("variable", name))
	}

	b.variables[name] = v

	return nil
}

func (b *Bindings) remove(name string) {
	delete(b.variables, name)
	delete(b.functions, name)
	delete(b.definitions, name)
}

// Env returns the variables and functions of b as an evaluation context.
// Function bodies read the variables of b, whichever document defined them.
func (b *Bindings) Env() lang.Env {
	env := make(lang.Env, len(b.variables)+len(b.functions))

	for name, v := range b.variables {
		env[name] = v
	}

	for name, fn := range b.functions {
		env[name] = fn.bind(b.variables)
	}

	return env
}

// Context layers b over the [Builtins], so bindings may shadow builtins.
func (b *Bindings) Context() lang.Context {
	environ := make([]string, 0, len(b.environ))
	for k, v := range b.environ {
		environ = append(environ, k+"="+v)
	}

	return lang.Chain(b.Env(), Builtins(environ))
}

// Names returns the sorted names of all variables and functions.
func (b *Bindings) Names() []string {
	return slices.Sorted(func(yield func(string) bool) {
		for name := range b.variables {
			if !yield(name) {
				return
			}
		}

		for name := range b.functions {
			if !yield(name) {
				return
			}
		}
	})
}

// Len returns the number of bindings.
func (b *Bindings) Len() int { return len(b.variables) + len(b.functions) }

// Signature describes the binding called name: "name(a, b)" for functions
// and "name = value" for variables.
func (b *Bindings) Signature(name string) (string, bool) {
	if def, ok := b.definitions[name]; ok {
		return def.Signature(name), true
	}

	if v, ok := b.variables[name]; ok {
		return name + " = " + lang.FormatResult(v), true
	}

	return "", false
}

// Encode writes b as a YAML bindings document.
func (b *Bindings) Encode(ctx context.Context, w io.Writer) error {
	doc := document{
		Variables: maps.Clone(b.variables),
		Functions: maps.Clone(b.definitions),
	}

	return yaml.NewEncoder(w, yaml.Indent(2)).EncodeContext(ctx, doc)
}

// ParseAssignment splits "name=value" into its parts. Surrounding space is
// trimmed from the value. A value that lexes as a single boolean, number or
// quoted string literal, or as a negated number, takes that type; any other
// value is kept as a plain string.
func ParseAssignment(s string) (string, any, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)

	if !ok || !isIdentifier(name) {
		return "", nil, ErrInvalidBinding.Wrapf("expected name=value, got %q", s)
	}

	raw = strings.TrimSpace(raw)

	if v, ok := parseLiteral(raw); ok {
		return name, v, nil
	}

	return name, raw, nil
}

// parseLiteral returns the value of raw if it is a single literal or a
// negated number.
func parseLiteral(raw string) (any, bool) {
	tokens, err := lang.Tokenize(raw)
	if err != nil {
		return nil, false
	}

	switch {
	case len(tokens) == 1 && (tokens[0].Kind == lang.TokenBoolean ||
		tokens[0].Kind == lang.TokenNumber || tokens[0].Kind == lang.TokenString):
	case len(tokens) == 2 && tokens[0].Text == "-" && tokens[1].Kind == lang.TokenNumber:
	default:
		return nil, false
	}

	node, err := lang.ParseTokens(tokens)
	if err != nil {
		return nil, false
	}

	v, err := node.Evaluate(lang.Env{}, nil)
	if err != nil {
		return nil, false
	}

	return v, true
}

func (b *Bindings) String() string {
	return fmt.Sprintf("Bindings(%d variables, %d functions)",
		len(b.variables), len(b.functions))
}
