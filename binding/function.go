package binding

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"

	"github.com/wildwinter/expression-parser/lang"
)

// Definition is a function declared in a bindings document. Body is an
// expr-lang expression over the parameters, the bound variables, and the
// env, prefix and prefixif builtins.
type Definition struct {
	Params []string `yaml:"params,flow,omitempty"`
	Body   string   `yaml:"body"`
}

// Signature renders d as name(param, ...).
func (d Definition) Signature(name string) string {
	return name + "(" + strings.Join(d.Params, ", ") + ")"
}

// function is a compiled [Definition]. Names in the body other than its
// parameters and builtins are resolved against the variables the function
// is bound to when it is called, so a body may read a variable defined in
// another document or replaced by [Bindings.Set].
type function struct {
	name     string
	params   []string
	program  *vm.Program
	builtins map[string]any
	free     []string
}

// compile builds the program for d. Parameters shadow variables, which
// shadow builtins.
func compile(name string, d Definition, builtins map[string]any) (*function, error) {
	if strings.TrimSpace(d.Body) == "" {
		return nil, ErrCompile.Wrapf("function '%s' has an empty body", name).
			With(slog.String("function", name))
	}

	env := maps.Clone(builtins)

	for _, p := range d.Params {
		if !isIdentifier(p) {
			return nil, ErrInvalidBinding.Wrapf("invalid parameter name %q", p).
				With(slog.String("function", name))
		}

		env[p] = nil
	}

	program, err := expr.Compile(d.Body, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, ErrCompile.Wrap(err).
			With(slog.String("function", name), slog.String("body", d.Body))
	}

	return &function{
		name:     name,
		params:   append([]string(nil), d.Params...),
		program:  program,
		builtins: builtins,
		free:     freeNames(program, env),
	}, nil
}

// freeNames returns the sorted identifiers read by program that are neither
// in env nor declared with let inside it.
func freeNames(program *vm.Program, env map[string]any) []string {
	var v identifierVisitor

	node := program.Node()
	ast.Walk(&node, &v)

	var free []string

	for _, name := range v.names {
		_, known := env[name]
		if !known && !slices.Contains(v.declared, name) && !slices.Contains(free, name) {
			free = append(free, name)
		}
	}

	slices.Sort(free)

	return free
}

type identifierVisitor struct {
	names    []string
	declared []string
}

func (v *identifierVisitor) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		v.names = append(v.names, n.Value)

	case *ast.VariableDeclaratorNode:
		v.declared = append(v.declared, n.Name)
	}
}

// bind returns f as a [lang.Function] reading variables.
func (f *function) bind(variables map[string]any) lang.Function {
	return &boundFunction{function: f, variables: variables}
}

type boundFunction struct {
	*function

	variables map[string]any
}

func (f *boundFunction) Arity() (int, bool) { return len(f.params), false }

func (f *boundFunction) Call(args []any) (any, error) {
	if len(args) != len(f.params) {
		return nil, ErrCall.Wrapf("%s expects %d arguments, got %d",
			f.name, len(f.params), len(args))
	}

	env := maps.Clone(f.builtins)
	maps.Copy(env, f.variables)

	for i, p := range f.params {
		env[p] = args[i]
	}

	for _, name := range f.free {
		if _, ok := env[name]; !ok {
			return nil, lang.ErrReference.
				Wrapf("function '%s' reads '%s', which is not bound", f.name, name).
				With(slog.String("variable", name))
		}
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return nil, ErrCall.Wrap(err).With(slog.String("function", f.name))
	}

	if _, ok := lang.Scalar(out); !ok {
		return nil, ErrCall.Wrapf("%s returned %T", f.name, out).
			With(slog.String("function", f.name))
	}

	return out, nil
}

func (f *function) String() string {
	return fmt.Sprintf("%s(%s)", f.name, strings.Join(f.params, ", "))
}

// isIdentifier reports whether name lexes as a single identifier of the
// expression language, so it can be referenced from expressions.
func isIdentifier(name string) bool {
	tokens, err := lang.Tokenize(name)

	return err == nil && len(tokens) == 1 &&
		tokens[0].Kind == lang.TokenIdentifier && tokens[0].Text == name
}
