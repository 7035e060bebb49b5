package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
)

// Context resolves variable and function names during evaluation.
// Evaluation only reads from a Context.
type Context interface {
	Lookup(name string) (any, bool)
}

// Env is a Context backed by a map. Values are scalars (bool, string, any
// Go number), [Function] values, or plain Go funcs, which are wrapped with
// [Func] when looked up.
type Env map[string]any

// Lookup implements [Context].
func (e Env) Lookup(name string) (any, bool) {
	v, ok := e[name]

	return v, ok
}

// Names returns the sorted names defined in e.
func (e Env) Names() []string {
	return slices.Sorted(maps.Keys(e))
}

// Chain layers contexts: the first one defining a name wins.
func Chain(ctxs ...Context) Context { return chain(ctxs) }

type chain []Context

func (c chain) Lookup(name string) (any, bool) {
	for _, ctx := range c {
		if ctx == nil {
			continue
		}

		if v, ok := ctx.Lookup(name); ok {
			return v, true
		}
	}

	return nil, false
}

// Function is an invocable context entry.
//
// Arity reports the number of fixed parameters and whether further arguments
// are accepted. A non-variadic function must be called with exactly n
// arguments; a variadic one with at least n.
type Function interface {
	Arity() (n int, variadic bool)
	Call(args []any) (any, error)
}

// Func wraps a Go function value as a [Function].
//
// Each argument is coerced to the parameter's type: bool parameters use
// [ToBool], string parameters [ToString], numeric parameters [ToNumber];
// parameters of interface type receive the scalar unchanged. The function
// must return one value, or one value and an error.
func Func(fn any) (Function, error) {
	if f, ok := fn.(Function); ok {
		return f, nil
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, ErrType.Wrapf("%T is not a function", fn)
	}

	rt := rv.Type()

	switch {
	case rt.NumOut() == 1:
	case rt.NumOut() == 2 && rt.Out(1) == errorType:
	default:
		return nil, ErrType.
			Wrapf("%s must return a value, optionally followed by an error", rt)
	}

	for i := range rt.NumIn() {
		in := rt.In(i)
		if rt.IsVariadic() && i == rt.NumIn()-1 {
			in = in.Elem()
		}

		if !coercible(in) {
			return nil, ErrType.Wrapf("unsupported parameter type %s", in)
		}
	}

	return reflectFunc{rv}, nil
}

// MustFunc is like [Func] but panics on error.
func MustFunc(fn any) Function {
	f, err := Func(fn)
	if err != nil {
		panic(err)
	}

	return f
}

var errorType = reflect.TypeFor[error]()

type reflectFunc struct{ fn reflect.Value }

func (f reflectFunc) Arity() (int, bool) {
	t := f.fn.Type()
	if t.IsVariadic() {
		return t.NumIn() - 1, true
	}

	return t.NumIn(), false
}

func (f reflectFunc) Call(args []any) (any, error) {
	t := f.fn.Type()
	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= t.NumIn()-1 {
			pt = t.In(t.NumIn() - 1).Elem()
		} else {
			pt = t.In(i)
		}

		v, err := coerceTo(pt, arg)
		if err != nil {
			return nil, err
		}

		in[i] = v
	}

	out := f.fn.Call(in)

	if len(out) == 2 && !out[1].IsNil() {
		err, _ := out[1].Interface().(error)

		return nil, err
	}

	return out[0].Interface(), nil
}

func coercible(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true

	case reflect.Interface:
		return t.NumMethod() == 0

	default:
		return false
	}
}

// coerceTo converts a scalar argument to a value assignable to t.
func coerceTo(t reflect.Type, arg any) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Bool:
		b, err := ToBool(arg)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(b).Convert(t), nil

	case reflect.String:
		s, err := ToString(arg)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(s).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		f, err := ToNumber(arg)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(f).Convert(t), nil

	default:
		if arg == nil {
			return reflect.Zero(t), nil
		}

		return reflect.ValueOf(arg), nil
	}
}

// resolveFunction turns a context entry into a [Function].
func resolveFunction(name string, v any) (Function, error) {
	f, err := Func(v)
	if err == nil {
		return f, nil
	}

	var le *Error
	if errors.As(err, &le) && le.Is(ErrType) && reflect.ValueOf(v).Kind() == reflect.Func {
		return nil, le.With(slog.String("function", name))
	}

	return nil, ErrType.
		Wrapf("'%s' is not a function", name).
		With(slog.String("function", name), slog.String("type", fmt.Sprintf("%T", v)))
}

// checkArity verifies that n arguments satisfy f.
func checkArity(name string, f Function, args []any) error {
	want, variadic := f.Arity()

	if len(args) == want || (variadic && len(args) > want) {
		return nil
	}

	expect := fmt.Sprintf("exactly %d", want)
	if variadic {
		expect = fmt.Sprintf("at least %d", want)
	}

	return ErrType.
		Wrapf("function '%s' expects %s argument(s), got %d", name, expect, len(args)).
		With(
			slog.String("function", name),
			slog.Int("want", want),
			slog.Bool("variadic", variadic),
			slog.Int("got", len(args)),
		)
}
