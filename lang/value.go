package lang

import (
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Scalar normalizes a host value to one of the runtime scalar types: bool,
// float64 or string. Every Go integer and float kind (and named types based
// on them) becomes float64. It reports false for anything else.
func Scalar(v any) (any, bool) {
	switch x := v.(type) {
	case bool, string:
		return x, true

	case float64:
		return x, true

	case float32:
		return float64(x), true

	case int:
		return float64(x), true

	case int64:
		return float64(x), true

	case int32:
		return float64(x), true

	case uint:
		return float64(x), true

	case uint64:
		return float64(x), true
	}

	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true

	case reflect.String:
		return rv.String(), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true

	case reflect.Float32, reflect.Float64:
		return rv.Float(), true

	default:
		return nil, false
	}
}

// ToBool coerces a scalar to a boolean. Numbers are true when non-zero.
// Strings are true when they equal "true" in any letter case, or exactly "1".
func ToBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil

	case float64:
		return x != 0, nil

	case string:
		return strings.EqualFold(x, "true") || x == "1", nil
	}

	if s, ok := Scalar(v); ok {
		return ToBool(s)
	}

	return false, typeMismatch("bool", v)
}

// ToNumber coerces a scalar to a number. Booleans become 0 or 1. Strings are
// parsed as an integer literal, then as a finite floating point literal;
// "NaN", "inf" and out-of-range text are type errors.
func ToNumber(v any) (float64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}

		return 0, nil

	case float64:
		return x, nil

	case string:
		if i, err := strconv.ParseInt(x, 10, 64); err == nil {
			return float64(i), nil
		}

		if f, err := strconv.ParseFloat(x, 64); err == nil &&
			!math.IsInf(f, 0) && !math.IsNaN(f) {
			return f, nil
		}

		return 0, typeMismatch("number", v)
	}

	if s, ok := Scalar(v); ok {
		return ToNumber(s)
	}

	return 0, typeMismatch("number", v)
}

// ToString coerces a scalar to a string. Booleans become "true" or "false";
// numbers use their shortest decimal text.
func ToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil

	case bool:
		return strconv.FormatBool(x), nil

	case float64:
		return formatNumber(x), nil
	}

	if s, ok := Scalar(v); ok {
		return ToString(s)
	}

	return "", typeMismatch("string", v)
}

// matchType coerces right to the runtime type of left.
func matchType(left, right any) (any, error) {
	switch left.(type) {
	case bool:
		return ToBool(right)

	case float64:
		return ToNumber(right)

	case string:
		return ToString(right)

	default:
		return nil, ErrType.
			Wrapf("type mismatch: unrecognised type for '%s'", display(left))
	}
}

func typeMismatch(want string, got any) *Error {
	return ErrType.
		Wrapf("type mismatch: expecting %s but got '%s'", want, display(got)).
		With(slog.String("want", want), slog.String("got", display(got)))
}

// formatNumber renders f in its shortest decimal form: 5 rather than 5.0,
// 2.5 rather than 2.500000.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"

	case math.IsInf(f, -1):
		return "-Infinity"

	case math.IsNaN(f):
		return "NaN"

	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// display renders a value for traces, dumps and messages. Strings appear
// without quotes.
func display(v any) string {
	if s, ok := Scalar(v); ok {
		str, _ := ToString(s)

		return str
	}

	if v == nil {
		return "<nil>"
	}

	return reflect.TypeOf(v).String()
}

// FormatResult formats an evaluation result for output.
func FormatResult(result any) string { return display(result) }
