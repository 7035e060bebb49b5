package lang

import (
	"errors"
	"log/slog"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  NewError("something failed"),
			want: "something failed",
		},
		{
			name: "with wrapped error",
			err:  NewError("operation failed").Wrap(NewError("inner error")),
			want: "operation failed: inner error",
		},
		{
			name: "empty message with wrapped",
			err:  (&Error{}).Wrap(NewError("inner")),
			want: "inner",
		},
		{
			name: "formatted detail",
			err:  ErrSyntax.Wrapf("unexpected token '%s'", ")"),
			want: "syntax error: unexpected token ')'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := ErrReference.Wrapf("variable 'x' not found").With(slog.String("variable", "x"))

	if !errors.Is(err, ErrReference) {
		t.Error("derived error should match its kind")
	}

	for _, other := range []error{ErrSyntax, ErrType, ErrArithmetic} {
		if errors.Is(err, other) {
			t.Errorf("derived error should not match %v", other)
		}
	}

	if errors.Is(WrapError(errors.New("plain")), ErrType) {
		t.Error("wrapped plain error should not match any kind")
	}
}

func TestError_With(t *testing.T) {
	base := NewError("test error")
	withAttr := base.With(slog.String("key", "value"))

	if len(base.attrs) != 0 {
		t.Error("base error should have no attributes")
	}

	if len(withAttr.attrs) != 1 {
		t.Errorf("expected 1 attribute, got %d", len(withAttr.attrs))
	}

	withMulti := withAttr.With(slog.String("a", "1"), slog.Int("b", 2))
	if len(withMulti.Attrs()) != 3 {
		t.Errorf("expected 3 attributes, got %d", len(withMulti.Attrs()))
	}

	if len(withAttr.attrs) != 1 {
		t.Error("With should not modify its receiver")
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := NewError("inner")
	outer := NewError("outer").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap should return inner error")
	}

	if !errors.Is(outer, inner) {
		t.Error("errors.Is should find inner error")
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps standard error", func(t *testing.T) {
		stdErr := errors.New("standard error")

		wrapped := WrapError(stdErr)
		if wrapped.err != stdErr {
			t.Error("should wrap standard error")
		}
	})

	t.Run("returns existing Error unchanged", func(t *testing.T) {
		existing := NewError("existing")

		if WrapError(existing) != existing {
			t.Error("should return existing Error as-is")
		}
	})
}

func TestError_LogValue(t *testing.T) {
	err := ErrArithmetic.Wrapf("division by zero").With(slog.String("dividend", "5"))

	v := err.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v, want group", v.Kind())
	}

	got := map[string]string{}
	for _, a := range v.Group() {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error":    "arithmetic error",
		"cause":    "division by zero",
		"dividend": "5",
	}

	for k, w := range want {
		if got[k] != w {
			t.Errorf("attr %q = %q, want %q", k, got[k], w)
		}
	}
}
