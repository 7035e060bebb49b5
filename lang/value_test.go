package lang

import (
	"errors"
	"math"
	"testing"
)

type celsius float32

type tag string

func TestScalar(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   any
		wantOK bool
	}{
		{"bool", true, true, true},
		{"string", "x", "x", true},
		{"float64", 1.25, 1.25, true},
		{"int", 3, 3.0, true},
		{"int8", int8(-4), -4.0, true},
		{"uint16", uint16(9), 9.0, true},
		{"float32", float32(0.5), 0.5, true},
		{"named float", celsius(1.5), 1.5, true},
		{"named string", tag("l"), "l", true},
		{"nil", nil, nil, false},
		{"slice", []int{1}, nil, false},
		{"map", map[string]any{}, nil, false},
		{"func", func() {}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Scalar(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("Scalar(%v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}

			if got != tt.want {
				t.Errorf("Scalar(%v) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestToBool(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{1.0, true},
		{0.0, false},
		{-2, true},
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"1", true},
		{"yes", false},
		{"0", false},
		{"", false},
	}

	for _, tt := range tests {
		got, err := ToBool(tt.in)
		if err != nil {
			t.Errorf("ToBool(%v) error: %v", tt.in, err)

			continue
		}

		if got != tt.want {
			t.Errorf("ToBool(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ToBool([]int{}); !errors.Is(err, ErrType) {
		t.Errorf("ToBool(slice) error = %v, want ErrType", err)
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		in      any
		want    float64
		wantErr bool
	}{
		{true, 1, false},
		{false, 0, false},
		{2.5, 2.5, false},
		{uint8(7), 7, false},
		{"42", 42, false},
		{"-3", -3, false},
		{"2.75", 2.75, false},
		{"1e3", 1000, false},
		{"banana", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
		{"-Infinity", 0, true},
		{"1e400", 0, true},
		{"12abc", 0, true},
		{"", 0, true},
		{struct{}{}, 0, true},
	}

	for _, tt := range tests {
		got, err := ToNumber(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ToNumber(%#v) error = %v, wantErr %v", tt.in, err, tt.wantErr)

			continue
		}

		if err != nil && !errors.Is(err, ErrType) {
			t.Errorf("ToNumber(%#v) error = %v, want ErrType", tt.in, err)
		}

		if got != tt.want {
			t.Errorf("ToNumber(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{true, "true"},
		{false, "false"},
		{5.0, "5"},
		{2.5, "2.5"},
		{-0.125, "-0.125"},
		{1e21, "1000000000000000000000"},
		{7, "7"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		got, err := ToString(tt.in)
		if err != nil {
			t.Errorf("ToString(%v) error: %v", tt.in, err)

			continue
		}

		if got != tt.want {
			t.Errorf("ToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ToString(nil); !errors.Is(err, ErrType) {
		t.Errorf("ToString(nil) error = %v, want ErrType", err)
	}
}

func TestMatchType(t *testing.T) {
	tests := []struct {
		name        string
		left, right any
		want        any
		wantErr     bool
	}{
		{"to bool", true, "TRUE", true, false},
		{"to number", 1.0, "1", 1.0, false},
		{"to string", "x", 2.0, "2", false},
		{"bool to string", "x", false, "false", false},
		{"bad number", 1.0, "x", nil, true},
		{"unknown left", nil, 1.0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchType(tt.left, tt.right)
			if (err != nil) != tt.wantErr {
				t.Fatalf("matchType error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && got != tt.want {
				t.Errorf("matchType = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{true, "true"},
		{3.0, "3"},
		{1.0 / 3, "0.3333333333333333"},
		{"plain", "plain"},
		{nil, "<nil>"},
		{[]int{}, "[]int"},
	}

	for _, tt := range tests {
		if got := FormatResult(tt.in); got != tt.want {
			t.Errorf("FormatResult(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
