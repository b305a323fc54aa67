package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100", "100.00"},
		{"499.9", "499.90"},
		{"-12.5", "-12.50"},
		{"0", "0.00"},
	}
	for _, c := range cases {
		if got := Format(decimal.RequireFromString(c.in)); got != c.want {
			t.Errorf("Format(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPercent(t *testing.T) {
	t.Run("part_of_whole", func(t *testing.T) {
		got := Percent(decimal.NewFromInt(1100), decimal.NewFromInt(1000))
		if !got.Equal(decimal.NewFromInt(110)) {
			t.Errorf("expected 110, got %s", got)
		}
	})

	t.Run("zero_whole_yields_zero", func(t *testing.T) {
		got := Percent(decimal.NewFromInt(500), decimal.Zero)
		if !got.IsZero() {
			t.Errorf("expected 0 for zero denominator, got %s", got)
		}
	})

	t.Run("negative_whole_yields_zero", func(t *testing.T) {
		got := Percent(decimal.NewFromInt(500), decimal.NewFromInt(-100))
		if !got.IsZero() {
			t.Errorf("expected 0 for negative denominator, got %s", got)
		}
	})
}
