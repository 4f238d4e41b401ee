package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPercent(t *testing.T) {
	t.Parallel()

	got := Percent(decimal.NewFromInt(50), decimal.NewFromInt(20))
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10, got %s", got)
	}
}

func TestMin(t *testing.T) {
	t.Parallel()

	a := decimal.NewFromFloat(12.5)
	b := decimal.NewFromInt(13)
	if got := Min(a, b); !got.Equal(a) {
		t.Fatalf("expected %s, got %s", a, got)
	}
	if got := Min(b, a); !got.Equal(a) {
		t.Fatalf("expected %s, got %s", a, got)
	}
}

func TestFloorZero(t *testing.T) {
	t.Parallel()

	if got := FloorZero(decimal.NewFromInt(-4)); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
	positive := decimal.NewFromFloat(0.01)
	if got := FloorZero(positive); !got.Equal(positive) {
		t.Fatalf("expected %s, got %s", positive, got)
	}
}

func TestFormatRoundsOnlyAtPresentation(t *testing.T) {
	t.Parallel()

	// Three thirds of a cent survive summation exactly and round once.
	third := decimal.NewFromFloat(0.01).Div(decimal.NewFromInt(3))
	sum := third.Add(third).Add(third)
	if got := Format(sum); got != "0.01" {
		t.Fatalf("expected 0.01, got %s", got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	got, err := Parse(" 19.99 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.NewFromFloat(19.99)) {
		t.Fatalf("expected 19.99, got %s", got)
	}

	if _, err := Parse("not-money"); err == nil {
		t.Fatal("expected error for malformed amount")
	}
}
