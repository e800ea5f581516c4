package sim

import (
	"math"
	"testing"
)

func TestRealizedPnlSigns(t *testing.T) {
	// Long profits when exit > entry, short mirrors it.
	if got := RealizedPnl(Long, 100, 110, 2, 5); got != 100 {
		t.Fatalf("long gain: got %v want 100", got)
	}
	if got := RealizedPnl(Long, 100, 90, 2, 5); got != -100 {
		t.Fatalf("long loss: got %v want -100", got)
	}
	if got := RealizedPnl(Short, 100, 90, 2, 5); got != 100 {
		t.Fatalf("short gain: got %v want 100", got)
	}
	if got := RealizedPnl(Short, 100, 110, 2, 5); got != -100 {
		t.Fatalf("short loss: got %v want -100", got)
	}
}

func TestFeeRate(t *testing.T) {
	if got := Fee(95420.50, 1.0); math.Abs(got-66.79435) > 1e-9 {
		t.Fatalf("fee: got %v", got)
	}
	if got := Fee(100, 0); got != 0 {
		t.Fatalf("zero quantity fee: got %v", got)
	}
}

func TestLiquidationPriceScalesWithLeverage(t *testing.T) {
	entry := 1000.0

	// Higher leverage pulls the liquidation level closer to entry.
	l10 := LiquidationPrice(Long, entry, 10)
	l50 := LiquidationPrice(Long, entry, 50)
	if !(l10 < l50 && l50 < entry) {
		t.Fatalf("long liquidation ordering: x10=%v x50=%v entry=%v", l10, l50, entry)
	}

	s10 := LiquidationPrice(Short, entry, 10)
	s50 := LiquidationPrice(Short, entry, 50)
	if !(s10 > s50 && s50 > entry) {
		t.Fatalf("short liquidation ordering: x10=%v x50=%v entry=%v", s10, s50, entry)
	}

	if got := LiquidationPrice(Long, entry, 10); math.Abs(got-905) > 1e-9 {
		t.Fatalf("long x10: got %v want 905", got)
	}
	if got := LiquidationPrice(Short, entry, 10); math.Abs(got-1095) > 1e-9 {
		t.Fatalf("short x10: got %v want 1095", got)
	}
}

func TestRequiredMargin(t *testing.T) {
	if got := RequiredMargin(95420.50, 1.0, 10); math.Abs(got-9542.05) > 1e-9 {
		t.Fatalf("margin: got %v want 9542.05", got)
	}
	if got := RequiredMargin(100, 2, 1); got != 200 {
		t.Fatalf("unlevered margin equals notional: got %v", got)
	}
}
