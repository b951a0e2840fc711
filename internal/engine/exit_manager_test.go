package engine

import (
	"strings"
	"testing"

	"momentum-trading-bot/internal/types"
)

func TestExitMajorProfitTarget(t *testing.T) {
	em := newExitManager()
	d := em.evaluate(16.0, 4)
	if d == nil || d.Action != types.ActionClose {
		t.Fatalf("Expected CLOSE at +16%%, got %+v", d)
	}
	if !strings.Contains(d.Reason, "Major profit target") {
		t.Errorf("Expected major profit target reason, got %q", d.Reason)
	}
}

func TestExitProfitTarget(t *testing.T) {
	em := newExitManager()
	d := em.evaluate(9.0, 4)
	if d == nil || d.Action != types.ActionClose {
		t.Fatalf("Expected CLOSE at +9%%, got %+v", d)
	}
	if strings.Contains(d.Reason, "Major") {
		t.Errorf("Expected the regular target, got %q", d.Reason)
	}
}

func TestExitFlatStopLowLeverage(t *testing.T) {
	em := newExitManager()
	for _, lev := range []int{1, 2, 3} {
		d := em.evaluate(-20.0, lev)
		if d == nil || d.Action != types.ActionClose || !strings.Contains(d.Reason, "Stop loss") {
			t.Errorf("leverage %d: expected stop loss at -20%%, got %+v", lev, d)
		}
	}
}

func TestExitScaledStopHighLeverage(t *testing.T) {
	em := newExitManager()
	// -15/6 = -2.5
	d := em.evaluate(-2.5, 6)
	if d == nil || !strings.Contains(d.Reason, "Stop loss") {
		t.Fatalf("Expected stop loss at -2.5%% on 6x, got %+v", d)
	}
	if d2 := em.evaluate(-2.0, 6); d2 != nil {
		t.Errorf("Expected hold at -2.0%% on 6x, got %+v", d2)
	}
}

func TestExitEarlySmallLossCut(t *testing.T) {
	em := newExitManager()
	// 4x threshold is -3.75; -3.5 sits between the early-cut line and it.
	d := em.evaluate(-3.5, 4)
	if d == nil || d.Action != types.ActionClose {
		t.Fatalf("Expected early cut at -3.5%% on 4x, got %+v", d)
	}
	if !strings.Contains(d.Reason, "small loss") {
		t.Errorf("Expected small-loss reason, got %q", d.Reason)
	}
}

func TestExitHoldInBetween(t *testing.T) {
	em := newExitManager()
	for _, pnl := range []float64{0, 1.0, 4.9, -1.0, -3.0} {
		if d := em.evaluate(pnl, 3); d != nil {
			t.Errorf("Expected hold at %+.1f%% on 3x, got %+v", pnl, d)
		}
	}
}

func TestStopThreshold(t *testing.T) {
	em := newExitManager()
	cases := []struct {
		lev  int
		want float64
	}{
		{2, -20}, {3, -20}, {4, -3.75}, {5, -3.0}, {6, -2.5},
	}
	for _, c := range cases {
		if got := em.stopThreshold(c.lev); got != c.want {
			t.Errorf("leverage %d: expected threshold %.2f, got %.2f", c.lev, c.want, got)
		}
	}
}
