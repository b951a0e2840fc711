package ta

import (
	"math"
	"testing"
)

func seq(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestRSIShortHistoryNeutral(t *testing.T) {
	got := RSI([]float64{1, 2, 3}, 14)
	if got != 50.0 {
		t.Errorf("Expected neutral 50 on short history, got %f", got)
	}
}

func TestRSIStrictlyIncreasing(t *testing.T) {
	got := RSI(seq(100, 1, 20), 14)
	if got != 100.0 {
		t.Errorf("Expected RSI 100 on a straight run up, got %f", got)
	}
}

func TestRSIStrictlyDecreasing(t *testing.T) {
	got := RSI(seq(100, -1, 20), 14)
	if got > 1.0 {
		t.Errorf("Expected RSI near 0 on a straight run down, got %f", got)
	}
}

func TestRSIMixed(t *testing.T) {
	closes := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11}
	got := RSI(closes, 14)
	if got <= 0 || got >= 100 {
		t.Errorf("Expected RSI strictly between 0 and 100 on mixed closes, got %f", got)
	}
}

func TestTrendStrengthShortHistory(t *testing.T) {
	tr := TrendStrength(seq(100, 1, 30), []int{15, 30, 60})
	if tr.Aligned {
		t.Error("Expected aligned=false on short history")
	}
	if tr.Direction != 0 {
		t.Errorf("Expected direction 0 on short history, got %d", tr.Direction)
	}
	if tr.Strength != 0 {
		t.Errorf("Expected strength 0 on short history, got %f", tr.Strength)
	}
}

func TestTrendStrengthAlignedUp(t *testing.T) {
	tr := TrendStrength(seq(100, 1, 80), []int{15, 30, 60})
	if !tr.Aligned {
		t.Error("Expected aligned=true on a monotone rise")
	}
	if tr.Direction != 1 {
		t.Errorf("Expected direction +1, got %d", tr.Direction)
	}
	if tr.Strength <= 0 {
		t.Errorf("Expected positive strength, got %f", tr.Strength)
	}
}

func TestTrendStrengthAlignedDown(t *testing.T) {
	tr := TrendStrength(seq(500, -1, 80), []int{15, 30, 60})
	if !tr.Aligned || tr.Direction != -1 {
		t.Errorf("Expected aligned down trend, got %+v", tr)
	}
}

func TestTrendStrengthZeroBreaksAlignment(t *testing.T) {
	// Flat over the short window, rising over the long ones.
	closes := seq(100, 1, 80)
	for i := len(closes) - 15; i < len(closes); i++ {
		closes[i] = closes[len(closes)-15]
	}
	tr := TrendStrength(closes, []int{15, 30, 60})
	if tr.Aligned {
		t.Error("Expected a zero-change window to break alignment")
	}
}

func TestVolumeTrendInsufficientHistory(t *testing.T) {
	v := VolumeTrend(seq(10, 0, 40), 30)
	if v.Ratio != 1.0 || v.Increasing || v.StrongIncrease {
		t.Errorf("Expected neutral reading on short history, got %+v", v)
	}
}

func TestVolumeTrendIncreasing(t *testing.T) {
	vols := append(seq(10, 0, 30), seq(16, 0, 30)...)
	v := VolumeTrend(vols, 30)
	if math.Abs(v.Ratio-1.6) > 1e-9 {
		t.Errorf("Expected ratio 1.6, got %f", v.Ratio)
	}
	if !v.Increasing || !v.StrongIncrease {
		t.Errorf("Expected increasing and strong_increase at ratio 1.6, got %+v", v)
	}
}

func TestVolumeTrendFlagThresholds(t *testing.T) {
	vols := append(seq(10, 0, 30), seq(13, 0, 30)...)
	v := VolumeTrend(vols, 30) // ratio 1.3
	if !v.Increasing {
		t.Error("Expected increasing at ratio 1.3")
	}
	if v.StrongIncrease {
		t.Error("Did not expect strong_increase at ratio 1.3")
	}
}

func TestVolatilityInsufficientHistory(t *testing.T) {
	if got := Volatility(seq(100, 1, 10), 30); got != 0 {
		t.Errorf("Expected 0 on short history, got %f", got)
	}
}

func TestVolatilityConstantSeries(t *testing.T) {
	if got := Volatility(seq(100, 0, 40), 30); got != 0 {
		t.Errorf("Expected 0 volatility on constant closes, got %f", got)
	}
}

func TestVolatilityAlternatingSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100
		} else {
			closes[i] = 110
		}
	}
	if got := Volatility(closes, 30); got <= 0 {
		t.Errorf("Expected positive volatility on alternating closes, got %f", got)
	}
}
