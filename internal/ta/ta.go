package ta

import "math"

// RSI computes a Wilder-style RSI over the last period+1 closes using the
// simple mean of per-bar gains and losses. Returns the neutral value 50
// when history is too short, and 100 when there are no losses in the
// window (avoids division by zero on a straight run up).
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 50.0
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// Trend is the multi-period trend reading produced by TrendStrength.
type Trend struct {
	Direction int     // +1, -1, or 0
	Strength  float64 // mean absolute per-period change pct
	Aligned   bool    // every period trends with the same strict sign
}

// TrendStrength measures percent change over each trailing window and
// reports whether all windows agree in sign. A zero change in any window
// breaks alignment for both signs. History shorter than the largest
// period yields the zero reading.
func TrendStrength(closes []float64, periods []int) Trend {
	maxP := 0
	for _, p := range periods {
		if p > maxP {
			maxP = p
		}
	}
	if maxP <= 0 || len(closes) < maxP {
		return Trend{}
	}

	changes := make([]float64, 0, len(periods))
	for _, p := range periods {
		start := closes[len(closes)-p]
		end := closes[len(closes)-1]
		if start == 0 {
			return Trend{}
		}
		changes = append(changes, (end-start)/start*100.0)
	}

	pos, neg := 0, 0
	sumAbs := 0.0
	for _, ch := range changes {
		if ch > 0 {
			pos++
		} else if ch < 0 {
			neg++
		}
		sumAbs += math.Abs(ch)
	}

	t := Trend{Strength: sumAbs / float64(len(changes))}
	switch {
	case pos == len(changes):
		t.Direction = 1
		t.Aligned = true
	case neg == len(changes):
		t.Direction = -1
		t.Aligned = true
	case pos > neg:
		t.Direction = 1
	case neg > pos:
		t.Direction = -1
	}
	return t
}

// Volume is the volume-trend reading produced by VolumeTrend.
type Volume struct {
	Ratio          float64
	Increasing     bool
	StrongIncrease bool
}

// VolumeTrend compares summed volume of the most recent period bars to the
// period bars before that. Needs at least 2*period bars, otherwise the
// neutral reading {1.0, false, false}.
func VolumeTrend(vols []float64, period int) Volume {
	if period <= 0 || len(vols) < 2*period {
		return Volume{Ratio: 1.0}
	}
	recent, prior := 0.0, 0.0
	n := len(vols)
	for i := n - period; i < n; i++ {
		recent += vols[i]
	}
	for i := n - 2*period; i < n-period; i++ {
		prior += vols[i]
	}
	if prior == 0 {
		return Volume{Ratio: 1.0}
	}
	ratio := recent / prior
	return Volume{
		Ratio:          ratio,
		Increasing:     ratio > 1.2,
		StrongIncrease: ratio > 1.5,
	}
}

// Volatility is the population standard deviation of simple returns over
// the trailing period closes, as a percentage. 0 on insufficient history
// or zero variance.
func Volatility(closes []float64, period int) float64 {
	if period <= 1 || len(closes) < period+1 {
		return 0.0
	}
	rets := make([]float64, 0, period)
	for i := len(closes) - period; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return 0.0
		}
		rets = append(rets, (closes[i]-closes[i-1])/closes[i-1])
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	s := 0.0
	for _, r := range rets {
		d := r - mean
		s += d * d
	}
	return math.Sqrt(s/float64(len(rets))) * 100.0
}
