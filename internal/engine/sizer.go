package engine

import (
	"math"
)

// sizer maps a candidate's momentum/volatility profile and the session's
// streak and drawdown state to a leverage and size-percentage pair.
type sizer struct {
	minLeverage int
	maxLeverage int
}

// sizeBand is one rung of the aggression ladder, keyed by whichever of
// |change_24h| or volatility crosses its threshold first, checked from the
// most aggressive rung down.
type sizeBand struct {
	minAbsChange  float64
	minVolatility float64
	leverage      int
	sizePct       int
}

var sizeLadder = []sizeBand{
	{minAbsChange: 80, minVolatility: 8, leverage: 6, sizePct: 60},
	{minAbsChange: 60, minVolatility: 6, leverage: 5, sizePct: 50},
	{minAbsChange: 40, minVolatility: 4, leverage: 4, sizePct: 40},
	{minAbsChange: 25, minVolatility: math.MaxFloat64, leverage: 3, sizePct: 30},
}

// floor band when nothing in the ladder matches.
const (
	floorLeverage = 2
	floorSizePct  = 25
)

// size picks the base band for the candidate and applies the session
// modifiers in order: loss-streak shrink, drawdown shrink, win-streak
// boost. Size is truncated to an integer after each step.
func (sz *sizer) size(absChange, volatility float64, consecutiveLosses, consecutiveWins int, drawdownPct float64) (leverage, sizePct int) {
	leverage = floorLeverage
	sizePct = floorSizePct
	for _, band := range sizeLadder {
		if absChange >= band.minAbsChange || volatility >= band.minVolatility {
			leverage = band.leverage
			sizePct = band.sizePct
			break
		}
	}

	if consecutiveLosses >= 2 {
		sizePct = int(float64(sizePct) * 0.6)
		leverage--
	}
	if drawdownPct > 20 {
		sizePct = int(float64(sizePct) * 0.5)
		leverage--
	}
	if consecutiveWins >= 2 {
		sizePct = int(float64(sizePct) * 1.1)
		if sizePct > 100 {
			sizePct = 100
		}
	}

	if leverage < sz.minLeverage {
		leverage = sz.minLeverage
	}
	if leverage > sz.maxLeverage {
		leverage = sz.maxLeverage
	}
	return leverage, sizePct
}
