package engine

import (
	"fmt"

	"momentum-trading-bot/internal/types"
)

// exitManager decides whether an open position should be closed. Rules are
// checked in a fixed order and the first match wins.
type exitManager struct {
	majorTargetPct float64 // pnl% that always banks the trade
	targetPct      float64 // regular profit target
	stopBudgetPct  float64 // divided by leverage for the stop threshold
	flatStopPct    float64 // flat stop for leverage <= 3
	earlyCutPct    float64 // small-loss cut, e.g. -3
}

func newExitManager() *exitManager {
	return &exitManager{
		majorTargetPct: 15.0,
		targetPct:      8.0,
		stopBudgetPct:  15.0,
		flatStopPct:    20.0,
		earlyCutPct:    -3.0,
	}
}

// stopThreshold returns the leverage-scaled stop-loss level. Low leverage
// (<= 3) gets a flat stop instead of the scaled one.
func (em *exitManager) stopThreshold(leverage int) float64 {
	if leverage <= 3 {
		return -em.flatStopPct
	}
	return -em.stopBudgetPct / float64(leverage)
}

// evaluate returns a CLOSE decision when an exit rule fires, nil to keep
// holding.
func (em *exitManager) evaluate(pnlPct float64, leverage int) *types.Decision {
	if pnlPct >= em.majorTargetPct {
		return &types.Decision{
			Action: types.ActionClose,
			Reason: fmt.Sprintf("Major profit target hit: +%.1f%%", pnlPct),
		}
	}
	if pnlPct >= em.targetPct {
		return &types.Decision{
			Action: types.ActionClose,
			Reason: fmt.Sprintf("Profit target hit: +%.1f%%", pnlPct),
		}
	}

	// No trailing-stop rule: it would need a peak-pnl field the snapshot
	// does not carry, and a single instantaneous reading cannot stand in
	// for one.

	threshold := em.stopThreshold(leverage)
	if pnlPct <= threshold {
		return &types.Decision{
			Action: types.ActionClose,
			Reason: fmt.Sprintf("Stop loss hit: %.1f%% (threshold %.1f%% at %dx)", pnlPct, threshold, leverage),
		}
	}
	if pnlPct < em.earlyCutPct && pnlPct > threshold {
		return &types.Decision{
			Action: types.ActionClose,
			Reason: fmt.Sprintf("Cutting small loss early: %.1f%%", pnlPct),
		}
	}
	return nil
}
