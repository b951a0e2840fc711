package engine

import (
	"context"
	"fmt"

	"momentum-trading-bot/internal/logger"
	"momentum-trading-bot/internal/metrics"
	"momentum-trading-bot/internal/types"
)

// breakerChain applies the ordered risk gates that run before any position
// or entry logic. Each gate may short-circuit the rest of the evaluation by
// returning a forced decision; a nil result means the gate passed and the
// next one runs.
type breakerChain struct {
	dailyLossLimitPct   float64 // e.g. -40: intraday loss that halts trading
	profitLockPct       float64 // intraday gain that arms the profit lock
	profitLockMaxTrades int     // trade throttle once the lock is armed
	lossStreakTrigger   int     // consecutive losses that start a cooldown
	cooldownMinutes     int     // minutes to sit out after a loss streak
	peakDrawdownPct     float64 // giveback from peak that forces a close
	startDelayMinutes   int     // minutes after session open with no trading
	endBufferMinutes    int     // minutes before session end with no trading
}

// evaluate runs every gate in its fixed order. Gates that mutate session
// state (profit-lock arming, cooldown expiry) do so even when they emit no
// decision.
func (b *breakerChain) evaluate(ctx context.Context, snap *types.Snapshot, sess *sessionState) *types.Decision {
	balance := snap.Account.Balance
	open := snap.Position.IsOpen

	// 1. Daily loss limit.
	changePct := sess.changeFromStartPct(balance)
	if changePct < b.dailyLossLimitPct {
		return b.trip(ctx, "daily_loss_limit", open,
			fmt.Sprintf("Daily loss limit hit: %.1f%% (limit %.1f%%)", changePct, b.dailyLossLimitPct))
	}

	// 2. Profit lock arms on the same intraday percentage; it never forces
	// an action by itself.
	if changePct > b.profitLockPct && !sess.profitLocked {
		sess.profitLocked = true
		logger.Info(ctx, "Profit lock armed", "change_pct", changePct, "threshold_pct", b.profitLockPct)
	}

	// 3. Max trades per day.
	if sess.tradesToday >= sess.maxDailyTrades {
		return b.trip(ctx, "max_daily_trades", open,
			fmt.Sprintf("Max daily trades reached (%d/%d)", sess.tradesToday, sess.maxDailyTrades))
	}

	// 4. Loss-streak cooldown. Once the wait is served the streak resets
	// and evaluation falls through.
	if sess.consecutiveLosses >= b.lossStreakTrigger {
		elapsed := snap.MinuteOfDay - sess.lastTradeMinute
		if elapsed < b.cooldownMinutes {
			return b.trip(ctx, "loss_streak_cooldown", false,
				fmt.Sprintf("Cooling down after %d straight losses: %d min remaining",
					sess.consecutiveLosses, b.cooldownMinutes-elapsed))
		}
		logger.Info(ctx, "Loss-streak cooldown served", "losses", sess.consecutiveLosses, "elapsed_min", elapsed)
		sess.consecutiveLosses = 0
	}

	// 5. Drawdown from peak closes an open position; with nothing open the
	// screener below still runs.
	if dd := sess.drawdownFromPeakPct(balance); dd > b.peakDrawdownPct && open {
		metrics.BreakerTrip("peak_drawdown")
		return &types.Decision{
			Action: types.ActionClose,
			Reason: fmt.Sprintf("Drawdown from peak %.1f%% exceeds %.1f%%, closing position", dd, b.peakDrawdownPct),
		}
	}

	// 6. Session-open delay.
	if snap.MinuteOfDay < b.startDelayMinutes {
		return b.trip(ctx, "session_open_delay", false,
			fmt.Sprintf("Waiting out the opening period (minute %d of %d)", snap.MinuteOfDay, b.startDelayMinutes))
	}

	// 7. End-of-day buffer.
	if snap.MinutesRemaining < b.endBufferMinutes {
		return b.trip(ctx, "end_of_day_buffer", open,
			fmt.Sprintf("End of day: %d min remaining (buffer %d)", snap.MinutesRemaining, b.endBufferMinutes))
	}

	// 8. Profit-lock throttle.
	if sess.profitLocked && sess.tradesToday >= b.profitLockMaxTrades {
		return b.trip(ctx, "profit_lock_throttle", open,
			fmt.Sprintf("Profit locked with %d trades done, winding down", sess.tradesToday))
	}

	return nil
}

// trip emits the forced decision for a gate: CLOSE when a position is open
// and the gate wants it flat, HOLD otherwise.
func (b *breakerChain) trip(ctx context.Context, name string, closePosition bool, reason string) *types.Decision {
	metrics.BreakerTrip(name)
	logger.Breaker(ctx, name, reason)
	action := types.ActionHold
	if closePosition {
		action = types.ActionClose
	}
	return &types.Decision{Action: action, Reason: reason}
}
