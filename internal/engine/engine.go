package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"momentum-trading-bot/internal/logger"
	"momentum-trading-bot/internal/store"
	"momentum-trading-bot/internal/types"
)

// Engine is the per-minute decision engine. One call per tick: it updates
// the day's bookkeeping, runs the circuit breakers, then either manages the
// open position or screens for a new entry. Calls are serialized so that a
// day rollover reset is atomic with respect to overlapping callers.
type Engine struct {
	mu       sync.Mutex
	cfg      *store.Config
	sess     *sessionState
	breakers *breakerChain
	exits    *exitManager
	screener *screener
	sizer    *sizer
}

func newEngine(cfg *store.Config) *Engine {
	return &Engine{
		cfg:  cfg,
		sess: newSessionState(cfg.Session.MaxDailyTrades),
		breakers: &breakerChain{
			dailyLossLimitPct:   cfg.Session.DailyLossLimitPct,
			profitLockPct:       cfg.Session.ProfitLockPct,
			profitLockMaxTrades: cfg.Session.ProfitLockMaxTrades,
			lossStreakTrigger:   cfg.Session.LossStreakTrigger,
			cooldownMinutes:     cfg.Session.LossStreakCooldownMin,
			peakDrawdownPct:     cfg.Session.PeakDrawdownPct,
			startDelayMinutes:   cfg.Session.StartDelayMin,
			endBufferMinutes:    cfg.Session.EndBufferMin,
		},
		exits:    newExitManager(),
		screener: newScreener(cfg),
		sizer:    &sizer{minLeverage: cfg.Sizer.MinLeverage, maxLeverage: cfg.Sizer.MaxLeverage},
	}
}

// Decide produces exactly one action for the snapshot's minute. It never
// returns an error: malformed input defaults safely and an internal fault
// surfaces as a HOLD with a truncated diagnostic reason, so a bad tick can
// never abort the caller's loop.
func (e *Engine) Decide(ctx context.Context, snap *types.Snapshot) (dec *types.Decision) {
	e.mu.Lock()
	defer e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Decision evaluation panicked", "panic", fmt.Sprint(r))
			dec = &types.Decision{
				Action: types.ActionHold,
				Reason: "Internal fault, holding: " + truncate(fmt.Sprint(r), 120),
			}
		}
	}()

	normalize(snap)

	e.sess.ensureDay(ctx, snap.Day, snap.Account.Balance)
	e.sess.trackPeak(snap.Account.Balance)

	if d := e.breakers.evaluate(ctx, snap, e.sess); d != nil {
		if d.Action == types.ActionClose && snap.Position.IsOpen {
			e.sess.recordClose(ctx, snap.Position.UnrealizedPnLPct, snap.MinuteOfDay)
		}
		return d
	}

	if snap.Position.IsOpen {
		return e.managePosition(ctx, snap)
	}
	return e.considerEntry(ctx, snap)
}

// managePosition delegates to the exit evaluator and applies the realized
// close bookkeeping when it fires.
func (e *Engine) managePosition(ctx context.Context, snap *types.Snapshot) *types.Decision {
	pos := snap.Position
	if d := e.exits.evaluate(pos.UnrealizedPnLPct, pos.Leverage); d != nil {
		e.sess.recordClose(ctx, pos.UnrealizedPnLPct, snap.MinuteOfDay)
		return d
	}
	return &types.Decision{
		Action: types.ActionHold,
		Reason: fmt.Sprintf("Holding %s %s at %+.1f%%", pos.Ticker, strings.ToLower(pos.Side), pos.UnrealizedPnLPct),
	}
}

// considerEntry screens the qualifying universe and sizes an entry when a
// candidate clears the bar. An empty universe is a normal no-opportunity
// tick, not an error.
func (e *Engine) considerEntry(ctx context.Context, snap *types.Snapshot) *types.Decision {
	if len(snap.MarketData) == 0 || len(snap.QualifyingTickers) == 0 {
		return &types.Decision{Action: types.ActionHold, Reason: "No tradeable market data this minute"}
	}

	cand := e.screener.selectBest(ctx, snap)
	if cand == nil {
		return &types.Decision{Action: types.ActionHold, Reason: "No candidate passed screening"}
	}

	drawdown := -e.sess.changeFromStartPct(snap.Account.Balance)
	if drawdown < 0 {
		drawdown = 0
	}
	leverage, sizePct := e.sizer.size(
		math.Abs(cand.Change24h), cand.Volatility,
		e.sess.consecutiveLosses, e.sess.consecutiveWins, drawdown,
	)

	action := types.ActionOpenLong
	if cand.Direction == "SHORT" {
		action = types.ActionOpenShort
	}

	logger.Decision(ctx, cand.Ticker, action, cand.Score,
		"leverage", leverage,
		"size_pct", sizePct,
		"change_24h", cand.Change24h,
		"rsi", cand.RSI,
		"volume_ratio", cand.Volume.Ratio,
		"volatility", cand.Volatility,
	)

	return &types.Decision{
		Action:   action,
		Ticker:   cand.Ticker,
		Leverage: leverage,
		SizePct:  sizePct,
		Reason: fmt.Sprintf("Momentum entry %s: score %.1f (24h %+.1f%%, RSI %.0f, vol ratio %.2f)",
			cand.Direction, cand.Score, cand.Change24h, cand.RSI, cand.Volume.Ratio),
	}
}

// Reset reinitializes the session state around a fresh starting balance.
// Exposed to the collaborator for explicit session starts.
func (e *Engine) Reset(initialBalance float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.reset("", initialBalance)
}

// State returns a read-only session summary for status reporting. It takes
// no part in decision logic.
func (e *Engine) State() types.SessionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.summary()
}
