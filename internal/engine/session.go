package engine

import (
	"context"

	"momentum-trading-bot/internal/logger"
	"momentum-trading-bot/internal/types"
)

// sessionState is the per-trading-day mutable bookkeeping owned exclusively
// by the engine. It is created fresh whenever a new day identifier is
// observed and survives only for the life of the process; durable history
// is the collaborator's concern.
type sessionState struct {
	day               string
	tradesToday       int
	maxDailyTrades    int
	balanceAtStart    float64
	peakBalance       float64
	profitLocked      bool
	consecutiveWins   int
	consecutiveLosses int
	lastTradeMinute   int
	winningTrades     []float64 // realized pnl% per winning close, in order
	losingTrades      []float64 // realized pnl% per losing close, in order
}

func newSessionState(maxDailyTrades int) *sessionState {
	return &sessionState{
		maxDailyTrades:  maxDailyTrades,
		lastTradeMinute: -1,
	}
}

// reset reinitializes all per-day state around the given starting balance.
// Idempotent: resetting twice for the same day and balance is harmless.
func (s *sessionState) reset(day string, balance float64) {
	s.day = day
	s.tradesToday = 0
	s.balanceAtStart = balance
	s.peakBalance = balance
	s.profitLocked = false
	s.consecutiveWins = 0
	s.consecutiveLosses = 0
	s.lastTradeMinute = -1
	s.winningTrades = nil
	s.losingTrades = nil
}

// ensureDay resets the session when the snapshot carries an unseen day
// identifier. Must run before any breaker logic so that every gate sees
// state belonging to the snapshot's own day. Returns true on rollover.
func (s *sessionState) ensureDay(ctx context.Context, day string, balance float64) bool {
	if s.day == day {
		return false
	}
	prev := s.day
	s.reset(day, balance)
	if prev != "" {
		logger.Info(ctx, "Session day rollover", "previous_day", prev, "day", day, "balance_at_start", balance)
	}
	return true
}

// trackPeak keeps peakBalance monotonically non-decreasing within the day.
func (s *sessionState) trackPeak(balance float64) {
	if balance > s.peakBalance {
		s.peakBalance = balance
	}
}

// recordClose applies the bookkeeping for a realized close: trade count,
// win/loss streaks (mutually exclusive), trade lists, and the last-trade
// minute used by the loss-streak cooldown.
func (s *sessionState) recordClose(ctx context.Context, pnlPct float64, minute int) {
	s.tradesToday++
	s.lastTradeMinute = minute

	if pnlPct > 0 {
		s.consecutiveWins++
		s.consecutiveLosses = 0
		s.winningTrades = append(s.winningTrades, pnlPct)
	} else {
		s.consecutiveLosses++
		s.consecutiveWins = 0
		s.losingTrades = append(s.losingTrades, pnlPct)
	}

	logger.Info(ctx, "Trade closed",
		"pnl_pct", pnlPct,
		"trades_today", s.tradesToday,
		"consecutive_wins", s.consecutiveWins,
		"consecutive_losses", s.consecutiveLosses,
	)
}

// changeFromStartPct is the intraday gain/loss relative to the balance at
// session start, in percent. Zero when the start balance is unknown.
func (s *sessionState) changeFromStartPct(balance float64) float64 {
	if s.balanceAtStart == 0 {
		return 0
	}
	return (balance - s.balanceAtStart) / s.balanceAtStart * 100.0
}

// drawdownFromPeakPct is the giveback from the intraday peak, in percent.
func (s *sessionState) drawdownFromPeakPct(balance float64) float64 {
	if s.peakBalance == 0 {
		return 0
	}
	return (s.peakBalance - balance) / s.peakBalance * 100.0
}

// summary returns the read-only view used by status and health reporting.
func (s *sessionState) summary() types.SessionSummary {
	return types.SessionSummary{
		Day:               s.day,
		TradesToday:       s.tradesToday,
		ConsecutiveWins:   s.consecutiveWins,
		ConsecutiveLosses: s.consecutiveLosses,
		ProfitLocked:      s.profitLocked,
		BalanceAtStart:    s.balanceAtStart,
		PeakBalance:       s.peakBalance,
		WinningTrades:     len(s.winningTrades),
		LosingTrades:      len(s.losingTrades),
	}
}
