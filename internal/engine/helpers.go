package engine

import (
	"momentum-trading-bot/internal/types"
)

// defaultBalance stands in for a missing account block so percentage math
// stays meaningful.
const defaultBalance = 1000.0

// normalize fills safe defaults for optional snapshot fields. Decoding
// already zero-values anything absent; this maps those zero values onto
// the defaults the engine expects so no lookup downstream can fault.
func normalize(snap *types.Snapshot) {
	if snap.Account.Balance == 0 {
		snap.Account.Balance = defaultBalance
	}
	if snap.Account.Equity == 0 {
		snap.Account.Equity = snap.Account.Balance
	}
	if snap.Position.IsOpen && snap.Position.Leverage <= 0 {
		snap.Position.Leverage = 1
	}
	if snap.MarketData == nil {
		snap.MarketData = map[string]types.TickerInfo{}
	}
	if snap.History == nil {
		snap.History = map[string][]types.Candle{}
	}
	if snap.Day == "" {
		snap.Day = snap.Date
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
