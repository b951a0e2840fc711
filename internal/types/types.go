package types

import (
	"encoding/json"

	"momentum-trading-bot/internal/ta"
)

// Candle is one bar of OHLCV history. The upstream feed ships candles as
// fixed-position arrays [open, high, low, close, volume], so decoding
// accepts both the array form and a keyed object.
type Candle struct {
	Open, High, Low, Close, Vol float64
}

func (c *Candle) UnmarshalJSON(b []byte) error {
	var arr []float64
	if err := json.Unmarshal(b, &arr); err == nil {
		if len(arr) >= 5 {
			c.Open, c.High, c.Low, c.Close, c.Vol = arr[0], arr[1], arr[2], arr[3], arr[4]
		}
		return nil
	}
	var obj struct {
		Open  float64 `json:"open"`
		High  float64 `json:"high"`
		Low   float64 `json:"low"`
		Close float64 `json:"close"`
		Vol   float64 `json:"volume"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	c.Open, c.High, c.Low, c.Close, c.Vol = obj.Open, obj.High, obj.Low, obj.Close, obj.Vol
	return nil
}

// AccountState is the account block of a snapshot. Missing fields default
// at the engine boundary, not here.
type AccountState struct {
	Balance       float64 `json:"balance"`
	Equity        float64 `json:"equity"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

// PositionState describes the single open position, if any.
type PositionState struct {
	IsOpen           bool    `json:"is_open"`
	Ticker           string  `json:"ticker"`
	Side             string  `json:"side"` // "long" or "short"
	Leverage         int     `json:"leverage"`
	UnrealizedPnLPct float64 `json:"unrealized_pnl_pct"`
	EntryTime        string  `json:"entry_time"`
}

// TickerInfo is the per-ticker market data block.
type TickerInfo struct {
	Change24hPct float64 `json:"change_24h_pct"`
	Price        float64 `json:"price,omitempty"`
	Volume24h    float64 `json:"volume_24h,omitempty"`
}

// Snapshot is one minute's market/account/position state passed into the
// engine. All fields are optional on the wire; the engine applies safe
// defaults before evaluation.
type Snapshot struct {
	Timestamp         string                `json:"timestamp"`
	MinuteOfDay       int                   `json:"minute_of_day"`
	MinutesRemaining  int                   `json:"minutes_remaining"`
	Account           AccountState          `json:"account"`
	Position          PositionState         `json:"position"`
	MarketData        map[string]TickerInfo `json:"market_data"`
	QualifyingTickers []string              `json:"qualifying_tickers"`
	History           map[string][]Candle   `json:"history"`
	Day               string                `json:"day"`
	Date              string                `json:"date"`
}

// Decision action values.
const (
	ActionHold      = "HOLD"
	ActionClose     = "CLOSE"
	ActionOpenLong  = "OPEN_LONG"
	ActionOpenShort = "OPEN_SHORT"
)

// Decision is the engine's single output per tick.
type Decision struct {
	Action   string `json:"action"`
	Ticker   string `json:"ticker,omitempty"`
	Leverage int    `json:"leverage,omitempty"`
	SizePct  int    `json:"size_pct,omitempty"`
	Reason   string `json:"reason"`
}

// CandidateAnalysis is the transient per-ticker screening result. It is
// never persisted; the screener rebuilds it every pass.
type CandidateAnalysis struct {
	Ticker     string
	Score      float64
	Change24h  float64
	RSI        float64
	Trend      ta.Trend
	Volume     ta.Volume
	Volatility float64
	Direction  string // "LONG" or "SHORT"
}

// SessionSummary is the read-only session state view exposed to the status
// and health reporting surface.
type SessionSummary struct {
	Day               string  `json:"day"`
	TradesToday       int     `json:"trades_today"`
	ConsecutiveWins   int     `json:"consecutive_wins"`
	ConsecutiveLosses int     `json:"consecutive_losses"`
	ProfitLocked      bool    `json:"profit_locked"`
	BalanceAtStart    float64 `json:"balance_at_start"`
	PeakBalance       float64 `json:"peak_balance"`
	WinningTrades     int     `json:"winning_trades"`
	LosingTrades      int     `json:"losing_trades"`
}
