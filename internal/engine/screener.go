package engine

import (
	"context"
	"math"

	"momentum-trading-bot/internal/logger"
	"momentum-trading-bot/internal/store"
	"momentum-trading-bot/internal/ta"
	"momentum-trading-bot/internal/types"
)

// Composite score weights. The score blends raw 24h momentum, trend
// strength across windows, volume confirmation, and RSI headroom.
const (
	weightChange = 0.4
	weightTrend  = 0.3
	weightVolume = 0.2
	weightRSI    = 0.1
)

// RSI acceptance bands, direction-dependent: bullish candidates must not be
// overbought or already fading; bearish ones must not be oversold or still
// strong.
const (
	bullRSIMax = 80.0
	bullRSIMin = 40.0
	bearRSIMin = 20.0
	bearRSIMax = 60.0
)

// screener filters and scores tradeable instruments from a snapshot's
// qualifying universe.
type screener struct {
	minHistory       int
	rsiPeriod        int
	trendPeriods     []int
	volumeLookback   int
	volatilityPeriod int
	minChangePct     float64
	maxChangePct     float64
	minVolumeRatio   float64
	minScore         float64
}

func newScreener(cfg *store.Config) *screener {
	return &screener{
		minHistory:       cfg.Screener.MinHistory,
		rsiPeriod:        cfg.Screener.RSIPeriod,
		trendPeriods:     cfg.Screener.TrendPeriods,
		volumeLookback:   cfg.Screener.VolumeLookback,
		volatilityPeriod: cfg.Screener.VolatilityPeriod,
		minChangePct:     cfg.Screener.MinChangePct,
		maxChangePct:     cfg.Screener.MaxChangePct,
		minVolumeRatio:   cfg.Screener.MinVolumeRatio,
		minScore:         cfg.Screener.MinScore,
	}
}

// analyze runs the full filter pipeline for one ticker. Returns nil when
// any filter rejects it.
func (sc *screener) analyze(ticker string, info types.TickerInfo, candles []types.Candle) *types.CandidateAnalysis {
	if len(candles) < sc.minHistory {
		return nil
	}

	change := info.Change24hPct
	absChange := math.Abs(change)
	if absChange < sc.minChangePct || absChange > sc.maxChangePct {
		// Too weak to chase, or so extreme a reversal is likely.
		return nil
	}

	closes := make([]float64, len(candles))
	vols := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		vols[i] = c.Vol
	}

	rsi := ta.RSI(closes, sc.rsiPeriod)
	trend := ta.TrendStrength(closes, sc.trendPeriods)
	volume := ta.VolumeTrend(vols, sc.volumeLookback)
	volatility := ta.Volatility(closes, sc.volatilityPeriod)

	if !trend.Aligned {
		return nil
	}
	// The trend must agree in sign with the 24h move.
	if change > 0 && trend.Direction < 0 {
		return nil
	}
	if change < 0 && trend.Direction > 0 {
		return nil
	}
	if volume.Ratio < sc.minVolumeRatio {
		// Momentum not sustained by volume.
		return nil
	}

	if change > 0 {
		if rsi > bullRSIMax || rsi < bullRSIMin {
			return nil
		}
	} else {
		if rsi < bearRSIMin || rsi > bearRSIMax {
			return nil
		}
	}

	score := weightChange*absChange +
		weightTrend*trend.Strength +
		weightVolume*(math.Min(volume.Ratio, 2.0)*10.0) +
		weightRSI*(50.0-math.Abs(rsi-50.0))

	direction := "LONG"
	if change < 0 {
		direction = "SHORT"
	}

	return &types.CandidateAnalysis{
		Ticker:     ticker,
		Score:      score,
		Change24h:  change,
		RSI:        rsi,
		Trend:      trend,
		Volume:     volume,
		Volatility: volatility,
		Direction:  direction,
	}
}

// selectBest analyzes every qualifying ticker present in the market data
// and returns the highest-scoring survivor, or nil when nothing clears the
// minimum score. Iteration follows the qualifying-ticker order so ties
// resolve to the first seen and repeated calls stay deterministic.
func (sc *screener) selectBest(ctx context.Context, snap *types.Snapshot) *types.CandidateAnalysis {
	var best *types.CandidateAnalysis
	analyzed := 0

	for _, ticker := range snap.QualifyingTickers {
		info, ok := snap.MarketData[ticker]
		if !ok {
			continue
		}
		cand := sc.analyze(ticker, info, snap.History[ticker])
		if cand == nil {
			continue
		}
		analyzed++
		if best == nil || cand.Score > best.Score {
			best = cand
		}
	}

	if best == nil || best.Score < sc.minScore {
		logger.Debug(ctx, "No candidate cleared screening",
			"qualifying", len(snap.QualifyingTickers), "survivors", analyzed)
		return nil
	}

	logger.Debug(ctx, "Best candidate selected",
		"ticker", best.Ticker,
		"score", best.Score,
		"change_24h", best.Change24h,
		"rsi", best.RSI,
		"direction", best.Direction,
	)
	return best
}
