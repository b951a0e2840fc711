package engineobs

import (
	"context"
	"time"

	"momentum-trading-bot/internal/interfaces"
	"momentum-trading-bot/internal/logger"
	"momentum-trading-bot/internal/trace"
	"momentum-trading-bot/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Decide(ctx context.Context, snap *types.Snapshot) *types.Decision {
	ctx, span := trace.StartSpan(ctx, "engine.Decide")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting decision tick",
		"day", snap.Day,
		"minute_of_day", snap.MinuteOfDay,
		"position_open", snap.Position.IsOpen,
	)

	dec := oe.engine.Decide(ctx, snap)

	logger.InfoSkip(ctx, 1, "Decision tick completed",
		"action", dec.Action,
		"ticker", dec.Ticker,
		"reason", dec.Reason,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return dec
}

func (oe *observableEngine) Reset(initialBalance float64) {
	logger.Info(context.Background(), "Session reset requested", "initial_balance", initialBalance)
	oe.engine.Reset(initialBalance)
}

func (oe *observableEngine) State() types.SessionSummary {
	return oe.engine.State()
}
