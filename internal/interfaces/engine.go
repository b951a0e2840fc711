package interfaces

import (
	"context"

	"momentum-trading-bot/internal/types"
)

type Engine interface {
	Decide(ctx context.Context, snap *types.Snapshot) *types.Decision
	Reset(initialBalance float64)
	State() types.SessionSummary
}
