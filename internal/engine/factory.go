package engine

import (
	"momentum-trading-bot/internal/interfaces"
	"momentum-trading-bot/internal/store"
)

func New(cfg *store.Config) interfaces.Engine {
	return newEngine(cfg)
}
