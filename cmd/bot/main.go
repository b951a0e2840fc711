package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"momentum-trading-bot/internal/logger"
	"momentum-trading-bot/internal/trace"
)

func main() {
	ctx := context.Background()

	if err := initializeSystem(); err != nil {
		os.Exit(1)
	}

	app, err := bootstrap(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Bootstrap failed", err)
		os.Exit(1)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		errc <- app.server.Run()
	}()

	select {
	case sig := <-sigc:
		logger.Info(ctx, "Shutting down", "signal", sig.String())
	case err := <-errc:
		if err != nil {
			logger.ErrorWithErr(ctx, "HTTP listener failed", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "Server shutdown incomplete", "error", err)
	}
	if app.journal != nil {
		if err := app.journal.Close(); err != nil {
			logger.Warn(ctx, "Journal close failed", "error", err)
		}
	}
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "Tracer shutdown failed", "error", err)
	}
}
