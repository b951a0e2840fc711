// Package server is the thin network listener in front of the decision
// engine: it receives one snapshot per tick, returns the engine's decision,
// and exposes the session lifecycle hooks. No trading logic lives here.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"momentum-trading-bot/internal/interfaces"
	"momentum-trading-bot/internal/journal"
	"momentum-trading-bot/internal/logger"
	"momentum-trading-bot/internal/metrics"
	"momentum-trading-bot/internal/types"
)

type Server struct {
	router  *gin.Engine
	engine  interfaces.Engine
	journal *journal.Journal
	apiKey  string
	httpSrv *http.Server
}

// New builds the server around an engine and an optional journal (nil
// disables journaling).
func New(eng interfaces.Engine, jrn *journal.Journal, apiKey string, port int) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:  router,
		engine:  eng,
		journal: jrn,
		apiKey:  apiKey,
		httpSrv: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Prometheus scrape endpoint stays outside the API key gate.
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := s.router.Group("/", s.authMiddleware())
	{
		authed.GET("/health", s.handleHealth)
		authed.POST("/reset", s.handleReset)
		authed.POST("/start", s.handleStart)
		authed.POST("/tick", s.handleTick)
		authed.POST("/end", s.handleEnd)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("route not found: %s %s", c.Request.Method, c.Request.URL.Path),
		})
	})
}

// authMiddleware gates every API route behind the shared X-API-Key header.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-API-Key") != s.apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"session": s.engine.State(),
	})
}

func (s *Server) handleReset(c *gin.Context) {
	var body struct {
		InitialBalance float64 `json:"initial_balance"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.InitialBalance <= 0 {
		body.InitialBalance = 1000
	}
	s.engine.Reset(body.InitialBalance)
	c.JSON(http.StatusOK, gin.H{"status": "reset_complete"})
}

func (s *Server) handleStart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) handleEnd(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "done",
		"session": s.engine.State(),
	})
}

// handleTick decodes the minute snapshot, asks the engine for its decision,
// and records the outcome. Missing snapshot fields are fine (the engine
// defaults them); only an unparseable body is rejected.
func (s *Server) handleTick(c *gin.Context) {
	var snap types.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid snapshot: %v", err)})
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	dec := s.engine.Decide(ctx, &snap)

	state := s.engine.State()
	metrics.DecisionTaken(dec.Action)
	metrics.ObserveTick(snap.Account.Balance, state.TradesToday, time.Since(start))

	if s.journal != nil {
		rec := journal.Record{
			Day:      snap.Day,
			Minute:   snap.MinuteOfDay,
			Action:   dec.Action,
			Ticker:   dec.Ticker,
			Leverage: dec.Leverage,
			SizePct:  dec.SizePct,
			Reason:   dec.Reason,
			Balance:  snap.Account.Balance,
		}
		if err := s.journal.Append(ctx, rec); err != nil {
			logger.Warn(ctx, "Failed to journal decision", "error", err)
		}
	}

	c.JSON(http.StatusOK, dec)
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	logger.Info(context.Background(), "HTTP listener starting", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
