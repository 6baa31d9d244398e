package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/KevMathews/jeopardy/internal/config"
	"github.com/KevMathews/jeopardy/internal/httpapi"
	"github.com/KevMathews/jeopardy/internal/hub"
	"github.com/KevMathews/jeopardy/internal/session"
	"github.com/KevMathews/jeopardy/internal/store"
	"github.com/KevMathews/jeopardy/internal/trivia"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	var kv store.Store
	if cfg.RedisAddr != "" {
		rs := store.NewRedisStore(cfg.RedisAddr)
		if err := rs.Ping(ctx); err != nil {
			// Storage is best-effort durability; the game runs fine without it.
			logger.Warn("redis unreachable, falling back to in-memory store", zap.Error(err))
			kv = store.NewMemoryStore()
		} else {
			kv = rs
		}
	} else {
		kv = store.NewMemoryStore()
	}
	adapter := store.NewAdapter(kv, logger)

	gateway := trivia.NewClient(cfg.TriviaAPIBase)

	h := hub.NewHub(ctx, gateway, adapter, session.Options{
		Logger: logger,
		Timings: session.Timings{
			BuzzWindow:            cfg.BuzzWindow,
			AnswerWindow:          cfg.AnswerWindow,
			RevealDelay:           cfg.RevealDelay,
			DailyDoubleCloseDelay: cfg.DailyDoubleCloseDelay,
		},
	})

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, logger)

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
