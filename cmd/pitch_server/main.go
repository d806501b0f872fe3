package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hetulpatel/PitchDeck/internal/app"
	"github.com/hetulpatel/PitchDeck/internal/config"
	"github.com/hetulpatel/PitchDeck/internal/logging"
	"github.com/hetulpatel/PitchDeck/internal/server"
)

func main() {
	config.LoadDotenv()
	logging.InitFromEnv()
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("[pitch_server] %v", err)
	}

	generator, err := app.NewGenerator(cfg)
	if err != nil {
		logging.Fatalf("[pitch_server] %v", err)
	}

	opts := server.Options{
		Generator:         generator,
		Extractor:         app.NewExtractor(cfg),
		Model:             cfg.Model,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	}

	store, err := app.OpenRunLog(ctx, cfg)
	if err != nil {
		logging.Fatalf("[pitch_server] %v", err)
	}
	if store != nil {
		defer store.Close()
		opts.Runs = store
	}

	limiter, err := app.NewLimiter(cfg)
	if err != nil {
		logging.Fatalf("[pitch_server] %v", err)
	}
	if limiter != nil {
		defer limiter.Close()
		opts.Limiter = limiter
	}

	if writer := app.SetupWriter(ctx, cfg); writer != nil {
		defer writer.Close()
		opts.Events = writer
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Generation can take as long as the LLM timeout, twice with the facts pass.
		WriteTimeout: 2*cfg.Timeout + 30*time.Second,
	}

	go func() {
		logging.Infof("[pitch_server] listening on %s (ai_configured=%t log_level=%s)", cfg.Addr(), cfg.AIConfigured(), logging.Current())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatalf("[pitch_server] server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Infof("[pitch_server] shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("[pitch_server] shutdown: %v", err)
	}
}
