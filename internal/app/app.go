// Package app assembles the pitch pipeline and its optional sinks from config.
package app

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/hetulpatel/PitchDeck/internal/config"
	"github.com/hetulpatel/PitchDeck/internal/extract"
	kafkautil "github.com/hetulpatel/PitchDeck/internal/kafka"
	"github.com/hetulpatel/PitchDeck/internal/llm"
	"github.com/hetulpatel/PitchDeck/internal/logging"
	"github.com/hetulpatel/PitchDeck/internal/pitch"
	"github.com/hetulpatel/PitchDeck/internal/ratelimit"
	sqlstore "github.com/hetulpatel/PitchDeck/internal/storage/sqlite"
)

// NewExtractor applies the configured caps.
func NewExtractor(cfg *config.Config) *extract.Extractor {
	return extract.New(extract.Config{
		MaxChars:    cfg.FileCharLimit,
		MaxPDFPages: cfg.PDFMaxPages,
	})
}

// NewGenerator builds the generator. Without an API key it runs in
// fallback-only mode.
func NewGenerator(cfg *config.Config) (*pitch.Generator, error) {
	genCfg := pitch.Config{
		MaxContextChars: cfg.ContextCharLimit,
		TwoStage:        cfg.TwoStage,
	}
	if !cfg.AIConfigured() {
		logging.Warnf("[app] OPENAI_API_KEY not set; pitches will use the fallback template")
		return pitch.NewGenerator(genCfg), nil
	}
	client, err := llm.New(llm.Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	genCfg.LLM = client
	logging.Infof("[app] using model %s (reasoning=%t, two_stage=%t)", client.Model(), llm.IsReasoningModel(client.Model()), cfg.TwoStage)
	return pitch.NewGenerator(genCfg), nil
}

// OpenRunLog opens the SQLite run log when SQLITE_PATH is set. A nil store
// means the log is disabled.
func OpenRunLog(ctx context.Context, cfg *config.Config) (*sqlstore.Store, error) {
	if cfg.SQLitePath == "" {
		return nil, nil
	}
	store, err := sqlstore.Open(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := store.CreateTables(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	logging.Infof("[app] run log at %s", store.Path())
	return store, nil
}

// NewLimiter returns nil when REDIS_ADDR is unset.
func NewLimiter(cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	limiter, err := ratelimit.NewRedis(ratelimit.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Limit:    cfg.RateLimitPerMinute,
	})
	if err != nil {
		return nil, fmt.Errorf("init rate limiter: %w", err)
	}
	logging.Infof("[app] rate limiting to %d generate calls per minute per client", cfg.RateLimitPerMinute)
	return limiter, nil
}

// SetupWriter connects the run event stream when KAFKA_BROKERS is set. An
// unreachable broker disables the stream rather than failing start-up.
func SetupWriter(ctx context.Context, cfg *config.Config) *kafkago.Writer {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	brokers := cfg.KafkaBrokers
	waitCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := kafkautil.WaitForBroker(waitCtx, brokers); err != nil {
		logging.Warnf("[app] kafka unavailable, run events disabled: %v", err)
		return nil
	}
	ensureCtx, cancelEnsure := context.WithTimeout(ctx, 15*time.Second)
	if err := kafkautil.EnsureTopic(ensureCtx, brokers, cfg.EventsTopic); err != nil {
		logging.Warnf("[app] ensure topic %s warning: %v", cfg.EventsTopic, err)
	}
	cancelEnsure()
	logging.Infof("[app] publishing runs to %s on %v", cfg.EventsTopic, brokers)
	return kafkautil.NewWriter(brokers, cfg.EventsTopic)
}
