package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/PitchDeck/internal/config"
)

var allKeys = []string{
	"PORT", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "USE_CHEAP_MODEL",
	"OPENAI_CHEAP_MODEL", "OPENAI_TEMPERATURE", "OPENAI_MAX_TOKENS", "OPENAI_TIMEOUT",
	"TWO_STAGE_GENERATION", "FILE_CHAR_LIMIT", "CONTEXT_CHAR_LIMIT", "PDF_MAX_PAGES",
	"MAX_UPLOAD_BYTES", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "RATE_LIMIT_PER_MINUTE",
	"SQLITE_PATH", "KAFKA_BROKERS", "PITCH_EVENTS_TOPIC", "TRUST_PROXY_HEADERS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 5001, cfg.Port)
	require.Equal(t, ":5001", cfg.Addr())
	require.False(t, cfg.AIConfigured())
	require.Equal(t, config.DefaultModel, cfg.Model)
	require.InDelta(t, 0.7, cfg.Temperature, 1e-6)
	require.Equal(t, 4000, cfg.MaxTokens)
	require.Equal(t, 60*time.Second, cfg.Timeout)
	require.True(t, cfg.TwoStage)
	require.Equal(t, 10000, cfg.FileCharLimit)
	require.Equal(t, 5000, cfg.ContextCharLimit)
	require.Equal(t, 20, cfg.PDFMaxPages)
	require.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, 10, cfg.RateLimitPerMinute)
	require.Empty(t, cfg.SQLitePath)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, config.DefaultEventsTopic, cfg.EventsTopic)
	require.False(t, cfg.TrustProxyHeaders)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8088")
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("OPENAI_MODEL", "gpt-4.1")
	t.Setenv("OPENAI_TIMEOUT", "15s")
	t.Setenv("TWO_STAGE_GENERATION", "false")
	t.Setenv("FILE_CHAR_LIMIT", "2000")
	t.Setenv("CONTEXT_CHAR_LIMIT", "1000")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9093,")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "3")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 8088, cfg.Port)
	require.True(t, cfg.AIConfigured())
	require.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	require.Equal(t, "gpt-4.1", cfg.Model)
	require.Equal(t, 15*time.Second, cfg.Timeout)
	require.False(t, cfg.TwoStage)
	require.Equal(t, 2000, cfg.FileCharLimit)
	require.Equal(t, 1000, cfg.ContextCharLimit)
	require.Equal(t, []string{"a:9092", "b:9093"}, cfg.KafkaBrokers)
	require.Equal(t, 3, cfg.RateLimitPerMinute)
}

func TestCheapModelToggle(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_MODEL", "gpt-4.1")
	t.Setenv("USE_CHEAP_MODEL", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.True(t, cfg.UseCheapModel)
	require.Equal(t, config.DefaultCheapModel, cfg.Model)

	t.Setenv("OPENAI_CHEAP_MODEL", "gpt-3.5-turbo")
	cfg, err = config.Load()
	require.NoError(t, err)
	require.Equal(t, "gpt-3.5-turbo", cfg.Model)
}

func TestLoadRejectsInvalidLimits(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTEXT_CHAR_LIMIT", "0")
	_, err := config.Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("PORT", "70000")
	_, err = config.Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "-1")
	_, err = config.Load()
	require.Error(t, err)
}

func TestLoadRejectsTemperatureTheAPIWouldDrop(t *testing.T) {
	for _, raw := range []string{"0", "-0.5", "2.5"} {
		clearEnv(t)
		t.Setenv("OPENAI_TEMPERATURE", raw)
		_, err := config.Load()
		require.ErrorContains(t, err, "OPENAI_TEMPERATURE", raw)
	}

	clearEnv(t)
	t.Setenv("OPENAI_TEMPERATURE", "0.01")
	cfg, err := config.Load()
	require.NoError(t, err)
	require.InDelta(t, 0.01, cfg.Temperature, 1e-6)
}

func TestLoadTrustProxyHeaders(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUST_PROXY_HEADERS", "true")
	cfg, err := config.Load()
	require.NoError(t, err)
	require.True(t, cfg.TrustProxyHeaders)
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PDF_MAX_PAGES=5\n"), 0o600))
	require.NoError(t, os.Unsetenv("PDF_MAX_PAGES"))

	config.LoadDotenv(path)
	t.Cleanup(func() { _ = os.Unsetenv("PDF_MAX_PAGES") })

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.PDFMaxPages)
}
