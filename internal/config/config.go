package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultModel       = "gpt-4o"
	DefaultCheapModel  = "gpt-4o-mini"
	DefaultPort        = 5001
	DefaultEventsTopic = "pitch.runs"
)

// Config is built once at start-up and shared read-only by every request.
type Config struct {
	Port int
	// TrustProxyHeaders takes the client address from X-Forwarded-For /
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool

	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	UseCheapModel bool
	Temperature   float32
	MaxTokens     int
	Timeout       time.Duration
	TwoStage      bool

	FileCharLimit    int
	ContextCharLimit int
	PDFMaxPages      int
	MaxUploadBytes   int64

	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitPerMinute int

	SQLitePath string

	KafkaBrokers []string
	EventsTopic  string
}

// LoadDotenv loads a .env file when present. Missing files are ignored.
func LoadDotenv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	model := envString("OPENAI_MODEL", DefaultModel)
	cheap := envBool("USE_CHEAP_MODEL", false)
	if cheap {
		model = envString("OPENAI_CHEAP_MODEL", DefaultCheapModel)
	}

	c := &Config{
		Port:              envInt("PORT", DefaultPort),
		TrustProxyHeaders: envBool("TRUST_PROXY_HEADERS", false),

		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL: envString("OPENAI_BASE_URL", ""),
		Model:         model,
		UseCheapModel: cheap,
		Temperature:   envFloat32("OPENAI_TEMPERATURE", 0.7),
		MaxTokens:     envInt("OPENAI_MAX_TOKENS", 4000),
		Timeout:       envDuration("OPENAI_TIMEOUT", 60*time.Second),
		TwoStage:      envBool("TWO_STAGE_GENERATION", true),

		FileCharLimit:    envInt("FILE_CHAR_LIMIT", 10000),
		ContextCharLimit: envInt("CONTEXT_CHAR_LIMIT", 5000),
		PDFMaxPages:      envInt("PDF_MAX_PAGES", 20),
		MaxUploadBytes:   int64(envInt("MAX_UPLOAD_BYTES", 32<<20)),

		RedisAddr:          envString("REDIS_ADDR", ""),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            envInt("REDIS_DB", 0),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 10),

		SQLitePath: envString("SQLITE_PATH", ""),

		KafkaBrokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  envString("PITCH_EVENTS_TOPIC", DefaultEventsTopic),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects limits that would make the pipeline meaningless.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT must be between 1 and 65535")
	}
	if c.FileCharLimit <= 0 {
		return fmt.Errorf("config: FILE_CHAR_LIMIT must be positive")
	}
	if c.ContextCharLimit <= 0 {
		return fmt.Errorf("config: CONTEXT_CHAR_LIMIT must be positive")
	}
	if c.PDFMaxPages < 0 {
		return fmt.Errorf("config: PDF_MAX_PAGES cannot be negative")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: MAX_UPLOAD_BYTES must be positive")
	}
	// The chat API omits a zero temperature and applies its own default of 1.
	if c.Temperature <= 0 || c.Temperature > 2 {
		return fmt.Errorf("config: OPENAI_TEMPERATURE must be in (0, 2]; use a small value such as 0.01 for near-deterministic output")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("config: OPENAI_MAX_TOKENS must be positive")
	}
	if c.RedisAddr != "" && c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must be positive when REDIS_ADDR is set")
	}
	return nil
}

// AIConfigured reports whether an API key was supplied.
func (c *Config) AIConfigured() bool {
	return c != nil && c.OpenAIAPIKey != ""
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envString(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return def
}

func envFloat32(key string, def float32) float32 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 32); err == nil {
			return float32(parsed)
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return def
}

func splitAndTrim(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
