package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var defaultModels = map[string]string{
	ProviderGemini: "gemini-2.0-flash",
	ProviderOpenAI: "gpt-4o-mini",
}

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	ToolsFile string // JSON collection on disk

	// Enrichment
	AIProvider     string // "gemini" | "openai"
	AIModel        string
	GeminiAPIKey   string
	OpenAIAPIKey   string
	OpenAIBaseURL  string // optional, OpenAI-compatible endpoints
	PromptFile     string // optional YAML override of the embedded prompt
	EnrichTimeout  time.Duration
	RequestTimeout time.Duration

	// Access guard
	AppPassword       string
	SessionTTL        time.Duration
	SessionGCInterval time.Duration
	SecureCookie      bool
	AddRateBurst      int
	AddRatePerMin     int

	// Redis, optional. Empty address keeps sessions in memory.
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold  int

	AllowedHosts []string // optional, restrict access to specific Host headers (globs allowed)
	AllowedCIDRS []string // optional, restrict /infra to these IPs or CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For / X-Real-IP
}

// Load reads the environment, after an optional .env file, and returns the
// configuration. Missing required values are reported as an error carrying the
// FATAL message of the helper that rejected them.
func Load() (cfg *Config, err error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			cfg, err = nil, fmt.Errorf("%v", r)
		}
	}()

	return mustLoad(), nil
}

func mustLoad() *Config {
	provider := strings.ToLower(getenv("TOOLSHELF_AI_PROVIDER", ProviderGemini))
	defModel, ok := defaultModels[provider]
	if !ok {
		panic(fmt.Sprintf("❌ FATAL: Unknown TOOLSHELF_AI_PROVIDER %q (expected gemini or openai)", provider))
	}

	cfg := &Config{
		ListenPort:      getenv("TOOLSHELF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TOOLSHELF_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("TOOLSHELF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TOOLSHELF_PRETTY_LOG", true),

		ToolsFile: getenv("TOOLSHELF_TOOLS_FILE", "tools.json"),

		AIProvider:     provider,
		AIModel:        getenv("TOOLSHELF_AI_MODEL", defModel),
		OpenAIBaseURL:  getenv("TOOLSHELF_OPENAI_BASE_URL", ""),
		PromptFile:     getenv("TOOLSHELF_PROMPT_FILE", ""),
		EnrichTimeout:  mustDuration("TOOLSHELF_ENRICH_TIMEOUT", 60*time.Second),
		RequestTimeout: mustDuration("TOOLSHELF_REQUEST_TIMEOUT", 10*time.Second),

		AppPassword:       requireEnv("APP_PASSWORD"),
		SessionTTL:        mustDuration("TOOLSHELF_SESSION_TTL", 24*time.Hour),
		SessionGCInterval: mustDuration("TOOLSHELF_SESSION_GC_INTERVAL", 10*time.Minute),
		SecureCookie:      mustBool("TOOLSHELF_SECURE_COOKIE", false),
		AddRateBurst:      getenvInt("TOOLSHELF_ADD_RATE_BURST", 5),
		AddRatePerMin:     getenvInt("TOOLSHELF_ADD_RATE_PER_MIN", 10),

		RedisAddr:           getenv("TOOLSHELF_REDIS_ADDR", ""),
		RedisUser:           getenv("TOOLSHELF_REDIS_USERNAME", ""),
		RedisPassword:       getenv("TOOLSHELF_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("TOOLSHELF_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		AllowedHosts: splitAndTrim(getenv("TOOLSHELF_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("TOOLSHELF_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("TOOLSHELF_TRUST_PROXY", false),
	}

	switch provider {
	case ProviderGemini:
		cfg.GeminiAPIKey = requireEnv("GEMINI_API_KEY")
	case ProviderOpenAI:
		cfg.OpenAIAPIKey = requireEnv("OPENAI_API_KEY")
	}

	if cfg.AddRateBurst <= 0 || cfg.AddRatePerMin <= 0 {
		panic("❌ FATAL: TOOLSHELF_ADD_RATE_BURST and TOOLSHELF_ADD_RATE_PER_MIN must be positive")
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	for _, s := range []*string{&cp.AppPassword, &cp.GeminiAPIKey, &cp.OpenAIAPIKey, &cp.RedisPassword} {
		if *s != "" {
			*s = "***REDACTED***"
		}
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
