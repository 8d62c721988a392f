package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	APIPrefix       string
	Version         string
	CORSAllowOrigin []string

	OllamaBaseURL string
	OllamaModel   string
	AIMockMode    bool
	AITimeout     time.Duration
	AIMaxRetries  int
	AIRetryDelay  time.Duration

	ResumeStore string
	DatabaseURL string
	MongoURI    string
	MongoDB     string

	RedisURL string
	CacheTTL time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "3000"),
		Env:             normalizeEnv(getEnv("ENV", "development")),
		APIPrefix:       normalizePrefix(getEnv("API_PREFIX", "/api/v1")),
		Version:         getEnv("APP_VERSION", "1.0.0"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		OllamaBaseURL:   strings.TrimRight(getEnv("OLLAMA_BASE_URL", "http://localhost:11434"), "/"),
		OllamaModel:     getEnv("OLLAMA_MODEL", "llama2"),
		AIMockMode:      getBool("AI_MOCK_MODE", false),
		AITimeout:       getDuration("AI_TIMEOUT", 60*time.Second),
		AIMaxRetries:    getInt("AI_MAX_RETRIES", 3),
		AIRetryDelay:    getDuration("AI_RETRY_DELAY", time.Second),
		ResumeStore:     normalizeStore(getEnv("RESUME_STORE", "memory")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "resume_maker"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CacheTTL:        getDuration("CACHE_TTL", 24*time.Hour),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 20),
	}
}

// IsProduction reports whether the config targets production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return val
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		return def
	}
	return val
}

// getDuration accepts Go durations ("90s") or bare milliseconds ("1500").
func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		if ms <= 0 {
			return def
		}
		return time.Duration(ms) * time.Millisecond
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "test":
		return "test"
	default:
		return "development"
	}
}

func normalizePrefix(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "/api/v1"
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return raw
}

func normalizeStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "mongo", "mongodb":
		return "mongo"
	default:
		return "memory"
	}
}
