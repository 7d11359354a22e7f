// Package config loads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
)

// Config holds all settings consumed by the extraction pipeline.
type Config struct {
	Env             string        // debug, dev or prod; selects log verbosity
	Port            string        // HTTP listen port
	NavTimeout      time.Duration // per-fetch browser navigation timeout
	Headless        bool          // run Chrome headless
	AnthropicAPIKey string
	AnthropicModel  string
	RedisAddr       string // empty disables memoization
}

// Load reads a .env file if present and resolves all settings, applying
// defaults for anything unset.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:             getenv("ENV", "debug"),
		Port:            getenv("PORT", "8000"),
		NavTimeout:      time.Duration(getenvInt("NAV_TIMEOUT_MS", 10000)) * time.Millisecond,
		Headless:        getenvBool("HEADLESS", true),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getenv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
	}
}

// LogLevel maps the environment tier to a log verbosity.
func (c Config) LogLevel() log.Level {
	switch c.Env {
	case "debug":
		return log.TraceLevel
	case "dev":
		return log.DebugLevel
	case "prod":
		return log.InfoLevel
	default:
		return log.InfoLevel
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring non-integer environment value")
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring non-boolean environment value")
		return fallback
	}
	return b
}
