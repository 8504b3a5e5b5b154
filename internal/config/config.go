// Package config loads the defaults shared by the jsonrepair subcommands:
// an optional .env file, overridable by whatever flags the caller bound on
// top of it. Neither layer is required — every field has a usable zero-ish
// default — since the core repair library itself takes no configuration.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the settings shared across the fix/serve/watch subcommands.
type Config struct {
	LogLevel       string
	RedisAddr      string
	CacheTTLSecs   int
	ListenAddr     string
	WatchDebounceMs int
}

// Defaults returns the built-in values used when neither .env nor a flag
// supplies one.
func Defaults() Config {
	return Config{
		LogLevel:        "info",
		RedisAddr:       "",
		CacheTTLSecs:    600,
		ListenAddr:      "127.0.0.1:8080",
		WatchDebounceMs: 250,
	}
}

// Load reads envPath (if it exists) into the process environment and
// overlays its values onto cfg. A missing .env file is not an error: it is
// the common case when the CLI is driven entirely by flags.
func Load(envPath string, cfg Config) Config {
	if envPath == "" {
		envPath = ".env"
	}

	if err := godotenv.Load(envPath); err != nil {
		logrus.WithField("path", envPath).Debug("no env file loaded, using flags and defaults")
	}

	if v := os.Getenv("JSONREPAIR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("JSONREPAIR_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("JSONREPAIR_CACHE_TTL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheTTLSecs = n
		}
	}
	if v := os.Getenv("JSONREPAIR_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("JSONREPAIR_WATCH_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.WatchDebounceMs = n
		}
	}

	return cfg
}

// NewLogger builds a logrus logger at the level named by cfg.LogLevel,
// falling back to Info on an unrecognized name.
func NewLogger(cfg Config) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
