package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects the process-level knobs. Database and storage credentials
// are read by their own packages straight from the environment.
type Config struct {
	Port                  string
	AppEnv                string
	RedisURL              string
	AllowedOrigins        string
	DisableBackgroundJobs bool
	TopListWarmup         time.Duration
}

func Load() *Config {
	return &Config{
		Port:                  getEnv("PORT", "8080"),
		AppEnv:                getEnv("APP_ENV", "development"),
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379/0"),
		AllowedOrigins:        getEnv("ALLOWED_ORIGINS", ""),
		DisableBackgroundJobs: getBool("DISABLE_BACKGROUND_JOBS", false),
		TopListWarmup:         getDuration("TOPLIST_WARMUP_SECONDS", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
