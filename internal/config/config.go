package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries everything the server needs from the environment.
type Config struct {
	ListenAddr string
	LogLevel   string

	// Postgres DSN, e.g. "host=localhost user=... dbname=mercadogo ...".
	DatabaseDSN string

	// Redis is optional; when Addr is empty the rate limiter is disabled.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Supabase auth. JWTSecret enables local verification; URL+AnonKey are
	// the network fallback.
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	// Chat send rate limit, applied only when Redis is configured.
	ChatRateLimit  int
	ChatRateWindow time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads configuration from the environment. The caller is expected to
// have run godotenv.Load() first in development.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseDSN:       os.Getenv("DB_CONNECTION_STRING"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:   os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		ChatRateLimit:     getEnvInt("CHAT_RATE_LIMIT", 20),
		ChatRateWindow:    getEnvDuration("CHAT_RATE_WINDOW", time.Minute),
		ReadTimeout:       getEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:      getEnvDuration("WRITE_TIMEOUT", 10*time.Second),
	}

	if cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("DB_CONNECTION_STRING is required")
	}
	if cfg.SupabaseJWTSecret == "" && (cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "") {
		return Config{}, fmt.Errorf("either SUPABASE_JWT_SECRET or SUPABASE_URL + SUPABASE_ANON_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
