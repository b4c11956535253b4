package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment     string
	HTTPPort        string
	DatabaseURL     string
	ShutdownTimeout time.Duration

	// Three independent signing keyspaces. Tokens signed under one must
	// never validate under another, so the loader rejects duplicates.
	AccessTokenSecret  string
	RefreshTokenSecret string
	VerifyTokenSecret  string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	VerifyTokenTTL  time.Duration

	AdminEmail    string
	AdminPassword string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MailQueue     string

	CookieDomain string

	ServiceName       string
	RateLimitRPM      int
	TelemetryEndpoint string
	TelemetryInsecure bool

	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		ShutdownTimeout:      getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		AccessTokenSecret:    strings.TrimSpace(os.Getenv("ACCESS_TOKEN_SECRET")),
		RefreshTokenSecret:   strings.TrimSpace(os.Getenv("REFRESH_TOKEN_SECRET")),
		VerifyTokenSecret:    strings.TrimSpace(os.Getenv("VERIFY_TOKEN_SECRET")),
		AccessTokenTTL:       getDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL:      getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		VerifyTokenTTL:       getDuration("VERIFY_TOKEN_TTL", 3*24*time.Hour),
		AdminEmail:           strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getInt("REDIS_DB", 0),
		MailQueue:            getEnv("MAIL_QUEUE", "mail:verify"),
		CookieDomain:         os.Getenv("COOKIE_DOMAIN"),
		ServiceName:          getEnv("SERVICE_NAME", "smallpress-blog"),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 600),
		TelemetryEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:    getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" || cfg.VerifyTokenSecret == "" {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET and VERIFY_TOKEN_SECRET are required")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret ||
		cfg.AccessTokenSecret == cfg.VerifyTokenSecret ||
		cfg.RefreshTokenSecret == cfg.VerifyTokenSecret {
		return Config{}, fmt.Errorf("token secrets must be pairwise distinct")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
