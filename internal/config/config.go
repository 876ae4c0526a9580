package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env   string
	Port  int
	DBURL string

	JWTSecret  string
	JWTTTLDays int

	// browser origins allowed by the CORS middleware
	AllowedOrigins []string

	// login/register abuse guard
	AuthRateLimit      int
	AuthRateWindowSecs int

	// optional backing for the rate limiter; in-memory when empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ListCacheTTLSecs int

	// OTLP gRPC endpoint; tracing is off when empty
	OTELEndpoint string
}

func Load() Config {
	// .env is a dev convenience, absence is fine
	_ = godotenv.Load()

	return Config{
		Env:                getEnv("APP_ENV", "dev"),
		Port:               getEnvInt("PORT", 8080),
		DBURL:              buildDBURL(),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTLDays:         getEnvInt("JWT_TTL_DAYS", 7),
		AllowedOrigins:     splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		AuthRateLimit:      getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindowSecs: getEnvInt("AUTH_RATE_WINDOW_SECONDS", 60),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		ListCacheTTLSecs:   getEnvInt("LIST_CACHE_TTL_SECONDS", 30),
		OTELEndpoint:       getEnv("OTEL_EXPORTER_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DB_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "clearlist")
	pass := getEnv("DB_PASSWORD", "clearlist")
	name := getEnv("DB_NAME", "clearlist")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
