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
	Env  string
	Host string
	Port int

	DBURL string

	JWTSecret string

	AdminEmail    string
	AdminPassword string
	AdminName     string

	CORSOrigins []string

	OTLPEndpoint string
}

func Load() Config {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	host := getEnv("HOST", "0.0.0.0")
	port := getEnvInt("PORT", 3000)
	dbURL := buildDBURL()

	return Config{
		Env:           env,
		Host:          host,
		Port:          port,
		DBURL:         dbURL,
		JWTSecret:     getEnv("JWT_SECRET", "dev-only-secret-change-me"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@dumbcrm.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		AdminName:     getEnv("ADMIN_NAME", "Admin User"),
		CORSOrigins:   getEnvList("CORS_ORIGINS", "http://localhost:5173"),
		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

func buildDBURL() string {
	// a full DATABASE_URL wins over the individual parts
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "dumbcrm")
	pass := getEnv("DB_PASSWORD", "dumbcrm")
	name := getEnv("DB_NAME", "dumbcrm")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
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

func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)

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
