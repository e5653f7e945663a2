package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDriver     string
	DBDSN        string
	LogFile      string
	Environment  string
	TemplatesDir string
	CatalogTTL   time.Duration
	CORSOrigins  string
	RateLimitMax int
}

func (c Config) IsProduction() bool { return c.Environment == "production" }

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] .env not found, using process environment")
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DBDriver:     getEnv("DB_DRIVER", "sqlite"),
		DBDSN:        getEnv("DB_DSN", "customcars.db"), // sqlite file in project root
		LogFile:      getEnv("LOG_FILE", "./customcars.log"),
		Environment:  getEnv("GO_ENV", "development"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "./web/templates"),
		CatalogTTL:   getEnvAsDuration("CATALOG_TTL", 5*time.Minute),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		RateLimitMax: getEnvAsInt("RATE_LIMIT_MAX", 60),
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s LOG_FILE=%s GO_ENV=%s CATALOG_TTL=%s",
		cfg.Port, cfg.DBDriver, cfg.LogFile, cfg.Environment, cfg.CatalogTTL)
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return fallback
}
