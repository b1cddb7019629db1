package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the process reads from the environment.
// A .env file is honoured when present.
type Config struct {
	Port         string
	DatabaseURL  string   // empty means run on the in-memory store
	KafkaBrokers []string // empty means event publishing is disabled
	BusinessName string   // used in WhatsApp reminder copy
	LogLevel     string
}

// Load reads the configuration once at startup. The result is passed in to
// whatever needs it; nothing here is cached as ambient global state.
func Load() Config {
	godotenv.Load()

	cfg := Config{
		Port:         getenv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		BusinessName: getenv("BUSINESS_NAME", "FinanzasPro"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

// NewLogger builds the JSON-structured logger the whole process shares.
func NewLogger(cfg Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
