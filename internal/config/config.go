package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const maxWorkers = 10

type Config struct {
	DatabaseURL string
	Port        string
	LogSQL      bool
	AutoMigrate bool

	ImportBaseDir     string
	ImportWorkers     int
	ImportChunkSize   int
	ImportLease       time.Duration
	ImportMaxAttempts int
	PassingScore      float64

	// WatchDir enables the drop-directory sync when non-empty.
	WatchDir      string
	WatchSchedule string
}

// LoadEnv reads .env into the process environment when present. Variables
// already set win over the file.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("[CONFIG] no .env file loaded, using system environment")
		return
	}
	log.Println("[CONFIG] .env file loaded")
}

func Load() Config {
	return Config{
		DatabaseURL: GetEnv("DATABASE_URL", ""),
		Port:        GetEnv("PORT", "8080"),
		LogSQL:      getBool("LOG_SQL", false),
		AutoMigrate: getBool("AUTO_MIGRATE", true),

		ImportBaseDir:     GetEnv("IMPORT_BASE_DIR", "."),
		ImportWorkers:     clamp(getInt("IMPORT_WORKERS", 4), 1, maxWorkers),
		ImportChunkSize:   clamp(getInt("IMPORT_CHUNK_SIZE", 1000), 1, 50000),
		ImportLease:       time.Duration(clamp(getInt("IMPORT_JOB_LEASE_SECONDS", 60), 5, 3600)) * time.Second,
		ImportMaxAttempts: clamp(getInt("IMPORT_MAX_ATTEMPTS", 5), 1, 20),
		PassingScore:      getPassingScore("PASSING_SCORE", 70),

		WatchDir:      GetEnv("IMPORT_WATCH_DIR", ""),
		WatchSchedule: GetEnv("IMPORT_WATCH_SCHEDULE", "@every 1m"),
	}
}

func GetEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// getPassingScore accepts scores in (0, 100]. A zero threshold would pass
// every attempt, so it falls back like any other invalid value.
func getPassingScore(key string, fallback float64) float64 {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 || value > 100 {
		log.Printf("[CONFIG] invalid %s=%q, using %v", key, raw, fallback)
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
