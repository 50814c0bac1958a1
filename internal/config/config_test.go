package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "IMPORT_WORKERS", "IMPORT_CHUNK_SIZE", "IMPORT_JOB_LEASE_SECONDS", "PASSING_SCORE", "IMPORT_WATCH_SCHEDULE", "AUTO_MIGRATE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %q", cfg.Port)
	}
	if cfg.ImportWorkers != 4 || cfg.ImportChunkSize != 1000 {
		t.Fatalf("unexpected worker defaults: %+v", cfg)
	}
	if cfg.ImportLease != time.Minute {
		t.Fatalf("unexpected lease: %s", cfg.ImportLease)
	}
	if cfg.PassingScore != 70 {
		t.Fatalf("unexpected passing score: %v", cfg.PassingScore)
	}
	if cfg.WatchSchedule != "@every 1m" || !cfg.AutoMigrate {
		t.Fatalf("unexpected watch defaults: %+v", cfg)
	}
}

func TestLoadClampsAndFallsBack(t *testing.T) {
	t.Setenv("IMPORT_WORKERS", "64")
	t.Setenv("IMPORT_CHUNK_SIZE", "abc")
	t.Setenv("PASSING_SCORE", "150")
	t.Setenv("LOG_SQL", "true")

	cfg := Load()

	if cfg.ImportWorkers != 10 {
		t.Fatalf("expected workers clamped to 10, got %d", cfg.ImportWorkers)
	}
	if cfg.ImportChunkSize != 1000 {
		t.Fatalf("expected chunk size fallback, got %d", cfg.ImportChunkSize)
	}
	if cfg.PassingScore != 70 {
		t.Fatalf("expected passing score fallback, got %v", cfg.PassingScore)
	}
	if !cfg.LogSQL {
		t.Fatal("expected LOG_SQL=true")
	}

	t.Setenv("IMPORT_WORKERS", "0")
	if got := Load().ImportWorkers; got != 1 {
		t.Fatalf("expected workers clamped to 1, got %d", got)
	}
}

func TestLoadPassingScoreRange(t *testing.T) {
	cases := map[string]float64{
		"0":    70,
		"-5":   70,
		"100":  100,
		"0.5":  0.5,
		"60,5": 70,
		"55":   55,
	}

	for raw, want := range cases {
		t.Setenv("PASSING_SCORE", raw)
		if got := Load().PassingScore; got != want {
			t.Fatalf("PASSING_SCORE=%q: expected %v, got %v", raw, want, got)
		}
	}
}

func TestLoadEnvKeepsExistingVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("IMPORT_BASE_DIR=/data/file\nIMPORT_WATCH_DIR=/data/drop\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("IMPORT_BASE_DIR", "/data/env")
	t.Setenv("IMPORT_WATCH_DIR", "")
	os.Unsetenv("IMPORT_WATCH_DIR")

	LoadEnv(path)

	cfg := Load()
	if cfg.ImportBaseDir != "/data/env" {
		t.Fatalf("expected environment to win, got %q", cfg.ImportBaseDir)
	}
	if cfg.WatchDir != "/data/drop" {
		t.Fatalf("expected value from file, got %q", cfg.WatchDir)
	}
}
