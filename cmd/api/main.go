package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohammadpnp/instituto-import/internal/bootstrap"
	"github.com/mohammadpnp/instituto-import/internal/config"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/db"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	gdb, pool, err := db.Open(context.Background(), cfg.DatabaseURL, cfg.LogSQL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(context.Background(), gdb); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}

	server := bootstrap.NewHTTPServer(gdb, cfg)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	worker := bootstrap.NewImportWorker(gdb, pool, cfg)
	worker.Start(workerCtx)
	log.Printf("[IMPORT] %d workers started, chunk size %d", cfg.ImportWorkers, cfg.ImportChunkSize)

	dropDir, err := bootstrap.NewDropDirectory(gdb, cfg)
	if err != nil {
		log.Fatalf("failed to configure drop directory: %v", err)
	}
	if dropDir != nil {
		dropDir.Start()
		log.Printf("[DROP-DIR] watching %s schedule=%q", cfg.WatchDir, cfg.WatchSchedule)
	}

	go func() {
		if err := server.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if dropDir != nil {
		dropDir.Stop(ctx)
	}

	// running jobs lose their lease and get reclaimed after restart
	stopWorkers()
	worker.Wait()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}
