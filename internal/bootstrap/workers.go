package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"
	app "github.com/mohammadpnp/instituto-import/internal/application/training"
	"github.com/mohammadpnp/instituto-import/internal/config"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/excel"
	infrafile "github.com/mohammadpnp/instituto-import/internal/infrastructure/file"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/repository"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/scheduler"
	"gorm.io/gorm"
)

func NewImportWorker(db *gorm.DB, pool *pgxpool.Pool, cfg config.Config) *app.ImportWorker {
	return app.NewImportWorker(
		repository.NewImportJobRepository(db, cfg.ImportMaxAttempts),
		infrafile.NewLocalSource(cfg.ImportBaseDir),
		excel.NewReader(excel.Options{}),
		repository.NewTrainingBulkImportRepository(pool),
		app.ImportWorkerConfig{
			Workers:       cfg.ImportWorkers,
			ChunkSize:     cfg.ImportChunkSize,
			LeaseDuration: cfg.ImportLease,
			PassingScore:  cfg.PassingScore,
		},
	)
}

func NewImportWorkbook(pool *pgxpool.Pool, cfg config.Config) app.ImportWorkbook {
	return app.NewImportWorkbook(
		infrafile.NewLocalSource(cfg.ImportBaseDir),
		excel.NewReader(excel.Options{}),
		repository.NewTrainingBulkImportRepository(pool),
		app.ImportWorkbookConfig{
			ChunkSize:    cfg.ImportChunkSize,
			PassingScore: cfg.PassingScore,
		},
	)
}

// NewDropDirectory returns nil when no watch directory is configured.
func NewDropDirectory(db *gorm.DB, cfg config.Config) (*scheduler.DropDirectory, error) {
	if cfg.WatchDir == "" {
		return nil, nil
	}

	syncDir := app.NewSyncDropDirectory(
		infrafile.NewLocalSource(cfg.WatchDir),
		repository.NewImportJobRepository(db, cfg.ImportMaxAttempts),
	)
	return scheduler.NewDropDirectory(cfg.WatchSchedule, syncDir)
}
