package db

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stagingSQL holds the COPY target of bulk imports. UNLOGGED: rows live for one transaction.
const stagingSQL = `
CREATE UNLOGGED TABLE IF NOT EXISTS stg_training_rows (
  job_id UUID NOT NULL,
  row_index BIGINT NOT NULL,
  user_id TEXT NOT NULL,
  full_name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  position TEXT NOT NULL DEFAULT '',
  department TEXT NOT NULL DEFAULT '',
  business_unit TEXT NOT NULL DEFAULT '',
  module_id INT,
  module_title TEXT,
  status TEXT,
  started_at TIMESTAMPTZ,
  completed_at TIMESTAMPTZ,
  due_at TIMESTAMPTZ,
  percentage NUMERIC(5,2),
  score NUMERIC(6,2),
  passed BOOLEAN,
  attempt INT
);
CREATE INDEX IF NOT EXISTS idx_stg_training_rows_job ON stg_training_rows (job_id);
`

// Migrate creates the instituto schema, the job table and the staging table,
// then seeds the module catalog without touching existing names.
func Migrate(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)

	if err := tx.AutoMigrate(
		&models.BusinessUnit{},
		&models.Department{},
		&models.Module{},
		&models.User{},
		&models.ModuleProgress{},
		&models.EvaluationResult{},
		&models.ImportJob{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := tx.Exec(stagingSQL).Error; err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}

	catalog := domain.ModuleCatalog()
	modules := make([]models.Module, 0, len(catalog))
	for _, module := range catalog {
		modules = append(modules, models.Module{ID: module.ID, Name: module.Name})
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&modules).Error; err != nil {
		return fmt.Errorf("seed modules: %w", err)
	}

	return nil
}
