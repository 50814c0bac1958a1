package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/db"
	"gorm.io/gorm"
)

func openIntegrationDB(t *testing.T) (*gorm.DB, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	gdb, pool, err := db.Open(ctx, dsn, false)
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cleanupSQL := `
    TRUNCATE instituto_resultado_evaluacion, instituto_progreso_modulo, instituto_usuario,
      instituto_departamento, instituto_unidad_de_negocio, import_jobs, stg_training_rows
      RESTART IDENTITY CASCADE;
    `
	if err := gdb.Exec(cleanupSQL).Error; err != nil {
		t.Fatalf("failed cleanup: %v", err)
	}
	if err := gdb.Exec("UPDATE instituto_modulo SET name = 'Módulo ' || id_modulo").Error; err != nil {
		t.Fatalf("failed to reset modules: %v", err)
	}

	return gdb, pool
}
