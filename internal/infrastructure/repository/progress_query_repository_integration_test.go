package repository_test

import (
	"context"
	"errors"
	"testing"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/repository"
)

func TestProgressQueryRepositoryIntegration(t *testing.T) {
	gdb, _ := openIntegrationDB(t)
	ctx := context.Background()

	seedSQL := `
    INSERT INTO instituto_unidad_de_negocio (id, name, created_at, updated_at) VALUES (1, 'Corporativo', NOW(), NOW());
    INSERT INTO instituto_departamento (id, name, business_unit_id, created_at, updated_at) VALUES (1, 'Finanzas', 1, NOW(), NOW());
    INSERT INTO instituto_usuario (user_id, name, email, position, department_id, business_unit_id, created_at, updated_at) VALUES
      ('E1', 'Ana', 'ana@example.com', 'Analista', 1, 1, NOW(), NOW()),
      ('E2', 'Luis', 'luis@example.com', '', NULL, NULL, NOW(), NOW());
    INSERT INTO instituto_progreso_modulo (id, user_id, id_modulo, status, percentage, created_at, updated_at) VALUES
      (1, 'E1', 2, 'Terminado', 100, NOW(), NOW()),
      (2, 'E1', 1, 'En proceso', 50, NOW(), NOW()),
      (3, 'E2', 1, 'Terminado', 100, NOW(), NOW());
    INSERT INTO instituto_resultado_evaluacion (inscripcion_id, score, passed, attempt, created_at, updated_at) VALUES
      (1, 60, false, 1, NOW(), NOW()),
      (1, 90, true, 2, NOW(), NOW());
    `
	if err := gdb.Exec(seedSQL).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	repo := repository.NewProgressQueryRepository(gdb)

	got, err := repo.GetUserProgress(ctx, "E1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.User.Department != "Finanzas" || got.User.BusinessUnit != "Corporativo" {
		t.Fatalf("unexpected user: %+v", got.User)
	}
	if len(got.Modules) != 2 || got.Modules[0].ModuleID != 1 {
		t.Fatalf("expected modules ordered by id, got %+v", got.Modules)
	}
	if got.Modules[0].ModuleName != "Módulo 1" {
		t.Fatalf("unexpected module name: %q", got.Modules[0].ModuleName)
	}
	last := got.Modules[1].LastEvaluation
	if last == nil || last.Attempt != 2 || !last.Passed {
		t.Fatalf("expected latest attempt, got %+v", last)
	}

	_, err = repo.GetUserProgress(ctx, "missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	summaries, err := repo.ModuleSummary(ctx)
	if err != nil {
		t.Fatalf("module summary failed: %v", err)
	}
	if len(summaries) != domain.MaxModuleID {
		t.Fatalf("expected %d modules, got %d", domain.MaxModuleID, len(summaries))
	}

	first := summaries[0]
	if first.Total != 2 || first.CountsByStatus[domain.StatusCompleted] != 1 || first.CountsByStatus[domain.StatusInProgress] != 1 {
		t.Fatalf("unexpected module 1 summary: %+v", first)
	}
	if first.AveragePercentage != 75 {
		t.Fatalf("expected average 75, got %v", first.AveragePercentage)
	}
	if summaries[13].Total != 0 {
		t.Fatalf("expected empty module 14, got %+v", summaries[13])
	}
}
