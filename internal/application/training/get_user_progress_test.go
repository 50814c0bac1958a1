package training_test

import (
	"context"
	"errors"
	"testing"

	app "github.com/mohammadpnp/instituto-import/internal/application/training"
	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

type fakeProgressRepo struct {
	progress  *domain.UserProgress
	summaries []domain.ModuleSummary
	err       error
	gotUserID string
}

func (f *fakeProgressRepo) GetUserProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.progress, nil
}

func (f *fakeProgressRepo) ModuleSummary(ctx context.Context) ([]domain.ModuleSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func TestGetUserProgressSuccess(t *testing.T) {
	t.Parallel()

	full := 100.0
	repo := &fakeProgressRepo{progress: &domain.UserProgress{
		User: domain.User{ID: "E1001", Name: "Ana López", Department: "Ventas"},
		Modules: []domain.ModuleProgress{
			{ModuleID: 1, ModuleName: "Inducción", Status: domain.StatusCompleted, Percentage: &full,
				LastEvaluation: &domain.EvaluationResult{Score: 90, Passed: true, Attempt: 1}},
			{ModuleID: 2, ModuleName: "Seguridad", Status: domain.StatusInProgress},
		},
	}}

	uc := app.NewGetUserProgress(repo)
	out, err := uc.Execute(context.Background(), app.GetUserProgressInput{UserID: " E1001 "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.gotUserID != "E1001" {
		t.Fatalf("expected trimmed user id, got %q", repo.gotUserID)
	}
	if out.CompletedModules != 1 || out.TotalModules != 14 {
		t.Fatalf("unexpected totals: %d/%d", out.CompletedModules, out.TotalModules)
	}
	if len(out.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(out.Modules))
	}
	if out.Modules[0].Status != "Terminado" || out.Modules[0].LastEvaluation == nil {
		t.Fatalf("unexpected first module: %+v", out.Modules[0])
	}
	if out.Modules[1].LastEvaluation != nil {
		t.Fatal("expected no evaluation on second module")
	}
}

func TestGetUserProgressInvalidID(t *testing.T) {
	t.Parallel()

	uc := app.NewGetUserProgress(&fakeProgressRepo{})
	_, err := uc.Execute(context.Background(), app.GetUserProgressInput{UserID: "   "})
	if !errors.Is(err, app.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestGetUserProgressNotFound(t *testing.T) {
	t.Parallel()

	uc := app.NewGetUserProgress(&fakeProgressRepo{err: domain.ErrUserNotFound})
	_, err := uc.Execute(context.Background(), app.GetUserProgressInput{UserID: "E404"})
	if !errors.Is(err, app.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUserProgressRepositoryError(t *testing.T) {
	t.Parallel()

	uc := app.NewGetUserProgress(&fakeProgressRepo{err: errors.New("db down")})
	_, err := uc.Execute(context.Background(), app.GetUserProgressInput{UserID: "E1001"})
	if !errors.Is(err, app.ErrGetUserProgress) {
		t.Fatalf("expected ErrGetUserProgress, got %v", err)
	}
}

func TestGetModuleSummary(t *testing.T) {
	t.Parallel()

	repo := &fakeProgressRepo{summaries: []domain.ModuleSummary{{
		ModuleID:   3,
		ModuleName: "Liderazgo",
		CountsByStatus: map[domain.Status]int64{
			domain.StatusCompleted:  2,
			domain.StatusInProgress: 1,
		},
		Total:             3,
		AveragePercentage: 83.3333,
	}}}

	out, err := app.NewGetModuleSummary(repo).Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(out.Modules))
	}
	module := out.Modules[0]
	if len(module.CountsByStatus) != len(domain.Statuses) {
		t.Fatalf("expected every status key, got %v", module.CountsByStatus)
	}
	if module.CountsByStatus["Fallido"] != 0 || module.CountsByStatus["Terminado"] != 2 {
		t.Fatalf("unexpected counts: %v", module.CountsByStatus)
	}
	if module.CompletionRate != 66.67 {
		t.Fatalf("unexpected completion rate: %v", module.CompletionRate)
	}
	if module.AveragePercentage != 83.33 {
		t.Fatalf("unexpected average: %v", module.AveragePercentage)
	}
}

func TestGetModuleSummaryError(t *testing.T) {
	t.Parallel()

	_, err := app.NewGetModuleSummary(&fakeProgressRepo{err: errors.New("db down")}).Execute(context.Background())
	if !errors.Is(err, app.ErrGetModuleSummary) {
		t.Fatalf("expected ErrGetModuleSummary, got %v", err)
	}
}
