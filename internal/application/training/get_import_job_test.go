package training_test

import (
	"context"
	"errors"
	"testing"
	"time"

	app "github.com/mohammadpnp/instituto-import/internal/application/training"
	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

type fakeJobReader struct {
	job *domain.ImportJobDetails
	err error
}

func (f *fakeJobReader) GetByID(ctx context.Context, jobID string) (*domain.ImportJobDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.job, nil
}

const sampleJobID = "4955eb4d-c7f2-42f6-80ca-33838ce37c31"

func TestGetImportJobSuccess(t *testing.T) {
	t.Parallel()

	finished := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	uc := app.NewGetImportJob(&fakeJobReader{job: &domain.ImportJobDetails{
		ImportJob: domain.ImportJob{
			ID:          sampleJobID,
			SourcePath:  "transcript.xlsx",
			Kind:        domain.KindTranscript,
			Status:      domain.JobStatusSucceeded,
			Attempts:    1,
			MaxAttempts: 5,
		},
		Progress:   domain.ImportProgress{ProcessedCount: 10, ImportedCount: 7, UpdatedCount: 2, SkippedCount: 1, FailedCount: 1},
		Failures:   []domain.ImportFailure{{RowNumber: 8, Reason: "unknown status"}},
		FinishedAt: &finished,
	}})

	out, err := uc.Execute(context.Background(), app.GetImportJobInput{ID: sampleJobID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Status != "succeeded" || out.Kind != "transcript" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.ImportedCount != 7 || out.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", out)
	}
	if len(out.Failures) != 1 || out.Failures[0].RowNumber != 8 {
		t.Fatalf("unexpected failures: %+v", out.Failures)
	}
}

func TestGetImportJobInvalidID(t *testing.T) {
	t.Parallel()

	uc := app.NewGetImportJob(&fakeJobReader{})
	_, err := uc.Execute(context.Background(), app.GetImportJobInput{ID: "not-a-uuid"})
	if !errors.Is(err, app.ErrInvalidJobID) {
		t.Fatalf("expected ErrInvalidJobID, got %v", err)
	}
}

func TestGetImportJobNotFound(t *testing.T) {
	t.Parallel()

	uc := app.NewGetImportJob(&fakeJobReader{err: domain.ErrImportJobNotFound})
	_, err := uc.Execute(context.Background(), app.GetImportJobInput{ID: sampleJobID})
	if !errors.Is(err, app.ErrImportJobNotFound) {
		t.Fatalf("expected ErrImportJobNotFound, got %v", err)
	}
}

func TestGetImportJobRepositoryError(t *testing.T) {
	t.Parallel()

	uc := app.NewGetImportJob(&fakeJobReader{err: errors.New("db down")})
	_, err := uc.Execute(context.Background(), app.GetImportJobInput{ID: sampleJobID})
	if !errors.Is(err, app.ErrGetImportJob) {
		t.Fatalf("expected ErrGetImportJob, got %v", err)
	}
}
