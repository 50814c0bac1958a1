package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

type GetImportJobInput struct {
	ID string
}

type ImportFailureOutput struct {
	RowNumber int64  `json:"row_number"`
	Reason    string `json:"reason"`
}

type GetImportJobOutput struct {
	ID             string                `json:"id"`
	SourcePath     string                `json:"source_path"`
	Kind           string                `json:"kind,omitempty"`
	Status         string                `json:"status"`
	Attempts       int                   `json:"attempts"`
	MaxAttempts    int                   `json:"max_attempts"`
	ProcessedCount int64                 `json:"processed_count"`
	ImportedCount  int64                 `json:"imported_count"`
	UpdatedCount   int64                 `json:"updated_count"`
	SkippedCount   int64                 `json:"skipped_count"`
	FailedCount    int64                 `json:"failed_count"`
	Failures       []ImportFailureOutput `json:"failures"`
	ErrorMessage   string                `json:"error_message,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	StartedAt      *time.Time            `json:"started_at,omitempty"`
	FinishedAt     *time.Time            `json:"finished_at,omitempty"`
}

type GetImportJob interface {
	Execute(ctx context.Context, in GetImportJobInput) (GetImportJobOutput, error)
}

type importJobReader interface {
	GetByID(ctx context.Context, jobID string) (*domain.ImportJobDetails, error)
}

type getImportJob struct {
	repo importJobReader
}

func NewGetImportJob(repo importJobReader) GetImportJob {
	return &getImportJob{repo: repo}
}

func (uc *getImportJob) Execute(ctx context.Context, in GetImportJobInput) (GetImportJobOutput, error) {
	if err := uuid.Validate(in.ID); err != nil {
		return GetImportJobOutput{}, ErrInvalidJobID
	}

	job, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrImportJobNotFound) {
			return GetImportJobOutput{}, ErrImportJobNotFound
		}
		return GetImportJobOutput{}, fmt.Errorf("%w: %v", ErrGetImportJob, err)
	}

	failures := make([]ImportFailureOutput, 0, len(job.Failures))
	for _, failure := range job.Failures {
		failures = append(failures, ImportFailureOutput{
			RowNumber: failure.RowNumber,
			Reason:    failure.Reason,
		})
	}

	return GetImportJobOutput{
		ID:             job.ID,
		SourcePath:     job.SourcePath,
		Kind:           string(job.Kind),
		Status:         job.Status,
		Attempts:       job.Attempts,
		MaxAttempts:    job.MaxAttempts,
		ProcessedCount: job.Progress.ProcessedCount,
		ImportedCount:  job.Progress.ImportedCount,
		UpdatedCount:   job.Progress.UpdatedCount,
		SkippedCount:   job.Progress.SkippedCount,
		FailedCount:    job.Progress.FailedCount,
		Failures:       failures,
		ErrorMessage:   job.ErrorMessage,
		CreatedAt:      job.CreatedAt,
		StartedAt:      job.StartedAt,
		FinishedAt:     job.FinishedAt,
	}, nil
}
