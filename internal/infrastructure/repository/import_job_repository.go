package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/db/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errLeaseLost = errors.New("import job lease lost")

type ImportJobRepository struct {
	db          *gorm.DB
	maxAttempts int
}

func NewImportJobRepository(db *gorm.DB, maxAttempts int) *ImportJobRepository {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &ImportJobRepository{db: db, maxAttempts: maxAttempts}
}

func (r *ImportJobRepository) Enqueue(ctx context.Context, sourcePath string, kind domain.ImportKind) (string, error) {
	job := models.ImportJob{
		ID:          uuid.NewString(),
		SourcePath:  sourcePath,
		Kind:        string(kind),
		Status:      domain.JobStatusQueued,
		MaxAttempts: r.maxAttempts,
	}

	if err := r.db.WithContext(ctx).Create(&job).Error; err != nil {
		return "", fmt.Errorf("create import job: %w", err)
	}

	return job.ID, nil
}

// EnqueueOnce creates a queued job unless one already exists for sourceKey.
// created is false when the key was enqueued before, by this or another process.
func (r *ImportJobRepository) EnqueueOnce(ctx context.Context, sourcePath string, kind domain.ImportKind, sourceKey string) (string, bool, error) {
	job := models.ImportJob{
		ID:          uuid.NewString(),
		SourcePath:  sourcePath,
		Kind:        string(kind),
		SourceKey:   &sourceKey,
		Status:      domain.JobStatusQueued,
		MaxAttempts: r.maxAttempts,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "source_key"}}, DoNothing: true}).
		Create(&job)
	if result.Error != nil {
		return "", false, fmt.Errorf("create import job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}

	return job.ID, true, nil
}

// ClaimNext leases the oldest queued job, or a running job whose lease expired.
// It returns nil when nothing is claimable.
func (r *ImportJobRepository) ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.ImportJob, error) {
	var row models.ImportJob

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? OR (status = ? AND lease_expires_at < NOW())", domain.JobStatusQueued, domain.JobStatusRunning).
			Order("created_at").
			First(&row).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		lease := now.Add(leaseDuration)
		if err := tx.Model(&models.ImportJob{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"status":           domain.JobStatusRunning,
				"attempts":         gorm.Expr("attempts + 1"),
				"heartbeat_at":     now,
				"lease_expires_at": lease,
				"started_at":       gorm.Expr("COALESCE(started_at, ?)", now),
				"updated_at":       now,
			}).Error; err != nil {
			return err
		}

		row.Status = domain.JobStatusRunning
		row.Attempts++
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim import job: %w", err)
	}

	return &domain.ImportJob{
		ID:          row.ID,
		SourcePath:  row.SourcePath,
		Kind:        domain.ImportKind(row.Kind),
		Status:      row.Status,
		Attempts:    row.Attempts,
		MaxAttempts: row.MaxAttempts,
	}, nil
}

func (r *ImportJobRepository) Heartbeat(ctx context.Context, jobID string, leaseDuration time.Duration) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("id = ? AND status = ?", jobID, domain.JobStatusRunning).
		Updates(map[string]any{
			"heartbeat_at":     now,
			"lease_expires_at": now.Add(leaseDuration),
			"updated_at":       now,
		})
	if result.Error != nil {
		return fmt.Errorf("heartbeat import job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errLeaseLost
	}
	return nil
}

func (r *ImportJobRepository) UpdateProgress(ctx context.Context, jobID string, progress domain.ImportProgress) error {
	if err := r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"progress_processed": progress.ProcessedCount,
			"imported_count":     progress.ImportedCount,
			"updated_count":      progress.UpdatedCount,
			"skipped_count":      progress.SkippedCount,
			"failed_count":       progress.FailedCount,
			"updated_at":         time.Now().UTC(),
		}).Error; err != nil {
		return fmt.Errorf("update import progress: %w", err)
	}
	return nil
}

func (r *ImportJobRepository) Complete(ctx context.Context, jobID string, summary domain.ImportSummary) error {
	failures, err := json.Marshal(summary.Failures)
	if err != nil {
		return fmt.Errorf("encode import failures: %w", err)
	}

	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"status":             domain.JobStatusSucceeded,
			"progress_processed": summary.ProcessedCount,
			"imported_count":     summary.ImportedCount,
			"updated_count":      summary.UpdatedCount,
			"skipped_count":      summary.SkippedCount,
			"failed_count":       summary.FailedCount,
			"failures":           datatypes.JSON(failures),
			"error_message":      nil,
			"lease_expires_at":   nil,
			"finished_at":        now,
			"updated_at":         now,
		}).Error; err != nil {
		return fmt.Errorf("complete import job: %w", err)
	}
	return nil
}

func (r *ImportJobRepository) Requeue(ctx context.Context, jobID string, reason string) error {
	if err := r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"status":           domain.JobStatusQueued,
			"error_message":    reason,
			"lease_expires_at": nil,
			"updated_at":       time.Now().UTC(),
		}).Error; err != nil {
		return fmt.Errorf("requeue import job: %w", err)
	}
	return nil
}

func (r *ImportJobRepository) Fail(ctx context.Context, jobID string, reason string) error {
	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"status":           domain.JobStatusFailed,
			"error_message":    reason,
			"lease_expires_at": nil,
			"finished_at":      now,
			"updated_at":       now,
		}).Error; err != nil {
		return fmt.Errorf("fail import job: %w", err)
	}
	return nil
}

func (r *ImportJobRepository) GetByID(ctx context.Context, jobID string) (*domain.ImportJobDetails, error) {
	var row models.ImportJob
	if err := r.db.WithContext(ctx).First(&row, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrImportJobNotFound
		}
		return nil, fmt.Errorf("get import job: %w", err)
	}

	var failures []domain.ImportFailure
	if len(row.Failures) > 0 {
		if err := json.Unmarshal(row.Failures, &failures); err != nil {
			return nil, fmt.Errorf("decode import failures: %w", err)
		}
	}

	details := &domain.ImportJobDetails{
		ImportJob: domain.ImportJob{
			ID:          row.ID,
			SourcePath:  row.SourcePath,
			Kind:        domain.ImportKind(row.Kind),
			Status:      row.Status,
			Attempts:    row.Attempts,
			MaxAttempts: row.MaxAttempts,
		},
		Progress: domain.ImportProgress{
			ProcessedCount: row.ProgressProcessed,
			ImportedCount:  row.ImportedCount,
			UpdatedCount:   row.UpdatedCount,
			SkippedCount:   row.SkippedCount,
			FailedCount:    row.FailedCount,
		},
		Failures:   failures,
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
		CreatedAt:  row.CreatedAt,
	}
	if row.ErrorMessage != nil {
		details.ErrorMessage = *row.ErrorMessage
	}
	return details, nil
}
