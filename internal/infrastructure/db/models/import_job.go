package models

import (
	"time"

	"gorm.io/datatypes"
)

type ImportJob struct {
	ID                string         `gorm:"type:uuid;primaryKey"`
	SourcePath        string         `gorm:"type:text;not null"`
	Kind              string         `gorm:"type:text;not null;default:''"`
	SourceKey         *string        `gorm:"type:text;uniqueIndex:idx_import_jobs_source_key"`
	Status            string         `gorm:"type:text;not null;index:idx_import_jobs_status_created,priority:1"`
	ProgressProcessed int64          `gorm:"not null;default:0"`
	ImportedCount     int64          `gorm:"not null;default:0"`
	UpdatedCount      int64          `gorm:"not null;default:0"`
	SkippedCount      int64          `gorm:"not null;default:0"`
	FailedCount       int64          `gorm:"not null;default:0"`
	Failures          datatypes.JSON `gorm:"type:jsonb"`
	Attempts          int            `gorm:"not null;default:0"`
	MaxAttempts       int            `gorm:"not null;default:5"`
	ErrorMessage      *string        `gorm:"type:text"`
	HeartbeatAt       *time.Time
	LeaseExpiresAt    *time.Time
	StartedAt         *time.Time
	FinishedAt        *time.Time
	CreatedAt         time.Time `gorm:"index:idx_import_jobs_status_created,priority:2"`
	UpdatedAt         time.Time
}

func (ImportJob) TableName() string {
	return "import_jobs"
}
