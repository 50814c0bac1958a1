package training

import "time"

const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)

type ImportJob struct {
	ID          string
	SourcePath  string
	Kind        ImportKind
	Status      string
	Attempts    int
	MaxAttempts int
}

// ImportJobDetails is the read model of a job for status queries.
type ImportJobDetails struct {
	ImportJob
	Progress     ImportProgress
	Failures     []ImportFailure
	ErrorMessage string
	StartedAt    *time.Time
	FinishedAt   *time.Time
	CreatedAt    time.Time
}

type ImportFailure struct {
	RowNumber int64  `json:"row_number"`
	Reason    string `json:"reason"`
}

type ImportProgress struct {
	ProcessedCount int64
	ImportedCount  int64
	UpdatedCount   int64
	SkippedCount   int64
	FailedCount    int64
}

type ImportSummary struct {
	ProcessedCount int64
	ImportedCount  int64
	UpdatedCount   int64
	SkippedCount   int64
	FailedCount    int64
	Failures       []ImportFailure
}

func (s ImportSummary) Progress() ImportProgress {
	return ImportProgress{
		ProcessedCount: s.ProcessedCount,
		ImportedCount:  s.ImportedCount,
		UpdatedCount:   s.UpdatedCount,
		SkippedCount:   s.SkippedCount,
		FailedCount:    s.FailedCount,
	}
}

type ImportChunkResult struct {
	ImportedCount int64
	UpdatedCount  int64
	SkippedCount  int64
}
