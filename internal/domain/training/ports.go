package training

import "context"

type ImportJobRepository interface {
	Enqueue(ctx context.Context, sourcePath string, kind ImportKind) (string, error)
	GetByID(ctx context.Context, jobID string) (*ImportJobDetails, error)
}

type ProgressQueryRepository interface {
	GetUserProgress(ctx context.Context, userID string) (*UserProgress, error)
	ModuleSummary(ctx context.Context) ([]ModuleSummary, error)
}

// RowIterator streams the data rows of a parsed spreadsheet.
type RowIterator interface {
	Kind() ImportKind
	Next() bool
	Row() RawRow
	Err() error
	Close() error
}
