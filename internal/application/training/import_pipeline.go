package training

import (
	"context"
	"fmt"
	"time"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

const maxStoredFailures = 100

type ImportChunkResult = domain.ImportChunkResult

type importChunker interface {
	ImportChunk(ctx context.Context, runID string, kind domain.ImportKind, records []domain.Record) (ImportChunkResult, error)
}

// importRun streams rows into chunked bulk imports. Invalid rows are counted
// and recorded but never abort the run.
type importRun struct {
	runID      string
	importer   importChunker
	chunkSize  int
	recordOpts domain.RecordOptions

	// onFlush runs after every persisted chunk.
	onFlush func(ctx context.Context, progress domain.ImportProgress) error
	// heartbeat fires onHeartbeat between rows when non-nil.
	heartbeat   <-chan time.Time
	onHeartbeat func(ctx context.Context) error
}

func (r importRun) execute(ctx context.Context, rows domain.RowIterator) (domain.ImportSummary, error) {
	summary := domain.ImportSummary{}
	kind := rows.Kind()
	chunk := make([]domain.Record, 0, r.chunkSize)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}

		result, err := r.importer.ImportChunk(ctx, r.runID, kind, chunk)
		if err != nil {
			return err
		}

		summary.ImportedCount += result.ImportedCount
		summary.UpdatedCount += result.UpdatedCount
		summary.SkippedCount += result.SkippedCount

		if r.onFlush != nil {
			if err := r.onFlush(ctx, summary.Progress()); err != nil {
				return err
			}
		}

		chunk = chunk[:0]
		return nil
	}

	for rows.Next() {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		case <-r.heartbeat:
			if err := r.onHeartbeat(ctx); err != nil {
				return summary, fmt.Errorf("heartbeat: %w", err)
			}
		default:
		}

		raw := rows.Row()
		summary.ProcessedCount++

		record, err := domain.NewRecord(kind, raw, r.recordOpts)
		if err != nil {
			summary.FailedCount++
			summary.SkippedCount++
			if len(summary.Failures) < maxStoredFailures {
				summary.Failures = append(summary.Failures, domain.ImportFailure{
					RowNumber: raw.Number,
					Reason:    err.Error(),
				})
			}
			continue
		}

		chunk = append(chunk, record)
		if len(chunk) >= r.chunkSize {
			if err := flush(); err != nil {
				return summary, fmt.Errorf("flush chunk: %w", err)
			}
		}
	}

	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("read rows: %w", err)
	}

	if err := flush(); err != nil {
		return summary, fmt.Errorf("flush last chunk: %w", err)
	}

	return summary, nil
}
