package training

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

type ImportSource interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
}

type WorkbookParser interface {
	Parse(ctx context.Context, src io.Reader, kind domain.ImportKind) (domain.RowIterator, error)
}

type importWorkerJobRepo interface {
	ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.ImportJob, error)
	Heartbeat(ctx context.Context, jobID string, leaseDuration time.Duration) error
	UpdateProgress(ctx context.Context, jobID string, progress domain.ImportProgress) error
	Complete(ctx context.Context, jobID string, summary domain.ImportSummary) error
	Requeue(ctx context.Context, jobID string, reason string) error
	Fail(ctx context.Context, jobID string, reason string) error
}

type ImportWorkerConfig struct {
	Workers           int
	ChunkSize         int
	PollInterval      time.Duration
	LeaseDuration     time.Duration
	HeartbeatInterval time.Duration
	PassingScore      float64
}

type ImportWorker struct {
	repo     importWorkerJobRepo
	source   ImportSource
	parser   WorkbookParser
	importer importChunker
	cfg      ImportWorkerConfig

	once sync.Once
	wg   sync.WaitGroup
}

func NewImportWorker(repo importWorkerJobRepo, source ImportSource, parser WorkbookParser, importer importChunker, cfg ImportWorkerConfig) *ImportWorker {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = 60 * time.Second
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = cfg.LeaseDuration / 2
	}

	return &ImportWorker{
		repo:     repo,
		source:   source,
		parser:   parser,
		importer: importer,
		cfg:      cfg,
	}
}

func (w *ImportWorker) Start(ctx context.Context) {
	w.once.Do(func() {
		for i := 0; i < w.cfg.Workers; i++ {
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				w.workerLoop(ctx)
			}()
		}
	})
}

// Wait blocks until every worker loop has returned after ctx cancellation.
func (w *ImportWorker) Wait() {
	w.wg.Wait()
}

func (w *ImportWorker) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.repo.ClaimNext(ctx, w.cfg.LeaseDuration)
		if err != nil {
			log.Printf("[IMPORT] claim next import job failed: %v", err)
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if job == nil {
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		started := time.Now()
		if err := w.ProcessJob(ctx, *job); err != nil {
			log.Printf("[IMPORT] process import job %s failed: %v", job.ID, err)
			continue
		}
		log.Printf("[IMPORT] job %s (%s) finished in %s", job.ID, job.SourcePath, time.Since(started).Round(time.Millisecond))
	}
}

func (w *ImportWorker) ProcessJob(ctx context.Context, job domain.ImportJob) error {
	reader, err := w.source.Open(ctx, job.SourcePath)
	if err != nil {
		return w.onProcessingError(ctx, job, fmt.Errorf("open import source: %w", err))
	}
	defer reader.Close()

	rows, err := w.parser.Parse(ctx, reader, job.Kind)
	if err != nil {
		return w.onProcessingError(ctx, job, fmt.Errorf("parse workbook: %w", err))
	}
	defer rows.Close()

	ticker := time.NewTicker(w.cfg.HeartbeatInterval)
	defer ticker.Stop()

	run := importRun{
		runID:      job.ID,
		importer:   w.importer,
		chunkSize:  w.cfg.ChunkSize,
		recordOpts: domain.RecordOptions{PassingScore: w.cfg.PassingScore},
		onFlush: func(ctx context.Context, progress domain.ImportProgress) error {
			if err := w.repo.UpdateProgress(ctx, job.ID, progress); err != nil {
				return err
			}
			return w.repo.Heartbeat(ctx, job.ID, w.cfg.LeaseDuration)
		},
		heartbeat: ticker.C,
		onHeartbeat: func(ctx context.Context) error {
			return w.repo.Heartbeat(ctx, job.ID, w.cfg.LeaseDuration)
		},
	}

	summary, err := run.execute(ctx, rows)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return w.onProcessingError(ctx, job, err)
	}

	if err := w.repo.UpdateProgress(ctx, job.ID, summary.Progress()); err != nil {
		return w.onProcessingError(ctx, job, fmt.Errorf("update final progress: %w", err))
	}

	if err := w.repo.Complete(ctx, job.ID, summary); err != nil {
		return w.onProcessingError(ctx, job, fmt.Errorf("complete job: %w", err))
	}

	return nil
}

// onProcessingError requeues a job while attempts remain. Unreadable workbooks
// fail at once since every retry would read the same bytes.
func (w *ImportWorker) onProcessingError(ctx context.Context, job domain.ImportJob, err error) error {
	reason := truncateReason(err.Error())
	retryable := !errors.Is(err, domain.ErrUnreadableWorkbook)

	if retryable && job.Attempts < job.MaxAttempts {
		log.Printf("[IMPORT] job %s attempt %d/%d failed, requeued: %s", job.ID, job.Attempts, job.MaxAttempts, reason)
		if requeueErr := w.repo.Requeue(ctx, job.ID, reason); requeueErr != nil {
			return fmt.Errorf("%v; requeue failed: %w", err, requeueErr)
		}
		return err
	}

	if failErr := w.repo.Fail(ctx, job.ID, reason); failErr != nil {
		return fmt.Errorf("%v; fail update failed: %w", err, failErr)
	}
	return err
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

const maxReasonBytes = 1000

// truncateReason caps stored failure reasons at maxReasonBytes without
// splitting a UTF-8 sequence.
func truncateReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxReasonBytes {
		return reason
	}
	cut := maxReasonBytes
	for cut > 0 && !utf8.RuneStart(reason[cut]) {
		cut--
	}
	return reason[:cut]
}
