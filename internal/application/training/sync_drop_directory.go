package training

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

type SourceFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

type sourceLister interface {
	List(ctx context.Context) ([]SourceFile, error)
}

type SyncDropDirectoryOutput struct {
	Enqueued []string
	Skipped  int
}

// dropDirectoryEnqueuer persists the source key with the job so a restarted
// process does not enqueue the same export twice.
type dropDirectoryEnqueuer interface {
	EnqueueOnce(ctx context.Context, sourcePath string, kind domain.ImportKind, sourceKey string) (string, bool, error)
}

// SyncDropDirectory enqueues every workbook in the drop directory that was not
// enqueued before with the same size and modification time. Older files are
// enqueued first so a newer export is applied last.
type SyncDropDirectory interface {
	Execute(ctx context.Context) (SyncDropDirectoryOutput, error)
}

type syncDropDirectory struct {
	lister   sourceLister
	enqueuer dropDirectoryEnqueuer

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewSyncDropDirectory(lister sourceLister, enqueuer dropDirectoryEnqueuer) SyncDropDirectory {
	return &syncDropDirectory{
		lister:   lister,
		enqueuer: enqueuer,
		seen:     make(map[string]struct{}),
	}
}

func (uc *syncDropDirectory) Execute(ctx context.Context) (SyncDropDirectoryOutput, error) {
	listed, err := uc.lister.List(ctx)
	if err != nil {
		return SyncDropDirectoryOutput{}, fmt.Errorf("list drop directory: %w", err)
	}

	files := append([]SourceFile(nil), listed...)
	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.Before(files[j].ModTime)
		}
		return files[i].Path < files[j].Path
	})

	uc.mu.Lock()
	defer uc.mu.Unlock()

	out := SyncDropDirectoryOutput{}
	for _, file := range files {
		if !IsWorkbookPath(file.Path) {
			continue
		}

		key := SourceKey(file)
		if _, ok := uc.seen[key]; ok {
			out.Skipped++
			continue
		}

		_, created, err := uc.enqueuer.EnqueueOnce(ctx, file.Path, domain.KindAuto, key)
		if err != nil {
			return out, fmt.Errorf("%w: %v", ErrEnqueueImportJob, err)
		}
		uc.seen[key] = struct{}{}
		if !created {
			out.Skipped++
			continue
		}
		out.Enqueued = append(out.Enqueued, file.Path)
	}
	return out, nil
}

// SourceKey identifies one version of a file: path, size and modification time.
func SourceKey(file SourceFile) string {
	return fmt.Sprintf("%s|%d|%d", file.Path, file.Size, file.ModTime.UTC().UnixNano())
}
