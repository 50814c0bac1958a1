package training_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	app "github.com/mohammadpnp/instituto-import/internal/application/training"
	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

type fakeLister struct {
	files []app.SourceFile
	err   error
}

func (f *fakeLister) List(ctx context.Context) ([]app.SourceFile, error) {
	return f.files, f.err
}

// fakeJobQueue keeps source keys the way the import_jobs unique index does, so
// it can be shared between use case instances.
type fakeJobQueue struct {
	mu        sync.Mutex
	keys      map[string]bool
	paths     []string
	gotKind   domain.ImportKind
	called    int
	returnErr error
}

func newFakeJobQueue() *fakeJobQueue {
	return &fakeJobQueue{keys: make(map[string]bool)}
}

func (f *fakeJobQueue) EnqueueOnce(ctx context.Context, sourcePath string, kind domain.ImportKind, sourceKey string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.called++
	if f.returnErr != nil {
		return "", false, f.returnErr
	}
	if f.keys[sourceKey] {
		return "", false, nil
	}
	f.keys[sourceKey] = true
	f.paths = append(f.paths, sourcePath)
	f.gotKind = kind
	return "job-" + sourcePath, true, nil
}

func TestSyncDropDirectoryEnqueuesNewWorkbooksOnce(t *testing.T) {
	t.Parallel()

	modified := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	lister := &fakeLister{files: []app.SourceFile{
		{Path: "transcript.xlsx", Size: 100, ModTime: modified},
		{Path: "notes.txt", Size: 5, ModTime: modified},
		{Path: "~$transcript.xlsx", Size: 1, ModTime: modified},
	}}
	queue := newFakeJobQueue()
	uc := app.NewSyncDropDirectory(lister, queue)

	out, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Enqueued) != 1 || out.Enqueued[0] != "transcript.xlsx" {
		t.Fatalf("unexpected enqueued files: %v", out.Enqueued)
	}
	if queue.gotKind != domain.KindAuto {
		t.Fatalf("expected auto kind, got %q", queue.gotKind)
	}

	out, err = uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Enqueued) != 0 || out.Skipped != 1 {
		t.Fatalf("expected unchanged file to be skipped, got %+v", out)
	}

	lister.files[0].ModTime = modified.Add(time.Hour)
	out, err = uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Enqueued) != 1 {
		t.Fatalf("expected modified file to be enqueued again, got %+v", out)
	}
	if queue.called != 2 {
		t.Fatalf("expected 2 enqueue calls, got %d", queue.called)
	}
}

func TestSyncDropDirectoryRestartDoesNotEnqueueKnownFiles(t *testing.T) {
	t.Parallel()

	modified := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	lister := &fakeLister{files: []app.SourceFile{
		{Path: "transcript_march.xlsx", Size: 100, ModTime: modified},
		{Path: "transcript_april.xlsx", Size: 120, ModTime: modified.Add(24 * time.Hour)},
	}}
	queue := newFakeJobQueue()

	first := app.NewSyncDropDirectory(lister, queue)
	out, err := first.Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Enqueued) != 2 {
		t.Fatalf("expected both files enqueued, got %+v", out)
	}

	restarted := app.NewSyncDropDirectory(lister, queue)
	out, err = restarted.Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Enqueued) != 0 || out.Skipped != 2 {
		t.Fatalf("expected restarted instance to skip known files, got %+v", out)
	}
	if len(queue.paths) != 2 {
		t.Fatalf("expected 2 jobs in total, got %v", queue.paths)
	}
}

func TestSyncDropDirectoryEnqueuesOldestFirst(t *testing.T) {
	t.Parallel()

	modified := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	lister := &fakeLister{files: []app.SourceFile{
		{Path: "a_latest.xlsx", Size: 10, ModTime: modified.Add(48 * time.Hour)},
		{Path: "b_oldest.xlsx", Size: 10, ModTime: modified},
		{Path: "c_middle.xlsx", Size: 10, ModTime: modified.Add(24 * time.Hour)},
		{Path: "d_middle.xlsx", Size: 10, ModTime: modified.Add(24 * time.Hour)},
	}}
	queue := newFakeJobQueue()
	uc := app.NewSyncDropDirectory(lister, queue)

	out, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"b_oldest.xlsx", "c_middle.xlsx", "d_middle.xlsx", "a_latest.xlsx"}
	if len(out.Enqueued) != len(want) {
		t.Fatalf("unexpected enqueued files: %v", out.Enqueued)
	}
	for i := range want {
		if out.Enqueued[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, out.Enqueued)
		}
	}
	if lister.files[0].Path != "a_latest.xlsx" {
		t.Fatal("listed files must not be reordered in place")
	}
}

func TestSyncDropDirectoryEnqueueErrorRetriesNextRun(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{files: []app.SourceFile{{Path: "a.xlsx", Size: 1}}}
	queue := newFakeJobQueue()
	queue.returnErr = errors.New("db down")
	uc := app.NewSyncDropDirectory(lister, queue)

	if _, err := uc.Execute(context.Background()); !errors.Is(err, app.ErrEnqueueImportJob) {
		t.Fatalf("expected ErrEnqueueImportJob, got %v", err)
	}

	queue.returnErr = nil
	out, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Enqueued) != 1 {
		t.Fatalf("expected file to be enqueued after failure, got %+v", out)
	}
}

func TestSyncDropDirectoryListError(t *testing.T) {
	t.Parallel()

	uc := app.NewSyncDropDirectory(&fakeLister{err: errors.New("permission denied")}, newFakeJobQueue())
	if _, err := uc.Execute(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
