package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	app "github.com/mohammadpnp/instituto-import/internal/application/training"
)

type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (s *countingSyncer) Execute(ctx context.Context) (app.SyncDropDirectoryOutput, error) {
	s.calls.Add(1)
	return app.SyncDropDirectoryOutput{Enqueued: []string{"/drop/a.xlsx"}}, s.err
}

func TestNewDropDirectoryRejectsInvalidSchedule(t *testing.T) {
	t.Parallel()

	if _, err := NewDropDirectory("every now and then", &countingSyncer{}); err == nil {
		t.Fatal("expected schedule error")
	}
}

func TestDropDirectoryRunOnce(t *testing.T) {
	t.Parallel()

	syncer := &countingSyncer{err: errors.New("list failed")}
	d, err := NewDropDirectory("@every 1h", syncer)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	d.RunOnce()

	if got := syncer.calls.Load(); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}

func TestDropDirectoryStartStop(t *testing.T) {
	t.Parallel()

	d, err := NewDropDirectory("@every 1h", &countingSyncer{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	d.Start()
	d.Stop(context.Background())
}
