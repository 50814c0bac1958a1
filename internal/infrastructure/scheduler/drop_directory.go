package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	app "github.com/mohammadpnp/instituto-import/internal/application/training"
	"github.com/robfig/cron/v3"
)

const syncTimeout = 2 * time.Minute

type dropDirectorySyncer interface {
	Execute(ctx context.Context) (app.SyncDropDirectoryOutput, error)
}

// DropDirectory runs the drop-directory sync on a cron schedule. Overlapping
// runs are skipped.
type DropDirectory struct {
	cron   *cron.Cron
	syncer dropDirectorySyncer
}

func NewDropDirectory(schedule string, syncer dropDirectorySyncer) (*DropDirectory, error) {
	d := &DropDirectory{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		syncer: syncer,
	}

	if _, err := d.cron.AddFunc(schedule, d.RunOnce); err != nil {
		return nil, fmt.Errorf("schedule drop directory sync %q: %w", schedule, err)
	}
	return d, nil
}

func (d *DropDirectory) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	out, err := d.syncer.Execute(ctx)
	if err != nil {
		log.Printf("[DROP-DIR] sync failed: %v", err)
	}
	for _, path := range out.Enqueued {
		log.Printf("[DROP-DIR] enqueued %s", path)
	}
}

func (d *DropDirectory) Start() {
	d.cron.Start()
}

// Stop waits for a running sync to finish or ctx to expire.
func (d *DropDirectory) Stop(ctx context.Context) {
	select {
	case <-d.cron.Stop().Done():
	case <-ctx.Done():
	}
}
