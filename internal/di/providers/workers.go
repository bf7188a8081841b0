package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/shelfnote/shelfnote-server/internal/logger"
)

// MaintenanceJob periodically checkpoints the SQLite WAL and reclaims
// expired entries from the metadata cache.
type MaintenanceJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *MaintenanceJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideMaintenanceJob provides the periodic maintenance job.
func ProvideMaintenanceJob(i do.Injector) (*MaintenanceJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*MetadataCacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i).WithField("job", "maintenance")

	ctx, cancel := context.WithCancel(context.Background())
	job := &MaintenanceJob{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(job.done)
		ticker := time.NewTicker(maintenanceInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runMaintenance(ctx, storeHandle, cacheHandle, log)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Maintenance job started", "interval", maintenanceInterval)

	return job, nil
}

func runMaintenance(ctx context.Context, storeHandle *StoreHandle, cacheHandle *MetadataCacheHandle, log *logger.Logger) {
	if res, err := storeHandle.Checkpoint(ctx); err != nil {
		log.WithError(err).Warn("WAL checkpoint failed")
	} else if res.Busy {
		log.Debug("WAL checkpoint incomplete, database busy", "frames", res.LogFrames)
	}

	if n, err := cacheHandle.CollectGarbage(); err != nil {
		log.WithError(err).Warn("Metadata cache GC failed")
	} else if n > 0 {
		log.Info("Metadata cache GC completed", "files_rewritten", n)
	}
}
