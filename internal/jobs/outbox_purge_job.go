package jobs

import (
	"context"
	"log/slog"
	"time"

	"relay/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const (
	Hourly = "0 0 * * * *"

	// DefaultRetention is how long published messages stay in the outbox.
	DefaultRetention = 24 * time.Hour
)

// OutboxPurgeJob deletes outbox messages published longer than the retention ago.
type OutboxPurgeJob struct {
	outbox    ports.OutboxRepository
	retention time.Duration
	now       func() time.Time
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxPurgeJob(outbox ports.OutboxRepository, retention time.Duration, logger *slog.Logger) *OutboxPurgeJob {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &OutboxPurgeJob{
		outbox:    outbox,
		retention: retention,
		now:       time.Now,
		cron:      newCron(),
		logger:    logger.With("component", "outbox_purge_job"),
	}
}

func (j *OutboxPurgeJob) Start() error {
	_, err := j.cron.AddFunc(Hourly, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox purge failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox purge job started", "retention", j.retention)
	return nil
}

func (j *OutboxPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox purge job stopped")
}

// RunOnce deletes expired messages and returns how many were removed.
func (j *OutboxPurgeJob) RunOnce(ctx context.Context) (int64, error) {
	deleted, err := j.outbox.DeletePublishedBefore(ctx, j.now().Add(-j.retention))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		j.logger.InfoContext(ctx, "Outbox messages purged", "count", deleted)
	}
	return deleted, nil
}
