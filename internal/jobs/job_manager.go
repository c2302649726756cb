package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"relay/internal/core/ports"
)

// Config tunes the scheduled jobs.
type Config struct {
	RelaySchedule   string
	OutboxRetention time.Duration
}

// JobManager starts and stops all background jobs together.
type JobManager struct {
	outboxRelayJob *OutboxRelayJob
	outboxPurgeJob *OutboxPurgeJob
}

func NewJobManager(
	outbox ports.OutboxRepository,
	publisher ports.ChangePublisher,
	cfg Config,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		outboxRelayJob: NewOutboxRelayJob(outbox, publisher, cfg.RelaySchedule, logger),
		outboxPurgeJob: NewOutboxPurgeJob(outbox, cfg.OutboxRetention, logger),
	}
}

// StartAll starts every job, stopping the ones already started if one fails.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.outboxPurgeJob.Start(); err != nil {
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start outbox purge job: %w", err)
	}

	return nil
}

func (jm *JobManager) StopAll() {
	jm.outboxPurgeJob.Stop()
	jm.outboxRelayJob.Stop()
}
