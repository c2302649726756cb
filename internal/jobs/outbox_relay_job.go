package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const (
	// EverySecond is the default outbox relay schedule.
	EverySecond = "* * * * * *"

	// DefaultRelayBatchSize bounds the messages published per run.
	DefaultRelayBatchSize = 100
)

// OutboxRelayJob hands committed change feed messages to the publisher,
// oldest first, and marks them published. Runs never overlap; a message that
// fails to publish stops the run and is retried on the next one, so delivery
// is at least once and in order.
type OutboxRelayJob struct {
	outbox    ports.OutboxRepository
	publisher ports.ChangePublisher
	schedule  string
	batchSize int
	now       func() time.Time
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxRelayJob(
	outbox ports.OutboxRepository,
	publisher ports.ChangePublisher,
	schedule string,
	logger *slog.Logger,
) *OutboxRelayJob {
	if schedule == "" {
		schedule = EverySecond
	}
	return &OutboxRelayJob{
		outbox:    outbox,
		publisher: publisher,
		schedule:  schedule,
		batchSize: DefaultRelayBatchSize,
		now:       time.Now,
		cron:      newCron(),
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

// Start schedules the relay.
func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running relay to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

// RunOnce publishes one batch and returns how many messages went out. The
// messages published before a failure are still marked.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) (int, error) {
	messages, err := j.outbox.GetUnpublished(ctx, j.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to read outbox: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	published := make([]kernel.UUID, 0, len(messages))
	var publishErr error
	for _, m := range messages {
		if publishErr = j.publisher.Publish(ctx, m.Topic, m.Payload); publishErr != nil {
			publishErr = fmt.Errorf("message %s: %w", m.ID, publishErr)
			break
		}
		published = append(published, m.ID)
	}

	if err = j.outbox.MarkPublished(ctx, published, j.now()); err != nil {
		return 0, fmt.Errorf("failed to mark %d messages published: %w", len(published), err)
	}

	if len(published) > 0 {
		j.logger.DebugContext(ctx, "Outbox messages published", "count", len(published))
	}
	return len(published), publishErr
}

func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}
