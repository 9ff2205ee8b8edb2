package sweeper

import (
	"context"
	"fmt"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/metrics"
)

// Relay drains unpublished outbox events to the notifier. The batch is
// locked with FOR UPDATE SKIP LOCKED inside the transaction, so
// overlapping runs drain disjoint sets of rows.
type Relay struct {
	outboxRepo OutboxRepository
	notifier   Notifier
	txManager  TransactionManager
	metrics    *metrics.Metrics
	batchSize  uint64
	logger     Logger
}

// NewRelay creates an outbox relay. batchSize 0 falls back to
// DefaultBatchSize.
func NewRelay(
	outboxRepo OutboxRepository,
	notifier Notifier,
	txManager TransactionManager,
	m *metrics.Metrics,
	batchSize uint64,
	logger Logger,
) *Relay {
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	return &Relay{
		outboxRepo: outboxRepo,
		notifier:   notifier,
		txManager:  txManager,
		metrics:    m,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Run drains one batch. Events whose delivery fails stay unpublished
// and are retried on the next run; the notifier side deduplicates by
// event id.
func (r *Relay) Run(ctx context.Context) error {
	var published int

	err := r.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		events, err := r.outboxRepo.ListUnpublished(txCtx, r.batchSize)
		if err != nil {
			return fmt.Errorf("relay: list unpublished events: %w", err)
		}
		if len(events) == 0 {
			return nil
		}

		delivered := make([]interface{}, 0, len(events))
		for _, event := range events {
			if err := r.notifier.Notify(txCtx, event); err != nil {
				r.logger.Warn("Relay: failed to deliver event id=%s type=%s: %v",
					event.ID, event.EventType, err)
				continue
			}
			delivered = append(delivered, event.ID)
		}

		if err := r.outboxRepo.MarkPublished(txCtx, delivered); err != nil {
			return fmt.Errorf("relay: mark events published: %w", err)
		}

		published = len(delivered)
		return nil
	})
	if err != nil {
		r.logger.Error("Relay: drain failed: %v", err)
		return err
	}

	if published > 0 {
		r.metrics.OutboxPublishedTotal.WithLabelValues(r.metrics.Service()).Add(float64(published))
		r.logger.Info("Relay: published %d events", published)
	}
	return nil
}

// LogNotifier writes events to the log. Stands in for the real
// notification fan-out until one is wired.
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the event.
func (n *LogNotifier) Notify(_ context.Context, event *domain.BookingEvent) error {
	n.logger.Info("Notify: event id=%s type=%s booking=%d payload=%s",
		event.ID, event.EventType, event.BookingID, string(event.Payload))
	return nil
}
