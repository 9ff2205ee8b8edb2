// Package sweeper reclaims expired payment holds and drains the
// booking-event outbox. Both jobs run on the shared scheduler and are
// safe to run concurrently with the API: every transition is
// conditional on row state, so a racing payment always wins.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	bookingRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/booking"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/metrics"
)

// DefaultBatchSize bounds one sweep so a backlog after downtime is
// worked off in chunks instead of one giant transaction.
const DefaultBatchSize = 100

// Sweeper expires overdue pending holds.
type Sweeper struct {
	bookingRepo BookingRepository
	outboxRepo  OutboxRepository
	txManager   TransactionManager
	clk         clock.Clock
	metrics     *metrics.Metrics
	batchSize   uint64
	logger      Logger
}

// NewSweeper creates a sweeper. batchSize 0 falls back to DefaultBatchSize.
func NewSweeper(
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	clk clock.Clock,
	m *metrics.Metrics,
	batchSize uint64,
	logger Logger,
) *Sweeper {
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	return &Sweeper{
		bookingRepo: bookingRepo,
		outboxRepo:  outboxRepo,
		txManager:   txManager,
		clk:         clk,
		metrics:     m,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// Run performs one sweep: list overdue holds, then expire each in its
// own transaction together with its outbox event. A single poisoned
// row therefore cannot stall the rest of the batch.
func (s *Sweeper) Run(ctx context.Context) error {
	cutoff := s.clk.Now()

	expired, err := s.bookingRepo.ListExpired(ctx, cutoff, s.batchSize)
	if err != nil {
		s.logger.Error("Sweeper: failed to list expired holds: %v", err)
		return fmt.Errorf("sweeper: list expired holds: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}

	s.logger.Info("Sweeper: found %d expired holds", len(expired))

	var swept, lost int
	for _, booking := range expired {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch err := s.expireOne(ctx, booking, cutoff); {
		case err == nil:
			swept++
			s.metrics.SweeperExpiredTotal.WithLabelValues(s.metrics.Service()).Inc()
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			// The hold was paid or already reclaimed between the list
			// and the update. Not an error.
			lost++
			s.metrics.SweeperLostRaceTotal.WithLabelValues(s.metrics.Service()).Inc()
			s.logger.Debug("Sweeper: booking id=%d transitioned concurrently, skipping", booking.ID)
		default:
			s.logger.Error("Sweeper: failed to expire booking id=%d: %v", booking.ID, err)
		}
	}

	s.logger.Info("Sweeper: swept %d holds, %d lost races", swept, lost)
	return nil
}

func (s *Sweeper) expireOne(ctx context.Context, booking *domain.Booking, cutoff time.Time) error {
	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Expire(txCtx, booking.ID, cutoff); err != nil {
			return err
		}

		event, err := domain.NewBookingEvent(booking.ID, domain.EventExpired, expiredPayload{
			BookingID: booking.ID,
			CourtID:   booking.CourtID,
			UserID:    booking.UserID,
			StartTime: booking.StartTime,
			ExpiredAt: cutoff,
		})
		if err != nil {
			return fmt.Errorf("sweeper: build expired event: %w", err)
		}
		return s.outboxRepo.Append(txCtx, event)
	})
}

// expiredPayload is the outbox payload for a reclaimed hold.
type expiredPayload struct {
	BookingID int64     `json:"booking_id"`
	CourtID   int64     `json:"court_id"`
	UserID    int64     `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	ExpiredAt time.Time `json:"expired_at"`
}
