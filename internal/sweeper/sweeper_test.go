package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	bookingRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/booking"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/metrics"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/ptr"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type stubBookingRepo struct {
	expired    []*domain.Booking
	listErr    error
	expireErrs map[int64]error
	expiredIDs []int64
}

func (s *stubBookingRepo) ListExpired(ctx context.Context, cutoff time.Time, limit uint64) ([]*domain.Booking, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.expired, nil
}

func (s *stubBookingRepo) Expire(ctx context.Context, id int64, cutoff time.Time) error {
	if err, ok := s.expireErrs[id]; ok {
		return err
	}
	s.expiredIDs = append(s.expiredIDs, id)
	return nil
}

type stubOutbox struct {
	events    []*domain.BookingEvent
	published []interface{}
	toDrain   []*domain.BookingEvent
	listErr   error
}

func (s *stubOutbox) Append(ctx context.Context, event *domain.BookingEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *stubOutbox) ListUnpublished(ctx context.Context, limit uint64) ([]*domain.BookingEvent, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.toDrain, nil
}

func (s *stubOutbox) MarkPublished(ctx context.Context, ids []interface{}) error {
	s.published = append(s.published, ids...)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Debug(format string, v ...interface{}) {}
func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry("booking-service-test", prometheus.NewRegistry())
}

func expiredHold(id int64) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		CourtID:   1,
		UserID:    7,
		StartTime: testNow.Add(2 * time.Hour),
		EndTime:   testNow.Add(3 * time.Hour),
		Status:    domain.StatusPendingPayment,
		ExpiresAt: ptr.Ptr(testNow.Add(-time.Minute)),
	}
}

func newSweeper(repo *stubBookingRepo, outbox *stubOutbox) *Sweeper {
	return NewSweeper(repo, outbox, passthroughTxManager{},
		clock.Fixed{Instant: testNow}, testMetrics(), 0, nopLogger{})
}

func TestSweeper_ExpiresOverdueHolds(t *testing.T) {
	repo := &stubBookingRepo{expired: []*domain.Booking{expiredHold(1), expiredHold(2)}}
	outbox := &stubOutbox{}

	err := newSweeper(repo, outbox).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, repo.expiredIDs)
	require.Len(t, outbox.events, 2)
	assert.Equal(t, domain.EventExpired, outbox.events[0].EventType)
	assert.Equal(t, int64(1), outbox.events[0].BookingID)
}

func TestSweeper_NothingToSweep(t *testing.T) {
	repo := &stubBookingRepo{}
	outbox := &stubOutbox{}

	err := newSweeper(repo, outbox).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, repo.expiredIDs)
	assert.Empty(t, outbox.events)
}

func TestSweeper_ToleratesLostRace(t *testing.T) {
	// Booking 1 got paid between the list and the update; the sweep
	// skips it and still reclaims booking 2.
	repo := &stubBookingRepo{
		expired:    []*domain.Booking{expiredHold(1), expiredHold(2)},
		expireErrs: map[int64]error{1: bookingRepo.ErrBookingNotFound},
	}
	outbox := &stubOutbox{}

	err := newSweeper(repo, outbox).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, repo.expiredIDs)
	require.Len(t, outbox.events, 1)
	assert.Equal(t, int64(2), outbox.events[0].BookingID)
}

func TestSweeper_KeepsGoingPastFailedRow(t *testing.T) {
	repo := &stubBookingRepo{
		expired:    []*domain.Booking{expiredHold(1), expiredHold(2)},
		expireErrs: map[int64]error{1: errors.New("deadlock detected")},
	}
	outbox := &stubOutbox{}

	err := newSweeper(repo, outbox).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, repo.expiredIDs)
}

func TestSweeper_ListErrorPropagates(t *testing.T) {
	repo := &stubBookingRepo{listErr: errors.New("connection refused")}

	err := newSweeper(repo, &stubOutbox{}).Run(context.Background())
	assert.Error(t, err)
}

func TestSweeper_StopsOnCancelledContext(t *testing.T) {
	repo := &stubBookingRepo{expired: []*domain.Booking{expiredHold(1), expiredHold(2)}}
	outbox := &stubOutbox{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newSweeper(repo, outbox).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, repo.expiredIDs)
}
