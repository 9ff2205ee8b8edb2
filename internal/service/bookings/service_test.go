package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	bookingRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/booking"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/courtconfig"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/service/bookings/models"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/ptr"
)

type stubBookingRepo struct {
	booking    *domain.Booking
	getErr     error
	list       []*domain.Booking
	cancelErr  error
	cancelled  bool
	cancelArgs struct {
		reason      string
		cancelledBy string
	}
}

func (s *stubBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	copied := *s.booking
	return &copied, nil
}

func (s *stubBookingRepo) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return s.list, nil
}

func (s *stubBookingRepo) GetByCourtWithFilter(ctx context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error) {
	return s.list, nil
}

func (s *stubBookingRepo) CancelPaid(ctx context.Context, id int64, reason, cancelledBy string, at time.Time) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.cancelled = true
	s.cancelArgs.reason = reason
	s.cancelArgs.cancelledBy = cancelledBy
	return nil
}

type stubCourtRepo struct{}

func (stubCourtRepo) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	return &domain.Court{ID: id, CourtType: "tennis", Active: true}, nil
}

type stubConfigRepo struct {
	rules *domain.BookingRules
}

func (s *stubConfigRepo) GetRules(ctx context.Context, courtType string) (*domain.BookingRules, error) {
	if s.rules == nil {
		return nil, courtconfig.ErrRulesNotFound
	}
	return s.rules, nil
}

type stubOutbox struct {
	events []*domain.BookingEvent
}

func (s *stubOutbox) Append(ctx context.Context, event *domain.BookingEvent) error {
	s.events = append(s.events, event)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func paidBooking() *domain.Booking {
	return &domain.Booking{
		ID:        42,
		CourtID:   1,
		UserID:    7,
		StartTime: time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 12, 11, 0, 0, 0, time.UTC),
		Status:    domain.StatusPaid,
		Amount:    400,
	}
}

type fixture struct {
	svc      *Service
	bookings *stubBookingRepo
	config   *stubConfigRepo
	outbox   *stubOutbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	norm, err := clock.NewNormalizer(clock.Fixed{Instant: testNow}, "UTC")
	require.NoError(t, err)

	f := &fixture{
		bookings: &stubBookingRepo{booking: paidBooking()},
		config: &stubConfigRepo{rules: &domain.BookingRules{
			CourtType:              "tennis",
			MinCancellationMinutes: 24 * 60,
			AllowCancellation:      true,
			AllowRescheduling:      true,
		}},
		outbox: &stubOutbox{},
	}
	f.svc = NewService(
		f.bookings, stubCourtRepo{}, f.config, f.outbox,
		passthroughTxManager{}, norm, nopLogger{},
	)
	return f
}

func TestGetByID_OwnerSeesBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GetByID(context.Background(), 42, 7, domain.RoleMember)
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "2026-03-12", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "paid", resp.Status)
}

func TestGetByID_ForeignMemberDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), 42, 99, domain.RoleMember)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_StaffSeesAnyBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GetByID(context.Background(), 42, 99, domain.RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture(t)
	f.bookings.getErr = bookingRepo.ErrBookingNotFound

	_, err := f.svc.GetByID(context.Background(), 42, 7, domain.RoleMember)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetUserBookings_MemberListsOwnHistory(t *testing.T) {
	f := newFixture(t)
	f.bookings.list = []*domain.Booking{paidBooking()}

	resp, err := f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 7, RequesterID: 7, Role: domain.RoleMember,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestGetUserBookings_ForeignHistoryDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 7, RequesterID: 99, Role: domain.RoleMember,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetUserBookings_InvalidStatusFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 7, RequesterID: 7, Role: domain.RoleMember, Status: ptr.Ptr("confirmed"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCourtBookings_StaffOnly(t *testing.T) {
	f := newFixture(t)
	f.bookings.list = []*domain.Booking{paidBooking()}

	_, err := f.svc.GetCourtBookings(context.Background(), &models.GetCourtBookingsRequest{
		CourtID: 1, Role: domain.RoleMember,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.svc.GetCourtBookings(context.Background(), &models.GetCourtBookingsRequest{
		CourtID: 1, Role: domain.RoleOperator,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestCancel_OwnerOutsideWindow(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 7, Role: domain.RoleMember, CancellationReason: "cannot make it",
	})
	require.NoError(t, err)

	assert.True(t, f.bookings.cancelled)
	assert.Equal(t, domain.CancelledByUser, f.bookings.cancelArgs.cancelledBy)
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, domain.EventCancelled, f.outbox.events[0].EventType)
}

func TestCancel_InsideWindowRejected(t *testing.T) {
	f := newFixture(t)
	// Slot starts in 22 hours; the window requires 24.
	f.bookings.booking.StartTime = testNow.Add(22 * time.Hour)
	f.bookings.booking.EndTime = testNow.Add(23 * time.Hour)

	err := f.svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 7, Role: domain.RoleMember,
	})
	assert.ErrorIs(t, err, ErrTooLateToCancel)
	assert.False(t, f.bookings.cancelled)
}

func TestCancel_AdminOverridesWindow(t *testing.T) {
	f := newFixture(t)
	f.bookings.booking.StartTime = testNow.Add(22 * time.Hour)
	f.bookings.booking.EndTime = testNow.Add(23 * time.Hour)

	err := f.svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 99, Role: domain.RoleAdmin, CancellationReason: "rain",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CancelledByAdmin, f.bookings.cancelArgs.cancelledBy)
}

func TestCancel_PendingHoldNotCancellable(t *testing.T) {
	f := newFixture(t)
	f.bookings.booking.Status = domain.StatusPendingPayment
	f.bookings.booking.ExpiresAt = ptr.Ptr(testNow.Add(10 * time.Minute))

	err := f.svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 7, Role: domain.RoleMember,
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_ForeignMemberDenied(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 99, Role: domain.RoleMember,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_DisabledByRules(t *testing.T) {
	f := newFixture(t)
	f.config.rules.AllowCancellation = false

	err := f.svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 7, Role: domain.RoleMember,
	})
	assert.ErrorIs(t, err, ErrCancellationDisabled)
}
