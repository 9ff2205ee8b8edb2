package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/courtconfig"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/ptr"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/types"
)

type stubBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (s *stubBookingRepo) ListPaidForCourtsBetween(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.Booking, error) {
	return s.bookings, s.err
}

type stubCourtRepo struct {
	courts      []*domain.Court
	total       int
	maintenance []*domain.MaintenancePeriod
	events      []*domain.SpecialEvent
}

func (s *stubCourtRepo) ListActiveByType(ctx context.Context, courtType string) ([]*domain.Court, error) {
	return s.courts, nil
}

func (s *stubCourtRepo) CountByType(ctx context.Context, courtType string) (int, error) {
	return s.total, nil
}

func (s *stubCourtRepo) ListMaintenanceOverlapping(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.MaintenancePeriod, error) {
	return s.maintenance, nil
}

func (s *stubCourtRepo) ListSpecialEventsOverlapping(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.SpecialEvent, error) {
	return s.events, nil
}

type stubSettingsRepo struct {
	settings *domain.CourtTypeSettings
	err      error
}

func (s *stubSettingsRepo) GetSettings(ctx context.Context, courtType string) (*domain.CourtTypeSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.settings, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testNormalizer(t *testing.T, instant time.Time) *clock.Normalizer {
	t.Helper()
	norm, err := clock.NewNormalizer(clock.Fixed{Instant: instant}, "UTC")
	require.NoError(t, err)
	return norm
}

func tennisSettings() *domain.CourtTypeSettings {
	return &domain.CourtTypeSettings{
		CourtType:           "tennis",
		OperatingDays:       []int{1, 2, 3, 4, 5, 6, 0},
		OpenTime:            types.TimeString("08:00"),
		CloseTime:           types.TimeString("12:00"),
		PeakMultiplier:      1.0,
		WeekendMultiplier:   1.0,
		BasePricePerHour:    400,
		SlotDurationMinutes: 60,
	}
}

func twoCourts() []*domain.Court {
	return []*domain.Court{
		{ID: 1, Name: "Court 1", CourtType: "tennis", Active: true},
		{ID: 2, Name: "Court 2", CourtType: "tennis", Active: true},
	}
}

// now is a Tuesday; the queried date is the following day.
var (
	testNow  = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	testDate = "2026-03-11"
)

func newTestUseCase(bookingRepo *stubBookingRepo, courtRepo *stubCourtRepo, settingsRepo *stubSettingsRepo, norm *clock.Normalizer) *UseCase {
	return NewUseCase(bookingRepo, courtRepo, settingsRepo, norm, nopLogger{})
}

func TestExecute_GeneratesFullGrid(t *testing.T) {
	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubCourtRepo{courts: twoCourts(), total: 2},
		&stubSettingsRepo{settings: tennisSettings()},
		testNormalizer(t, testNow),
	)

	resp, err := uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: testDate})
	require.NoError(t, err)

	assert.Empty(t, resp.Reason)
	require.Len(t, resp.Slots, 4)
	assert.Equal(t, "08:00", resp.Slots[0].StartTime)
	assert.Equal(t, "09:00", resp.Slots[0].EndTime)
	assert.Equal(t, "11:00", resp.Slots[3].StartTime)

	for _, s := range resp.Slots {
		assert.True(t, s.Available)
		assert.Equal(t, 2, s.AvailableCourts)
		assert.Equal(t, 2, s.TotalCourts)
		assert.False(t, s.IsPast)
		assert.Equal(t, 400.0, s.Price)
	}
}

func TestExecute_PaidBookingReducesCapacity(t *testing.T) {
	booking := &domain.Booking{
		ID:        10,
		CourtID:   1,
		UserID:    7,
		StartTime: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
		Status:    domain.StatusPaid,
	}

	uc := newTestUseCase(
		&stubBookingRepo{bookings: []*domain.Booking{booking}},
		&stubCourtRepo{courts: twoCourts(), total: 2},
		&stubSettingsRepo{settings: tennisSettings()},
		testNormalizer(t, testNow),
	)

	resp, err := uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: testDate})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)

	assert.Equal(t, 2, resp.Slots[0].AvailableCourts)
	assert.Equal(t, 1, resp.Slots[1].AvailableCourts)
	assert.True(t, resp.Slots[1].Available)
	assert.Equal(t, 2, resp.Slots[2].AvailableCourts)
}

func TestExecute_SlotFullWhenAllCourtsBooked(t *testing.T) {
	start := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	bookings := []*domain.Booking{
		{ID: 10, CourtID: 1, StartTime: start, EndTime: end, Status: domain.StatusPaid},
		{ID: 11, CourtID: 2, StartTime: start, EndTime: end, Status: domain.StatusPaid},
	}

	uc := newTestUseCase(
		&stubBookingRepo{bookings: bookings},
		&stubCourtRepo{courts: twoCourts(), total: 2},
		&stubSettingsRepo{settings: tennisSettings()},
		testNormalizer(t, testNow),
	)

	resp, err := uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Slots[1].AvailableCourts)
	assert.False(t, resp.Slots[1].Available)
}

func TestExecute_MaintenanceBlocksCourt(t *testing.T) {
	maintenance := []*domain.MaintenancePeriod{
		{
			ID:        1,
			CourtID:   2,
			StartTime: time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
			Active:    true,
		},
	}

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubCourtRepo{courts: twoCourts(), total: 2, maintenance: maintenance},
		&stubSettingsRepo{settings: tennisSettings()},
		testNormalizer(t, testNow),
	)

	resp, err := uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Slots[0].AvailableCourts)
	assert.Equal(t, 1, resp.Slots[1].AvailableCourts)
	assert.Equal(t, 2, resp.Slots[2].AvailableCourts)
}

func TestExecute_SpecialEventBlocksAndIsListed(t *testing.T) {
	events := []*domain.SpecialEvent{
		{
			ID:        1,
			CourtID:   1,
			StartTime: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC),
			Title:     "Club Tournament",
		},
	}

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubCourtRepo{courts: twoCourts(), total: 2, events: events},
		&stubSettingsRepo{settings: tennisSettings()},
		testNormalizer(t, testNow),
	)

	resp, err := uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: testDate})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots[0].SpecialEvents)
	assert.Equal(t, []string{"Club Tournament"}, resp.Slots[2].SpecialEvents)
	assert.Equal(t, 1, resp.Slots[2].AvailableCourts)
	assert.Equal(t, 1, resp.Slots[3].AvailableCourts)
}

func TestExecute_PastSlotsNotBookable(t *testing.T) {
	// Clock pinned to 10:30 on the queried day.
	now := time.Date(2026, 3, 11, 10, 30, 0, 0, time.UTC)

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubCourtRepo{courts: twoCourts(), total: 2},
		&stubSettingsRepo{settings: tennisSettings()},
		testNormalizer(t, now),
	)

	resp, err := uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: testDate})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)

	assert.True(t, resp.Slots[0].IsPast)
	assert.False(t, resp.Slots[0].Available)
	assert.True(t, resp.Slots[2].IsPast) // started at 10:00
	assert.False(t, resp.Slots[3].IsPast)
	assert.True(t, resp.Slots[3].Available)
}

func TestExecute_NotOperatingDay(t *testing.T) {
	settings := tennisSettings()
	settings.OperatingDays = []int{1, 2, 3, 4, 5} // weekdays only

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubCourtRepo{courts: twoCourts(), total: 2},
		&stubSettingsRepo{settings: settings},
		testNormalizer(t, testNow),
	)

	// 2026-03-14 is a Saturday.
	resp, err := uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: "2026-03-14"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.ReasonNotOperating), resp.Reason)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NoCourtsConfigured(t *testing.T) {
	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubCourtRepo{total: 0},
		&stubSettingsRepo{settings: tennisSettings()},
		testNormalizer(t, testNow),
	)

	resp, err := uc.Execute(context.Background(), &Request{CourtType: "padel", Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, string(domain.ReasonNoCourtsConfigured), resp.Reason)
	assert.Empty(t, resp.Slots)
}

func TestExecute_AllCourtsOutOfService(t *testing.T) {
	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubCourtRepo{courts: []*domain.Court{}, total: 2},
		&stubSettingsRepo{settings: tennisSettings()},
		testNormalizer(t, testNow),
	)

	resp, err := uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, string(domain.ReasonAllCourtsUnavailable), resp.Reason)
	assert.Empty(t, resp.Slots)
}

func TestExecute_WeekendAndPeakPricing(t *testing.T) {
	settings := tennisSettings()
	settings.WeekendMultiplier = 1.5
	settings.PeakMultiplier = 2.0
	settings.PeakStart = ptr.Ptr(types.TimeString("10:00"))
	settings.PeakEnd = ptr.Ptr(types.TimeString("12:00"))

	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubCourtRepo{courts: twoCourts(), total: 2},
		&stubSettingsRepo{settings: settings},
		testNormalizer(t, testNow),
	)

	// 2026-03-14 is a Saturday.
	resp, err := uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: "2026-03-14"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)

	assert.Equal(t, 600.0, resp.Slots[0].Price)  // weekend only
	assert.Equal(t, 1200.0, resp.Slots[2].Price) // weekend + peak at 10:00
	assert.Equal(t, 1200.0, resp.Slots[3].Price)
}

func TestExecute_DefaultSettingsWhenNoneConfigured(t *testing.T) {
	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubCourtRepo{courts: twoCourts(), total: 2},
		&stubSettingsRepo{err: courtconfig.ErrSettingsNotFound},
		testNormalizer(t, testNow),
	)

	resp, err := uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: testDate})
	require.NoError(t, err)

	// Default grid runs 08:00-22:00 with 60-minute slots.
	require.Len(t, resp.Slots, 14)
	assert.Equal(t, "08:00", resp.Slots[0].StartTime)
	assert.Equal(t, "22:00", resp.Slots[13].EndTime)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(
		&stubBookingRepo{},
		&stubCourtRepo{courts: twoCourts(), total: 2},
		&stubSettingsRepo{settings: tennisSettings()},
		testNormalizer(t, testNow),
	)

	_, err := uc.Execute(context.Background(), &Request{CourtType: "", Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidCourtType)

	_, err = uc.Execute(context.Background(), &Request{CourtType: "tennis", Date: "11-03-2026"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
