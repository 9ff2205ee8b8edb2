package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahughesmx/ace-booking-system-sub001/pkg/types"
)

func newNormalizer(t *testing.T, instant time.Time, tz string) *Normalizer {
	t.Helper()
	norm, err := NewNormalizer(Fixed{Instant: instant}, tz)
	require.NoError(t, err)
	return norm
}

func TestNewNormalizer_InvalidTimezone(t *testing.T) {
	_, err := NewNormalizer(System{}, "Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestSlotStartUTC(t *testing.T) {
	// Mexico City sits at UTC-6 year round.
	norm := newNormalizer(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), "America/Mexico_City")

	got, err := norm.SlotStartUTC("2026-03-12", types.TimeString("10:00"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 12, 16, 0, 0, 0, time.UTC), got)
}

func TestSlotStartUTC_InvalidInput(t *testing.T) {
	norm := newNormalizer(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), "UTC")

	_, err := norm.SlotStartUTC("12/03/2026", types.TimeString("10:00"))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = norm.SlotStartUTC("2026-03-12", types.TimeString("10am"))
	assert.ErrorIs(t, err, types.ErrInvalidTimeString)
}

func TestLocalDayBounds(t *testing.T) {
	norm := newNormalizer(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), "America/Mexico_City")

	start, end, err := norm.LocalDayBounds("2026-03-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 12, 6, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 13, 6, 0, 0, 0, time.UTC), end)
}

func TestLocalDayBounds_SpringForward(t *testing.T) {
	// New York jumps from UTC-5 to UTC-4 on 2026-03-08, so that civil
	// day is 23 hours long. Bounds must follow the zone, not add 24h.
	norm := newNormalizer(t, time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC), "America/New_York")

	start, end, err := norm.LocalDayBounds("2026-03-08")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 8, 5, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 9, 4, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 23*time.Hour, end.Sub(start))
}

func TestLocalDayBounds_FallBack(t *testing.T) {
	// The reverse transition makes a 25 hour day.
	norm := newNormalizer(t, time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC), "America/New_York")

	start, end, err := norm.LocalDayBounds("2026-11-01")
	require.NoError(t, err)
	assert.Equal(t, 25*time.Hour, end.Sub(start))
}

func TestIsPastSlot(t *testing.T) {
	// Fixed at 2026-03-10 18:00 UTC, noon in Mexico City.
	norm := newNormalizer(t, time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC), "America/Mexico_City")

	assert.True(t, norm.IsPastSlot("2026-03-10", "10:00"))
	assert.True(t, norm.IsPastSlot("2026-03-10", "12:00")) // started right now counts as past
	assert.False(t, norm.IsPastSlot("2026-03-10", "13:00"))
	assert.False(t, norm.IsPastSlot("2026-03-11", "08:00"))

	// Unparseable input fails closed.
	assert.True(t, norm.IsPastSlot("garbage", "10:00"))
}

func TestWeekdayAndWeekend(t *testing.T) {
	norm := newNormalizer(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), "UTC")

	wd, err := norm.Weekday("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, wd)

	weekend, err := norm.IsWeekend("2026-03-14")
	require.NoError(t, err)
	assert.True(t, weekend)

	weekend, err = norm.IsWeekend("2026-03-11")
	require.NoError(t, err)
	assert.False(t, weekend)
}

func TestLocalDateAndTime(t *testing.T) {
	norm := newNormalizer(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), "America/Mexico_City")

	// 02:00 UTC is still the previous civil day in Mexico City.
	instant := time.Date(2026, 3, 12, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-11", norm.LocalDate(instant))
	assert.Equal(t, types.TimeString("20:00"), norm.LocalTime(instant))
}

func TestToday(t *testing.T) {
	// 04:00 UTC on the 11th is the evening of the 10th in Mexico City.
	norm := newNormalizer(t, time.Date(2026, 3, 11, 4, 0, 0, 0, time.UTC), "America/Mexico_City")
	assert.Equal(t, "2026-03-10", norm.Today())
}
