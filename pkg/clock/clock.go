// Package clock owns every conversion between the club's civil
// timezone and the UTC instants used for storage and comparison.
// No other package parses or formats wall-clock strings.
package clock

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/pkg/types"
)

const dateFormat = "2006-01-02"

var (
	// ErrInvalidDate is returned for dates that do not parse as YYYY-MM-DD.
	// Callers treat it as "not available" rather than guessing.
	ErrInvalidDate = errors.New("clock: invalid date, expected YYYY-MM-DD")

	// ErrInvalidTimezone is returned when the configured zone cannot be loaded.
	ErrInvalidTimezone = errors.New("clock: invalid timezone")
)

// Clock supplies the current instant. Injected everywhere so slot
// boundary logic is deterministic under test.
type Clock interface {
	Now() time.Time
}

// System is the production Clock.
type System struct{}

// Now returns the current instant in UTC.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a test Clock pinned to a single instant.
type Fixed struct {
	Instant time.Time
}

// Now returns the pinned instant in UTC.
func (f Fixed) Now() time.Time {
	return f.Instant.UTC()
}

// Normalizer converts between the club's civil timezone and UTC.
type Normalizer struct {
	clock Clock
	loc   *time.Location
}

// NewNormalizer builds a Normalizer for the given IANA zone name.
func NewNormalizer(clk Clock, timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, timezone, err)
	}
	return &Normalizer{clock: clk, loc: loc}, nil
}

// NowUTC returns the current instant in UTC.
func (n *Normalizer) NowUTC() time.Time {
	return n.clock.Now().UTC()
}

// Location returns the club's civil timezone.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Today returns the current civil date in the club timezone as YYYY-MM-DD.
func (n *Normalizer) Today() string {
	return n.clock.Now().In(n.loc).Format(dateFormat)
}

// LocalDayBounds returns the UTC instants where the civil date starts
// and ends in the club timezone. The end bound is exclusive.
func (n *Normalizer) LocalDayBounds(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateFormat, date, n.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return day.UTC(), day.AddDate(0, 0, 1).UTC(), nil
}

// SlotStartUTC converts a civil date plus wall-clock slot start into
// the UTC instant used for storage.
func (n *Normalizer) SlotStartUTC(date string, start types.TimeString) (time.Time, error) {
	day, err := time.ParseInLocation(dateFormat, date, n.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	minutes, err := start.TotalMinutes()
	if err != nil {
		return time.Time{}, err
	}

	return day.Add(time.Duration(minutes) * time.Minute).UTC(), nil
}

// Weekday returns the civil weekday of the given date.
func (n *Normalizer) Weekday(date string) (time.Weekday, error) {
	day, err := time.ParseInLocation(dateFormat, date, n.loc)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return day.Weekday(), nil
}

// IsWeekend reports whether the civil date falls on Saturday or Sunday.
func (n *Normalizer) IsWeekend(date string) (bool, error) {
	wd, err := n.Weekday(date)
	if err != nil {
		return false, err
	}
	return wd == time.Saturday || wd == time.Sunday, nil
}

// IsPastSlot reports whether the slot starting at the given civil date
// and time has already begun. Fails closed: unparseable input counts
// as past, so dependent queries report the slot as not available.
func (n *Normalizer) IsPastSlot(date string, start types.TimeString) bool {
	startUTC, err := n.SlotStartUTC(date, start)
	if err != nil {
		return true
	}
	return !startUTC.After(n.NowUTC())
}

// LocalDate formats a UTC instant as the civil date it falls on in the
// club timezone.
func (n *Normalizer) LocalDate(t time.Time) string {
	return t.In(n.loc).Format(dateFormat)
}

// LocalTime formats a UTC instant as the wall-clock time it falls on
// in the club timezone.
func (n *Normalizer) LocalTime(t time.Time) types.TimeString {
	return types.NewTimeString(t.In(n.loc))
}
