package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeString is returned when a value does not match HH:MM
	ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")

	// ErrTimeOutOfRange is returned when arithmetic leaves the civil day
	ErrTimeOutOfRange = errors.New("time value is out of range")
)

// TimeString is a wall-clock time of day in HH:MM form ("08:00", "21:30").
// It carries no date and no timezone; conversion to absolute instants is
// the clock normalizer's job.
type TimeString string

// NewTimeString builds a TimeString from the wall-clock part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString parses and validates an HH:MM value.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate checks the HH:MM shape and range (00:00 - 23:59).
func (t TimeString) Validate() error {
	m, err := t.TotalMinutes()
	if err != nil {
		return err
	}
	if m < 0 || m >= 24*60 {
		return fmt.Errorf("%w: %q", ErrTimeOutOfRange, string(t))
	}
	return nil
}

// TotalMinutes returns the value as minutes since midnight.
func (t TimeString) TotalMinutes() (int, error) {
	parts := strings.Split(string(t), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	return hours*60 + minutes, nil
}

// AddMinutes returns the time shifted forward by m minutes.
// Returns ErrTimeOutOfRange if the result crosses midnight.
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	total, err := t.TotalMinutes()
	if err != nil {
		return "", err
	}

	total += m
	if total < 0 || total > 24*60 {
		return "", fmt.Errorf("%w: %q + %d minutes", ErrTimeOutOfRange, string(t), m)
	}

	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore reports whether t is strictly earlier than other.
// Malformed values compare as not-before, which keeps dependent
// availability checks failing closed.
func (t TimeString) IsBefore(other TimeString) bool {
	a, err := t.TotalMinutes()
	if err != nil {
		return false
	}
	b, err := other.TotalMinutes()
	if err != nil {
		return false
	}
	return a < b
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	a, err := t.TotalMinutes()
	if err != nil {
		return false
	}
	b, err := other.TotalMinutes()
	if err != nil {
		return false
	}
	return a > b
}

// IsZero reports whether the value is unset.
func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}
