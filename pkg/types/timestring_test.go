package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid morning", "08:00", false},
		{"valid evening", "21:30", false},
		{"midnight", "00:00", false},
		{"last minute", "23:59", false},
		{"missing leading zero", "8:00", true},
		{"no colon", "0800", true},
		{"minutes out of range", "10:60", true},
		{"hours out of range", "24:00", true},
		{"empty", "", true},
		{"garbage", "ab:cd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_TotalMinutes(t *testing.T) {
	m, err := TimeString("10:30").TotalMinutes()
	require.NoError(t, err)
	assert.Equal(t, 630, m)

	m, err = TimeString("00:00").TotalMinutes()
	require.NoError(t, err)
	assert.Equal(t, 0, m)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("10:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:30"), ts)

	// Reaching the exclusive end of day is allowed.
	ts, err = TimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), ts)

	// Crossing it is not.
	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("08:00").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.True(t, TimeString("21:00").IsAfter("08:30"))

	// Malformed values fail closed.
	assert.False(t, TimeString("garbage").IsBefore("09:00"))
	assert.False(t, TimeString("08:00").IsAfter("garbage"))
}

func TestNewTimeString(t *testing.T) {
	instant := time.Date(2026, 7, 15, 14, 5, 33, 0, time.UTC)
	assert.Equal(t, TimeString("14:05"), NewTimeString(instant))
}
