package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	slotStart = time.Date(2026, 3, 12, 16, 0, 0, 0, time.UTC)
	slotEnd   = time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC)
)

func TestBooking_IsExpiredHold(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name    string
		booking Booking
		want    bool
	}{
		{"overdue hold", Booking{Status: StatusPendingPayment, ExpiresAt: &past}, true},
		{"live hold", Booking{Status: StatusPendingPayment, ExpiresAt: &future}, false},
		{"paid booking never expires", Booking{Status: StatusPaid}, false},
		{"cancelled row never expires", Booking{Status: StatusCancelled}, false},
		{"pending without deadline", Booking{Status: StatusPendingPayment}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.booking.IsExpiredHold(now))
		})
	}
}

func TestBooking_IsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPendingPayment}).IsActive())
	assert.True(t, (&Booking{Status: StatusPaid}).IsActive())
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
}

func TestBooking_CanBeCancelled(t *testing.T) {
	// Only paid bookings go through the explicit cancel path; holds
	// are abandoned and swept.
	assert.True(t, (&Booking{Status: StatusPaid}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusPendingPayment}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeCancelled())
}

func TestBooking_Overlaps(t *testing.T) {
	b := &Booking{StartTime: slotStart, EndTime: slotEnd}

	assert.True(t, b.Overlaps(slotStart, slotEnd))
	assert.True(t, b.Overlaps(slotStart.Add(-30*time.Minute), slotStart.Add(30*time.Minute)))
	assert.True(t, b.Overlaps(slotEnd.Add(-time.Minute), slotEnd.Add(time.Hour)))

	// Half-open intervals: touching boundaries do not overlap.
	assert.False(t, b.Overlaps(slotEnd, slotEnd.Add(time.Hour)))
	assert.False(t, b.Overlaps(slotStart.Add(-time.Hour), slotStart))
}

func TestBooking_ExpiredByHold(t *testing.T) {
	reason := CancelReasonHoldExpired
	other := "changed my mind"

	assert.True(t, (&Booking{Status: StatusCancelled, CancellationReason: &reason}).ExpiredByHold())
	assert.False(t, (&Booking{Status: StatusCancelled, CancellationReason: &other}).ExpiredByHold())
	assert.False(t, (&Booking{Status: StatusCancelled}).ExpiredByHold())
	assert.False(t, (&Booking{Status: StatusPendingPayment, CancellationReason: &reason}).ExpiredByHold())
}

func TestRole_Permissions(t *testing.T) {
	assert.False(t, RoleMember.IsStaff())
	assert.False(t, RoleMember.CanOverrideWindows())

	assert.True(t, RoleOperator.IsStaff())
	assert.True(t, RoleOperator.CanOverrideWindows())

	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleAdmin.CanOverrideWindows())
}
