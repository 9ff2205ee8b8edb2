package domain

// Default configuration values, used when a court type has no
// settings or rules rows yet.
const (
	DefaultSlotDurationMinutes     = 60
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMaxActiveBookings       = 1
	DefaultMinCancellationMinutes  = 24 * 60
	DefaultMinRescheduleMinutes    = 24 * 60
	DefaultMinBookingNoticeMinutes = 0
	DefaultMaxDaysAhead            = 0 // 0 = unlimited
	DefaultWeekendMultiplier       = 1.0
	DefaultPeakMultiplier          = 1.0
	DefaultBasePricePerHour        = 0.0
	DefaultOpenTime                = "08:00"
	DefaultCloseTime               = "22:00"
)

// Business validation bounds
const (
	MinSlotDurationMinutes = 30
	MaxSlotDurationMinutes = 240
	MaxCancelReasonLength  = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Role is the caller's role as reported by the identity collaborator.
type Role string

const (
	RoleMember   Role = "member"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// CanOverrideWindows reports whether the role may cancel or reschedule
// inside the member lead-time windows.
func (r Role) CanOverrideWindows() bool {
	return r == RoleOperator || r == RoleAdmin
}

// IsStaff reports whether the role may read other members' bookings.
func (r Role) IsStaff() bool {
	return r == RoleOperator || r == RoleAdmin
}

// Supported payment gateways
const (
	GatewayCardpay   = "cardpay"
	GatewayWalletpay = "walletpay"
	GatewayPrefpay   = "prefpay"
)
