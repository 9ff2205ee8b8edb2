package confirm_payment

import (
	"context"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/cardpay"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/prefpay"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/walletpay"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/conflicts"
)

// BookingRepository is the booking storage surface of the use case.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error)
	GetLatestPendingByUser(ctx context.Context, userID int64) (*domain.Booking, error)
	MarkPaid(ctx context.Context, id int64, gateway, method, paymentID string, amountCharged float64, completedAt time.Time) error
	CancelPending(ctx context.Context, id int64, reason string, at time.Time) error
}

// OutboxRepository appends booking events inside the transition
// transaction.
type OutboxRepository interface {
	Append(ctx context.Context, event *domain.BookingEvent) error
}

// ConflictDetector re-checks the slot before the paid transition.
type ConflictDetector interface {
	Detect(ctx context.Context, courtID int64, start, end time.Time, excludeBookingID *int64) (*conflicts.Result, error)
}

// TransactionManager runs the idempotency lookup, conflict re-check and
// transition atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// CardpayClient verifies checkout sessions against Cardpay.
type CardpayClient interface {
	VerifySession(ctx context.Context, sessionID string) (*cardpay.CheckoutSession, error)
}

// WalletpayClient captures approved orders against Walletpay.
type WalletpayClient interface {
	CaptureOrder(ctx context.Context, orderID, payerID string) (*walletpay.CaptureResult, error)
}

// PrefpayClient fetches payments from Prefpay.
type PrefpayClient interface {
	GetPayment(ctx context.Context, paymentID int64) (*prefpay.Payment, error)
}

// Logger defines the logging interface required by the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
