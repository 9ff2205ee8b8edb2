package confirm_payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	bookingRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/booking"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/cardpay"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/prefpay"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/walletpay"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/conflicts"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/ptr"
)

type markPaidCall struct {
	id        int64
	gateway   string
	method    string
	paymentID string
	amount    float64
}

type fakeBookingRepo struct {
	byID          map[int64]*domain.Booking
	markPaidErr   error
	markPaidCalls []markPaidCall
	cancelledIDs  []int64
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{byID: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		r.byID[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error) {
	for _, b := range r.byID {
		if b.PaymentID != nil && *b.PaymentID == paymentID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeBookingRepo) GetLatestPendingByUser(ctx context.Context, userID int64) (*domain.Booking, error) {
	var latest *domain.Booking
	for _, b := range r.byID {
		if b.UserID == userID && b.IsPending() {
			if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
				latest = b
			}
		}
	}
	if latest == nil {
		return nil, bookingRepo.ErrNoPendingHold
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeBookingRepo) MarkPaid(ctx context.Context, id int64, gateway, method, paymentID string, amountCharged float64, completedAt time.Time) error {
	r.markPaidCalls = append(r.markPaidCalls, markPaidCall{id, gateway, method, paymentID, amountCharged})
	if r.markPaidErr != nil {
		return r.markPaidErr
	}
	b, ok := r.byID[id]
	if !ok || !b.IsPending() {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusPaid
	b.ExpiresAt = nil
	b.PaymentGateway = &gateway
	b.PaymentMethod = &method
	b.PaymentID = &paymentID
	b.ActualAmountCharged = &amountCharged
	b.PaymentCompletedAt = &completedAt
	return nil
}

func (r *fakeBookingRepo) CancelPending(ctx context.Context, id int64, reason string, at time.Time) error {
	r.cancelledIDs = append(r.cancelledIDs, id)
	b, ok := r.byID[id]
	if !ok || !b.IsPending() {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	b.ExpiresAt = nil
	b.CancellationReason = ptr.Ptr(reason)
	return nil
}

type stubOutbox struct {
	events []*domain.BookingEvent
}

func (s *stubOutbox) Append(ctx context.Context, event *domain.BookingEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubDetector struct {
	result *conflicts.Result
}

func (s *stubDetector) Detect(ctx context.Context, courtID int64, start, end time.Time, excludeBookingID *int64) (*conflicts.Result, error) {
	if s.result == nil {
		return &conflicts.Result{}, nil
	}
	return s.result, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubCardpay struct {
	session *cardpay.CheckoutSession
	err     error
}

func (s *stubCardpay) VerifySession(ctx context.Context, sessionID string) (*cardpay.CheckoutSession, error) {
	return s.session, s.err
}

type stubWalletpay struct {
	capture *walletpay.CaptureResult
	err     error
}

func (s *stubWalletpay) CaptureOrder(ctx context.Context, orderID, payerID string) (*walletpay.CaptureResult, error) {
	return s.capture, s.err
}

type stubPrefpay struct {
	payment *prefpay.Payment
	err     error
}

func (s *stubPrefpay) GetPayment(ctx context.Context, paymentID int64) (*prefpay.Payment, error) {
	return s.payment, s.err
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func pendingHold(id, userID int64) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		CourtID:   1,
		UserID:    userID,
		StartTime: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 11, 11, 0, 0, 0, time.UTC),
		Status:    domain.StatusPendingPayment,
		ExpiresAt: ptr.Ptr(testNow.Add(15 * time.Minute)),
		Amount:    400,
		CreatedAt: testNow.Add(-5 * time.Minute),
	}
}

func paidSession(bookingID string) *cardpay.CheckoutSession {
	return &cardpay.CheckoutSession{
		ID:            "cs_123",
		PaymentIntent: "pi_456",
		PaymentStatus: "paid",
		AmountTotal:   40000,
		Currency:      "mxn",
		Metadata:      map[string]string{"booking_id": bookingID},
	}
}

type fixture struct {
	uc        *UseCase
	bookings  *fakeBookingRepo
	outbox    *stubOutbox
	detector  *stubDetector
	cardpay   *stubCardpay
	walletpay *stubWalletpay
	prefpay   *stubPrefpay
}

func newFixture(t *testing.T, bookings ...*domain.Booking) *fixture {
	t.Helper()
	norm, err := clock.NewNormalizer(clock.Fixed{Instant: testNow}, "UTC")
	require.NoError(t, err)

	f := &fixture{
		bookings:  newFakeBookingRepo(bookings...),
		outbox:    &stubOutbox{},
		detector:  &stubDetector{},
		cardpay:   &stubCardpay{},
		walletpay: &stubWalletpay{},
		prefpay:   &stubPrefpay{},
	}
	f.uc = NewUseCase(
		f.bookings, f.outbox, f.detector, passthroughTxManager{},
		f.cardpay, f.walletpay, f.prefpay, norm, nopLogger{},
	)
	return f
}

func TestExecuteCardpay_ConfirmsPendingHold(t *testing.T) {
	f := newFixture(t, pendingHold(42, 7))
	f.cardpay.session = paidSession("42")

	resp, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.BookingID)
	assert.Equal(t, "paid", resp.Status)
	assert.Equal(t, "pi_456", resp.PaymentID)
	assert.Equal(t, 400.0, resp.AmountCharged)
	assert.False(t, resp.AlreadyProcessed)

	require.Len(t, f.bookings.markPaidCalls, 1)
	call := f.bookings.markPaidCalls[0]
	assert.Equal(t, domain.GatewayCardpay, call.gateway)
	assert.Equal(t, "card", call.method)

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, domain.EventPaid, f.outbox.events[0].EventType)
}

func TestExecuteCardpay_DuplicateWebhookIsNoOp(t *testing.T) {
	f := newFixture(t, pendingHold(42, 7))
	f.cardpay.session = paidSession("42")

	_, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	require.NoError(t, err)

	resp, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	require.NoError(t, err)

	assert.True(t, resp.AlreadyProcessed)
	assert.Equal(t, int64(42), resp.BookingID)
	// The transition ran exactly once.
	assert.Len(t, f.bookings.markPaidCalls, 1)
	assert.Len(t, f.outbox.events, 1)
}

func TestExecuteCardpay_UnsettledSessionIgnored(t *testing.T) {
	f := newFixture(t, pendingHold(42, 7))
	session := paidSession("42")
	session.PaymentStatus = "unpaid"
	f.cardpay.session = session

	_, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	assert.ErrorIs(t, err, ErrPaymentNotSettled)
	assert.Empty(t, f.bookings.markPaidCalls)
}

func TestExecuteCardpay_GatewayUnreachable(t *testing.T) {
	f := newFixture(t, pendingHold(42, 7))
	f.cardpay.err = cardpay.ErrInternal

	_, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	assert.ErrorIs(t, err, ErrGateway)
}

func TestExecuteCardpay_RecordsActualAmountCharged(t *testing.T) {
	f := newFixture(t, pendingHold(42, 7))
	session := paidSession("42")
	session.AmountTotal = 35000 // gateway charged less than the quoted 400
	f.cardpay.session = session

	resp, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	require.NoError(t, err)

	assert.Equal(t, 350.0, resp.AmountCharged)
	require.Len(t, f.bookings.markPaidCalls, 1)
	assert.Equal(t, 350.0, f.bookings.markPaidCalls[0].amount)
}

func TestExecuteCardpay_SlotLostToCompetingPayment(t *testing.T) {
	f := newFixture(t, pendingHold(42, 7))
	f.cardpay.session = paidSession("42")
	f.detector.result = &conflicts.Result{Blocked: true, Reason: domain.ConflictBooked}

	_, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	assert.ErrorIs(t, err, ErrSlotLost)

	// Hold cancelled with the refund flag and a slot_lost event appended.
	assert.Equal(t, []int64{42}, f.bookings.cancelledIDs)
	assert.Equal(t, domain.StatusCancelled, f.bookings.byID[42].Status)
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, domain.EventSlotLost, f.outbox.events[0].EventType)
}

func TestExecuteCardpay_LateArrivalAfterHoldSwept(t *testing.T) {
	hold := pendingHold(42, 7)
	hold.Status = domain.StatusCancelled
	hold.CancellationReason = ptr.Ptr(domain.CancelReasonHoldExpired)
	hold.ExpiresAt = nil

	f := newFixture(t, hold)
	f.cardpay.session = paidSession("42")

	_, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	assert.ErrorIs(t, err, ErrHoldExpired)

	// The row stays terminal, but the charge is flagged for refund.
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, domain.EventSlotLost, f.outbox.events[0].EventType)
	assert.Empty(t, f.bookings.markPaidCalls)
}

func TestExecuteCardpay_ExpiredHoldNotYetSweptIsNotConfirmed(t *testing.T) {
	// The hold is past its deadline but the sweep has not run yet, so
	// the row is still pending_payment. The payment must not resurrect
	// it; the outcome cannot depend on scheduler timing.
	hold := pendingHold(42, 7)
	hold.ExpiresAt = ptr.Ptr(testNow.Add(-time.Minute))

	f := newFixture(t, hold)
	f.cardpay.session = paidSession("42")

	_, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	assert.ErrorIs(t, err, ErrHoldExpired)

	// The hold is cancelled as expired and the charge flagged for a
	// manual refund; it never transitions to paid.
	assert.Empty(t, f.bookings.markPaidCalls)
	assert.Equal(t, []int64{42}, f.bookings.cancelledIDs)
	assert.Equal(t, domain.StatusCancelled, f.bookings.byID[42].Status)
	require.NotNil(t, f.bookings.byID[42].CancellationReason)
	assert.Equal(t, domain.CancelReasonHoldExpired, *f.bookings.byID[42].CancellationReason)
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, domain.EventSlotLost, f.outbox.events[0].EventType)
}

func TestExecuteCardpay_SlotTakenConstraintTriggersCompensation(t *testing.T) {
	f := newFixture(t, pendingHold(42, 7))
	f.cardpay.session = paidSession("42")
	f.bookings.markPaidErr = bookingRepo.ErrSlotTaken

	_, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	assert.ErrorIs(t, err, ErrSlotLost)
	assert.Equal(t, []int64{42}, f.bookings.cancelledIDs)
}

func TestExecuteCardpay_BookingNotFound(t *testing.T) {
	f := newFixture(t)
	f.cardpay.session = paidSession("99")

	_, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{SessionID: "cs_123"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecuteWalletpay_ResolvesLatestPendingHold(t *testing.T) {
	older := pendingHold(41, 7)
	older.CreatedAt = testNow.Add(-time.Hour)
	newer := pendingHold(42, 7)

	f := newFixture(t, older, newer)
	f.walletpay.capture = &walletpay.CaptureResult{
		ID:       "cap_789",
		Status:   "COMPLETED",
		CustomID: "7",
	}
	f.walletpay.capture.Amount.Value = "400.00"
	f.walletpay.capture.Amount.CurrencyCode = "MXN"

	resp, err := f.uc.ExecuteWalletpay(context.Background(), &WalletpayRequest{OrderID: "ord_1", PayerID: "payer_1"})
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.BookingID)
	assert.Equal(t, domain.GatewayWalletpay, resp.Gateway)
	require.Len(t, f.bookings.markPaidCalls, 1)
	assert.Equal(t, "wallet", f.bookings.markPaidCalls[0].method)
}

func TestExecuteWalletpay_NoPendingHold(t *testing.T) {
	f := newFixture(t)
	f.walletpay.capture = &walletpay.CaptureResult{ID: "cap_789", Status: "COMPLETED", CustomID: "7"}
	f.walletpay.capture.Amount.Value = "400.00"

	_, err := f.uc.ExecuteWalletpay(context.Background(), &WalletpayRequest{OrderID: "ord_1", PayerID: "payer_1"})
	assert.ErrorIs(t, err, ErrNoPendingHold)
}

func TestExecutePrefpay_ConfirmsPendingHold(t *testing.T) {
	f := newFixture(t, pendingHold(42, 7))
	f.prefpay.payment = &prefpay.Payment{
		ID:                987654,
		Status:            "approved",
		TransactionAmount: 400,
		ExternalReference: "7",
	}

	resp, err := f.uc.ExecutePrefpay(context.Background(), &PrefpayRequest{PaymentID: 987654})
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.BookingID)
	assert.Equal(t, "987654", resp.PaymentID)
	assert.Equal(t, domain.GatewayPrefpay, resp.Gateway)
}

func TestExecutePrefpay_PendingPaymentIgnored(t *testing.T) {
	f := newFixture(t, pendingHold(42, 7))
	f.prefpay.payment = &prefpay.Payment{
		ID:                987654,
		Status:            "in_process",
		ExternalReference: "7",
	}

	_, err := f.uc.ExecutePrefpay(context.Background(), &PrefpayRequest{PaymentID: 987654})
	assert.ErrorIs(t, err, ErrPaymentNotSettled)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.ExecuteCardpay(context.Background(), &CardpayRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.ExecuteWalletpay(context.Background(), &WalletpayRequest{OrderID: "ord_1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.ExecutePrefpay(context.Background(), &PrefpayRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
