package confirm_payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	bookingRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/booking"
	cardpayClient "github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/cardpay"
	prefpayClient "github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/prefpay"
	walletpayClient "github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/walletpay"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/ptr"
)

// Internal signals separating transaction outcomes from caller-facing
// errors. Never escape Execute.
var (
	errSlotLostSignal    = errors.New("slot lost")
	errHoldExpiredSignal = errors.New("hold expired")
	errDuplicateSignal   = errors.New("duplicate payment id")
)

// UseCase reconciles settled gateway payments into booking
// transitions. Gateway verification happens before the transaction so
// no lock is held during network I/O; the transition itself is
// idempotent on the gateway payment id.
type UseCase struct {
	bookingRepo BookingRepository
	outboxRepo  OutboxRepository
	detector    ConflictDetector
	txManager   TransactionManager
	cardpay     CardpayClient
	walletpay   WalletpayClient
	prefpay     PrefpayClient
	norm        *clock.Normalizer
	logger      Logger
}

// NewUseCase creates the payment confirmation use case.
func NewUseCase(
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	detector ConflictDetector,
	txManager TransactionManager,
	cardpay CardpayClient,
	walletpay WalletpayClient,
	prefpay PrefpayClient,
	norm *clock.Normalizer,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		outboxRepo:  outboxRepo,
		detector:    detector,
		txManager:   txManager,
		cardpay:     cardpay,
		walletpay:   walletpay,
		prefpay:     prefpay,
		norm:        norm,
		logger:      logger,
	}
}

// ExecuteCardpay verifies a Cardpay checkout session and reconciles it.
// The booking id travels in the session metadata.
func (uc *UseCase) ExecuteCardpay(ctx context.Context, req *CardpayRequest) (*Response, error) {
	if req.SessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	uc.logger.Info("ConfirmPayment: cardpay session=%s", req.SessionID)

	session, err := uc.cardpay.VerifySession(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, cardpayClient.ErrSessionNotFound) {
			uc.logger.Warn("ConfirmPayment: cardpay session=%s not found", req.SessionID)
			return nil, ErrPaymentNotFound
		}
		uc.logger.Error("ConfirmPayment: cardpay verification failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if !session.IsPaid() {
		uc.logger.Info("ConfirmPayment: cardpay session=%s not settled, status=%s",
			req.SessionID, session.PaymentStatus)
		return nil, ErrPaymentNotSettled
	}

	bookingID, err := strconv.ParseInt(session.Metadata["booking_id"], 10, 64)
	if err != nil || bookingID <= 0 {
		uc.logger.Warn("ConfirmPayment: cardpay session=%s has no booking_id metadata", req.SessionID)
		return nil, fmt.Errorf("%w: session metadata has no booking_id", ErrInvalidInput)
	}

	paymentID := session.PaymentIntent
	if paymentID == "" {
		paymentID = session.ID
	}

	return uc.confirm(ctx, &outcome{
		gateway:   domain.GatewayCardpay,
		method:    "card",
		paymentID: paymentID,
		amount:    session.AmountMajor(),
		bookingID: bookingID,
	})
}

// ExecuteWalletpay captures an approved Walletpay order and reconciles
// it. The member id travels in the capture's custom id; the payment is
// attached to the member's most recent pending hold.
func (uc *UseCase) ExecuteWalletpay(ctx context.Context, req *WalletpayRequest) (*Response, error) {
	if req.OrderID == "" || req.PayerID == "" {
		return nil, fmt.Errorf("%w: order id and payer id are required", ErrInvalidInput)
	}
	uc.logger.Info("ConfirmPayment: walletpay order=%s", req.OrderID)

	capture, err := uc.walletpay.CaptureOrder(ctx, req.OrderID, req.PayerID)
	if err != nil {
		if errors.Is(err, walletpayClient.ErrOrderNotFound) {
			uc.logger.Warn("ConfirmPayment: walletpay order=%s not found", req.OrderID)
			return nil, ErrPaymentNotFound
		}
		if errors.Is(err, walletpayClient.ErrOrderNotApproved) {
			uc.logger.Info("ConfirmPayment: walletpay order=%s not approved yet", req.OrderID)
			return nil, ErrPaymentNotSettled
		}
		uc.logger.Error("ConfirmPayment: walletpay capture failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if !capture.IsCompleted() {
		uc.logger.Info("ConfirmPayment: walletpay capture=%s not completed, status=%s",
			capture.ID, capture.Status)
		return nil, ErrPaymentNotSettled
	}

	userID, err := strconv.ParseInt(capture.CustomID, 10, 64)
	if err != nil || userID <= 0 {
		uc.logger.Warn("ConfirmPayment: walletpay capture=%s has no member custom_id", capture.ID)
		return nil, fmt.Errorf("%w: capture has no member custom_id", ErrInvalidInput)
	}

	amount, err := capture.AmountValue()
	if err != nil {
		uc.logger.Error("ConfirmPayment: walletpay capture=%s has bad amount %q", capture.ID, capture.Amount.Value)
		return nil, fmt.Errorf("%w: bad capture amount: %v", ErrGateway, err)
	}

	return uc.confirm(ctx, &outcome{
		gateway:   domain.GatewayWalletpay,
		method:    "wallet",
		paymentID: capture.ID,
		amount:    amount,
		userID:    userID,
	})
}

// ExecutePrefpay fetches a Prefpay payment and reconciles it. The
// member id travels in the payment's external reference; the payment
// is attached to the member's most recent pending hold.
func (uc *UseCase) ExecutePrefpay(ctx context.Context, req *PrefpayRequest) (*Response, error) {
	if req.PaymentID <= 0 {
		return nil, fmt.Errorf("%w: payment id is required", ErrInvalidInput)
	}
	uc.logger.Info("ConfirmPayment: prefpay payment=%d", req.PaymentID)

	payment, err := uc.prefpay.GetPayment(ctx, req.PaymentID)
	if err != nil {
		if errors.Is(err, prefpayClient.ErrPaymentNotFound) {
			uc.logger.Warn("ConfirmPayment: prefpay payment=%d not found", req.PaymentID)
			return nil, ErrPaymentNotFound
		}
		uc.logger.Error("ConfirmPayment: prefpay lookup failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if !payment.IsApproved() {
		uc.logger.Info("ConfirmPayment: prefpay payment=%d not approved, status=%s",
			payment.ID, payment.Status)
		return nil, ErrPaymentNotSettled
	}

	userID, err := strconv.ParseInt(payment.ExternalReference, 10, 64)
	if err != nil || userID <= 0 {
		uc.logger.Warn("ConfirmPayment: prefpay payment=%d has no member external_reference", payment.ID)
		return nil, fmt.Errorf("%w: payment has no member external_reference", ErrInvalidInput)
	}

	return uc.confirm(ctx, &outcome{
		gateway:   domain.GatewayPrefpay,
		method:    "transfer",
		paymentID: strconv.FormatInt(payment.ID, 10),
		amount:    payment.TransactionAmount,
		userID:    userID,
	})
}

// confirm runs the gateway-independent transition. A lost race ends in
// a compensating transaction: the hold is cancelled with reason
// slot_lost and the charge is flagged for a manual refund.
func (uc *UseCase) confirm(ctx context.Context, o *outcome) (*Response, error) {
	var resp *Response
	var lostBooking *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Idempotency: has this gateway payment been reconciled?
		existing, err := uc.bookingRepo.GetByPaymentID(txCtx, o.paymentID)
		if err == nil {
			if existing.IsPaid() {
				uc.logger.Info("ConfirmPayment: payment_id=%s already reconciled to booking=%d",
					o.paymentID, existing.ID)
				resp = uc.buildResponse(existing, o, true)
				return nil
			}
			// A cancelled row holding this payment id means a previous
			// reconciliation already flagged the charge for refund.
			return ErrSlotLost
		}
		if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return fmt.Errorf("%w: failed to look up payment id: %v", ErrInternal, err)
		}

		// 2. Resolve the target hold
		booking, err := uc.resolveBooking(txCtx, o)
		if err != nil {
			return err
		}

		if !booking.IsPending() {
			lostBooking = booking
			if booking.ExpiredByHold() {
				// The sweep already reclaimed this hold.
				return errHoldExpiredSignal
			}
			// Slot already paid through a different payment, or the
			// row was cancelled before the payment settled.
			return errSlotLostSignal
		}

		// A hold past its deadline may not have been swept yet. The
		// payment arrived too late either way; whether the sweep ran
		// first must not change the outcome.
		if booking.IsExpiredHold(uc.norm.NowUTC()) {
			uc.logger.Warn("ConfirmPayment: booking=%d hold expired at %s, payment_id=%s arrived late",
				booking.ID, booking.ExpiresAt, o.paymentID)
			lostBooking = booking
			return errHoldExpiredSignal
		}

		// 3. Re-check the slot right before the transition
		conflict, err := uc.detector.Detect(txCtx, booking.CourtID, booking.StartTime, booking.EndTime, ptr.Ptr(booking.ID))
		if err != nil {
			return fmt.Errorf("%w: conflict re-check failed: %v", ErrInternal, err)
		}
		if conflict.Blocked {
			uc.logger.Warn("ConfirmPayment: booking=%d lost slot to %s", booking.ID, conflict.Reason)
			lostBooking = booking
			return errSlotLostSignal
		}

		// 4. Conditional transition
		completedAt := uc.norm.NowUTC()
		err = uc.bookingRepo.MarkPaid(txCtx, booking.ID, o.gateway, o.method, o.paymentID, o.amount, completedAt)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrSlotTaken):
				lostBooking = booking
				return errSlotLostSignal
			case errors.Is(err, bookingRepo.ErrDuplicatePaymentID):
				return errDuplicateSignal
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				// A concurrent transition consumed the hold.
				lostBooking = booking
				return errSlotLostSignal
			default:
				return fmt.Errorf("%w: failed to mark booking paid: %v", ErrInternal, err)
			}
		}

		// 5. Outbox event in the same transaction
		event, err := domain.NewBookingEvent(booking.ID, domain.EventPaid, paidPayload{
			BookingID:     booking.ID,
			Gateway:       o.gateway,
			PaymentID:     o.paymentID,
			AmountCharged: o.amount,
			CompletedAt:   completedAt,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to build event: %v", ErrInternal, err)
		}
		if err := uc.outboxRepo.Append(txCtx, event); err != nil {
			return fmt.Errorf("%w: failed to append outbox event: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusPaid
		resp = uc.buildResponse(booking, o, false)
		return nil
	})

	switch {
	case err == nil:
		if resp.AlreadyProcessed {
			return resp, nil
		}
		uc.logger.Info("ConfirmPayment: booking=%d paid via %s, payment_id=%s, amount=%.2f",
			resp.BookingID, o.gateway, o.paymentID, o.amount)
		return resp, nil

	case errors.Is(err, errSlotLostSignal):
		return nil, uc.compensateLostCharge(ctx, lostBooking, o, domain.CancelReasonSlotLost, ErrSlotLost)

	case errors.Is(err, errHoldExpiredSignal):
		return nil, uc.compensateLostCharge(ctx, lostBooking, o, domain.CancelReasonHoldExpired, ErrHoldExpired)

	case errors.Is(err, errDuplicateSignal):
		return uc.resolveDuplicate(ctx, o)

	default:
		return nil, err
	}
}

// resolveBooking finds the hold a settled payment pays for.
func (uc *UseCase) resolveBooking(ctx context.Context, o *outcome) (*domain.Booking, error) {
	if o.bookingID > 0 {
		booking, err := uc.bookingRepo.GetByID(ctx, o.bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ConfirmPayment: booking=%d referenced by payment_id=%s not found",
					o.bookingID, o.paymentID)
				return nil, ErrBookingNotFound
			}
			return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		return booking, nil
	}

	booking, err := uc.bookingRepo.GetLatestPendingByUser(ctx, o.userID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNoPendingHold) {
			uc.logger.Warn("ConfirmPayment: user=%d has no pending hold for payment_id=%s",
				o.userID, o.paymentID)
			return nil, ErrNoPendingHold
		}
		return nil, fmt.Errorf("%w: failed to get pending hold: %v", ErrInternal, err)
	}
	return booking, nil
}

// compensateLostCharge records a settled charge that cannot buy its
// slot, in a fresh transaction. The original transaction may have
// aborted on a constraint violation, so the compensation cannot share
// it. Returns result so the caller reports the right outcome.
func (uc *UseCase) compensateLostCharge(ctx context.Context, booking *domain.Booking, o *outcome, reason string, result error) error {
	if booking == nil {
		return result
	}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.CancelPending(txCtx, booking.ID, reason, uc.norm.NowUTC()); err != nil {
			// Already terminal: nothing to flip, but the charge still
			// needs the refund flag.
			if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: failed to cancel hold: %v", ErrInternal, err)
			}
		}

		event, err := domain.NewBookingEvent(booking.ID, domain.EventSlotLost, slotLostPayload{
			BookingID:     booking.ID,
			Gateway:       o.gateway,
			PaymentID:     o.paymentID,
			AmountCharged: o.amount,
			Reason:        reason,
			ManualRefund:  true,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to build event: %v", ErrInternal, err)
		}
		return uc.outboxRepo.Append(txCtx, event)
	})
	if err != nil {
		uc.logger.Error("ConfirmPayment: refund compensation failed for booking=%d: %v", booking.ID, err)
		return err
	}

	uc.logger.Warn("ConfirmPayment: booking=%d cancelled (%s), payment_id=%s flagged for manual refund",
		booking.ID, reason, o.paymentID)
	return result
}

// resolveDuplicate handles a payment-id unique violation: a concurrent
// reconciliation of the same payment won. Re-read to report its result.
func (uc *UseCase) resolveDuplicate(ctx context.Context, o *outcome) (*Response, error) {
	existing, err := uc.bookingRepo.GetByPaymentID(ctx, o.paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to re-read duplicate payment: %v", ErrInternal, err)
	}
	if !existing.IsPaid() {
		return nil, ErrSlotLost
	}

	uc.logger.Info("ConfirmPayment: payment_id=%s reconciled concurrently to booking=%d",
		o.paymentID, existing.ID)
	return uc.buildResponse(existing, o, true), nil
}

func (uc *UseCase) buildResponse(booking *domain.Booking, o *outcome, already bool) *Response {
	amount := o.amount
	if booking.ActualAmountCharged != nil {
		amount = *booking.ActualAmountCharged
	}
	return &Response{
		BookingID:        booking.ID,
		Status:           string(domain.StatusPaid),
		Gateway:          o.gateway,
		PaymentID:        o.paymentID,
		AmountCharged:    amount,
		AlreadyProcessed: already,
	}
}
