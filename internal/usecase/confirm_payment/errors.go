package confirm_payment

import "errors"

var (
	// ErrInvalidInput is returned for malformed webhook payloads.
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrPaymentNotFound is returned when the gateway does not know the
	// referenced payment, session or order.
	ErrPaymentNotFound = errors.New("confirm_payment: payment not found at gateway")

	// ErrPaymentNotSettled is returned when the gateway-verified state
	// is not a settled payment. Terminal for this notification; a later
	// notification may settle it.
	ErrPaymentNotSettled = errors.New("confirm_payment: payment not settled")

	// ErrBookingNotFound is returned when the payment references a
	// booking that does not exist.
	ErrBookingNotFound = errors.New("confirm_payment: booking not found")

	// ErrNoPendingHold is returned when a user-correlated payment
	// arrives and the user has no pending hold to attach it to.
	ErrNoPendingHold = errors.New("confirm_payment: user has no pending hold")

	// ErrSlotLost is returned when the payment settled but the slot was
	// won by a competing booking. The charge is flagged for a manual
	// refund.
	ErrSlotLost = errors.New("confirm_payment: slot lost, payment flagged for refund")

	// ErrHoldExpired is returned when the payment settled after the
	// hold deadline passed, whether or not the sweep already reclaimed
	// the hold. The charge is flagged for a manual refund.
	ErrHoldExpired = errors.New("confirm_payment: hold expired before payment settled, flagged for refund")

	// ErrGateway is returned when the gateway cannot be reached or
	// answers garbage. Transient; the gateway will retry the webhook.
	ErrGateway = errors.New("confirm_payment: gateway verification failed")

	// ErrInternal is returned on storage failures.
	ErrInternal = errors.New("confirm_payment: internal error")
)
