package prefpay

import "errors"

var (
	// ErrPaymentNotFound is returned when Prefpay does not know the payment.
	ErrPaymentNotFound = errors.New("prefpay: payment not found")

	// ErrUnauthorized is returned when the API key is rejected.
	ErrUnauthorized = errors.New("prefpay client: unauthorized")

	// ErrInternal is returned on internal client failures.
	ErrInternal = errors.New("prefpay client: internal error")

	// ErrInvalidResponse is returned when Prefpay answers with an
	// unexpected status or body.
	ErrInvalidResponse = errors.New("prefpay client: invalid response")
)
