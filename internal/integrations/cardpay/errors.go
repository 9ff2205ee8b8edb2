package cardpay

import "errors"

var (
	// ErrSessionNotFound is returned when Cardpay does not know the
	// checkout session.
	ErrSessionNotFound = errors.New("cardpay: checkout session not found")

	// ErrUnauthorized is returned when the API key is rejected.
	ErrUnauthorized = errors.New("cardpay client: unauthorized")

	// ErrInternal is returned on internal client failures.
	ErrInternal = errors.New("cardpay client: internal error")

	// ErrInvalidResponse is returned when Cardpay answers with an
	// unexpected status or body.
	ErrInvalidResponse = errors.New("cardpay client: invalid response")
)
