package walletpay

import "errors"

var (
	// ErrOrderNotFound is returned when Walletpay does not know the order.
	ErrOrderNotFound = errors.New("walletpay: order not found")

	// ErrOrderNotApproved is returned when the payer has not approved
	// the order yet, so there is nothing to capture.
	ErrOrderNotApproved = errors.New("walletpay: order not approved by payer")

	// ErrUnauthorized is returned when the API key is rejected.
	ErrUnauthorized = errors.New("walletpay client: unauthorized")

	// ErrInternal is returned on internal client failures.
	ErrInternal = errors.New("walletpay client: internal error")

	// ErrInvalidResponse is returned when Walletpay answers with an
	// unexpected status or body.
	ErrInvalidResponse = errors.New("walletpay client: invalid response")
)
