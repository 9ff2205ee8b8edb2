package get_availability

import "errors"

var (
	// ErrInvalidCourtType is returned when the court type is missing.
	ErrInvalidCourtType = errors.New("court type is required")

	// ErrInvalidDate is returned when the date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

	// ErrInternal is returned on storage or computation failures.
	ErrInternal = errors.New("get_availability: internal error")
)
