package outbox

import "errors"

var (
	// ErrBuildQuery is returned when building SQL fails.
	ErrBuildQuery = errors.New("outbox.repository: failed to build query")

	// ErrExecQuery is returned when executing SQL fails.
	ErrExecQuery = errors.New("outbox.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("outbox.repository: failed to scan row")
)
