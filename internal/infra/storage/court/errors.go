package court

import "errors"

var (
	// ErrCourtNotFound is returned when no court matches.
	ErrCourtNotFound = errors.New("court.repository: court not found")

	// ErrBuildQuery is returned when building SQL fails.
	ErrBuildQuery = errors.New("court.repository: failed to build query")

	// ErrExecQuery is returned when executing SQL fails.
	ErrExecQuery = errors.New("court.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("court.repository: failed to scan row")
)
