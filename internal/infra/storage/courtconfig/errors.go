package courtconfig

import "errors"

var (
	// ErrSettingsNotFound is returned when a court type has no settings row.
	ErrSettingsNotFound = errors.New("courtconfig.repository: settings not found")

	// ErrRulesNotFound is returned when a court type has no rules row.
	ErrRulesNotFound = errors.New("courtconfig.repository: booking rules not found")

	// ErrBuildQuery is returned when building SQL fails.
	ErrBuildQuery = errors.New("courtconfig.repository: failed to build query")

	// ErrExecQuery is returned when executing SQL fails.
	ErrExecQuery = errors.New("courtconfig.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("courtconfig.repository: failed to scan row")
)
