package booking

import (
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/dbmetrics"
)

// Reuse the dbmetrics executor interfaces so the repository works the
// same over *sql.DB, an instrumented DB, or an open transaction.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
