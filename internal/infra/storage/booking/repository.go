package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/dbmetrics"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/psqlbuilder"
)

// Postgres constraint names the repository maps to typed errors.
const (
	constraintPaidSlot  = "uq_bookings_paid_slot"
	constraintPaymentID = "uq_bookings_payment_id"
)

var bookingColumns = []string{
	"id",
	"court_id",
	"user_id",
	"start_time",
	"end_time",
	"status",
	"expires_at",
	"payment_method",
	"payment_gateway",
	"payment_id",
	"amount",
	"actual_amount_charged",
	"payment_completed_at",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository persists bookings. Every state transition is a
// conditional UPDATE guarded by the current status, so concurrent
// confirmations, cancellations and sweeps race safely: whoever matches
// the row first wins, the loser sees zero rows affected.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a booking repository over db.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a new pending_payment hold.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"court_id",
			"user_id",
			"start_time",
			"end_time",
			"status",
			"expires_at",
			"payment_method",
			"amount",
		).
		Values(
			b.CourtID,
			b.UserID,
			b.StartTime,
			b.EndTime,
			b.Status,
			b.ExpiresAt,
			b.PaymentMethod,
			b.Amount,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, mapConstraint(err))
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID fetches one booking. Inside a transaction the row is locked
// with FOR UPDATE so racing transitions serialize on it.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...))
}

// GetByPaymentID fetches the booking that recorded a gateway payment
// id. Used for idempotent reconciliation of duplicate callbacks.
func (r *Repository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"payment_id": paymentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPaymentID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...))
}

// GetLatestPendingByUser returns the user's most recent
// pending_payment hold. Two of the three gateways cannot round-trip a
// booking id, so reconciliation resolves the booking this way; the
// per-user active-booking cap keeps the lookup unambiguous. The hold
// may already be past its deadline; the caller decides what an
// expired hold means. Inside a transaction the row is locked with
// FOR UPDATE.
func (r *Repository) GetLatestPendingByUser(ctx context.Context, userID int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID, "status": domain.StatusPendingPayment}).
		OrderBy("created_at DESC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestPendingByUser - build select query: %v", ErrBuildQuery, err)
	}

	b, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, ErrBookingNotFound) {
		return nil, ErrNoPendingHold
	}
	return b, err
}

// GetByUserID lists a user's bookings, newest first, optionally
// filtered by status.
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_time DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByCourtWithFilter lists one court's bookings for reporting.
// Cancelled rows are excluded unless the filter asks for them.
func (r *Repository) GetByCourtWithFilter(ctx context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"court_id": filter.CourtID})

	if filter.StartUTC != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_time": *filter.StartUTC})
	}
	if filter.EndUTC != nil {
		builder = builder.Where(squirrel.Lt{"start_time": *filter.EndUTC})
	}

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		builder = builder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	builder = builder.OrderBy("start_time ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourtWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourtWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListPaidForCourtsBetween returns paid bookings on the given courts
// overlapping [start, end). Pending holds are deliberately excluded:
// they never reduce displayed availability.
func (r *Repository) ListPaidForCourtsBetween(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.Booking, error) {
	if len(courtIDs) == 0 {
		return []*domain.Booking{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"court_id": courtIDs, "status": domain.StatusPaid}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPaidForCourtsBetween - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPaidForCourtsBetween - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountPaidOverlapping counts paid bookings on a court overlapping
// [start, end), optionally excluding one booking id (reschedules must
// not conflict with themselves). Inside a transaction the matched rows
// are locked with FOR UPDATE to close the check-then-act window.
func (r *Repository) CountPaidOverlapping(ctx context.Context, courtID int64, start, end time.Time, excludeID *int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.Eq{"court_id": courtID, "status": domain.StatusPaid}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})

	if excludeID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountPaidOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CountPaidOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: CountPaidOverlapping - rows error: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountActiveByUser counts a user's holds and upcoming paid bookings
// for the max-active-bookings admission rule.
func (r *Repository) CountActiveByUser(ctx context.Context, userID int64, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Or{
			squirrel.Eq{"status": domain.StatusPendingPayment},
			squirrel.And{
				squirrel.Eq{"status": domain.StatusPaid},
				squirrel.Gt{"end_time": now},
			},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByUser - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByUser - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// MarkPaid transitions a hold to paid. Conditional on the row still
// being pending_payment; zero rows affected means a concurrent
// transition won and the caller must re-read to learn the outcome.
// The paid-slot unique index and payment_id constraint are mapped to
// ErrSlotTaken / ErrDuplicatePaymentID.
func (r *Repository) MarkPaid(ctx context.Context, id int64, gateway, method, paymentID string, amountCharged float64, completedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusPaid).
		Set("expires_at", nil).
		Set("payment_gateway", gateway).
		Set("payment_method", method).
		Set("payment_id", paymentID).
		Set("actual_amount_charged", amountCharged).
		Set("payment_completed_at", completedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPendingPayment}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapConstraint(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("%w: MarkPaid - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Expire reclaims a hold whose deadline passed. Conditional on the row
// still being pending_payment with expires_at before the cutoff, so a
// racing payment confirmation always wins over the sweep.
func (r *Repository) Expire(ctx context.Context, id int64, cutoff time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("expires_at", nil).
		Set("cancellation_reason", domain.CancelReasonHoldExpired).
		Set("cancelled_by", domain.CancelledBySystem).
		Set("cancelled_at", cutoff).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPendingPayment}).
		Where(squirrel.Lt{"expires_at": cutoff}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Expire - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Expire - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Expire - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// CancelPending cancels a pending hold on behalf of the system,
// recording why. Used when a settled payment cannot buy its slot: the
// slot was won by a competing booking or the hold deadline passed
// before the payment arrived. Conditional on the row still being
// pending_payment.
func (r *Repository) CancelPending(ctx context.Context, id int64, reason string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("expires_at", nil).
		Set("cancellation_reason", reason).
		Set("cancelled_by", domain.CancelledBySystem).
		Set("cancelled_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPendingPayment}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CancelPending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CancelPending - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CancelPending - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// CancelPaid cancels a paid booking, recording who and why.
// Conditional on the row still being paid.
func (r *Repository) CancelPaid(ctx context.Context, id int64, reason, cancelledBy string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", cancelledBy).
		Set("cancelled_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPaid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CancelPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CancelPaid - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CancelPaid - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Move reschedules a paid booking to a new interval. Conditional on
// the row still being paid; the paid-slot index rejects a move onto an
// occupied slot with ErrSlotTaken.
func (r *Repository) Move(ctx context.Context, id int64, newStart, newEnd time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("start_time", newStart).
		Set("end_time", newEnd).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPaid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Move - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapConstraint(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("%w: Move - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Move - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ListExpired returns pending holds whose deadline passed, oldest
// first, bounded by limit. The sweep transitions them one by one with
// Expire so overlapping runs stay safe.
func (r *Repository) ListExpired(ctx context.Context, cutoff time.Time, limit uint64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusPendingPayment}).
		Where(squirrel.Lt{"expires_at": cutoff}).
		OrderBy("expires_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpired - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpired - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// mapConstraint converts known unique violations into typed errors.
func mapConstraint(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return err
	}
	switch pqErr.Constraint {
	case constraintPaidSlot:
		return ErrSlotTaken
	case constraintPaymentID:
		return ErrDuplicatePaymentID
	default:
		return err
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.CourtID,
		&b.UserID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.ExpiresAt,
		&b.PaymentMethod,
		&b.PaymentGateway,
		&b.PaymentID,
		&b.Amount,
		&b.ActualAmountCharged,
		&b.PaymentCompletedAt,
		&b.CancellationReason,
		&b.CancelledBy,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan booking: %v", ErrScanRow, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
