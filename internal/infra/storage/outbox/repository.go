package outbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/dbmetrics"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/psqlbuilder"
)

// DBExecutor is the query surface this repository needs.
type DBExecutor = dbmetrics.DBExecutor

// Repository persists the booking-event outbox. Events are appended in
// the same transaction as the state transition they describe; the
// relay drains them at-least-once.
type Repository struct {
	db DBExecutor
}

// NewRepository creates an outbox repository over db.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append inserts one unpublished event.
func (r *Repository) Append(ctx context.Context, event *domain.BookingEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_events").
		Columns("id", "booking_id", "event_type", "payload").
		Values(event.ID, event.BookingID, event.EventType, []byte(event.Payload)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListUnpublished returns the oldest unpublished events, bounded by
// limit. Inside a transaction the rows are locked with FOR UPDATE
// SKIP LOCKED so concurrent relay runs drain disjoint batches.
func (r *Repository) ListUnpublished(ctx context.Context, limit uint64) ([]*domain.BookingEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"id", "booking_id", "event_type", "payload", "published", "created_at",
	).
		From("booking_events").
		Where(squirrel.Eq{"published": false}).
		OrderBy("created_at ASC").
		Limit(limit)

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnpublished - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnpublished - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.BookingEvent, 0)
	for rows.Next() {
		var e domain.BookingEvent
		var payload []byte
		var createdAt sql.NullTime

		if err := rows.Scan(&e.ID, &e.BookingID, &e.EventType, &payload, &e.Published, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListUnpublished - scan event: %v", ErrScanRow, err)
		}

		e.Payload = payload
		e.CreatedAt = createdAt.Time
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUnpublished - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}

// MarkPublished flags events as handed to the notification fan-out.
func (r *Repository) MarkPublished(ctx context.Context, ids []interface{}) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_events").
		Set("published", true).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPublished - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkPublished - execute update: %v", ErrExecQuery, err)
	}

	return nil
}
