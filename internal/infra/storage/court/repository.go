package court

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/dbmetrics"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/psqlbuilder"
)

// DBExecutor is the query surface this repository needs.
type DBExecutor = dbmetrics.DBExecutor

// Repository reads courts, maintenance periods and special events.
// All three entities are owned by the configuration collaborator; the
// engine never writes them.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a court repository over db.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID fetches one court.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "name", "court_type", "active", "created_at", "updated_at",
	).
		From("courts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Court
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.Name, &c.CourtType, &c.Active, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan court: %v", ErrScanRow, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

// ListActiveByType returns the active courts of a type, ordered by id.
func (r *Repository) ListActiveByType(ctx context.Context, courtType string) ([]*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "name", "court_type", "active", "created_at", "updated_at",
	).
		From("courts").
		Where(squirrel.Eq{"court_type": courtType, "active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByType - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByType - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	courts := make([]*domain.Court, 0)
	for rows.Next() {
		var c domain.Court
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&c.ID, &c.Name, &c.CourtType, &c.Active, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListActiveByType - scan court: %v", ErrScanRow, err)
		}

		c.CreatedAt = createdAt.Time
		c.UpdatedAt = updatedAt.Time
		courts = append(courts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveByType - rows error: %v", ErrScanRow, err)
	}

	return courts, nil
}

// CountByType counts all courts of a type regardless of the active
// flag, so callers can tell "none configured" from "all out of
// service".
func (r *Repository) CountByType(ctx context.Context, courtType string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("courts").
		Where(squirrel.Eq{"court_type": courtType}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByType - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByType - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ListMaintenanceOverlapping returns active maintenance periods on the
// given courts overlapping [start, end).
func (r *Repository) ListMaintenanceOverlapping(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.MaintenancePeriod, error) {
	if len(courtIDs) == 0 {
		return []*domain.MaintenancePeriod{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "court_id", "start_time", "end_time", "active", "reason", "created_at",
	).
		From("maintenance_periods").
		Where(squirrel.Eq{"court_id": courtIDs, "active": true}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListMaintenanceOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListMaintenanceOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	periods := make([]*domain.MaintenancePeriod, 0)
	for rows.Next() {
		var m domain.MaintenancePeriod
		var createdAt sql.NullTime

		if err := rows.Scan(&m.ID, &m.CourtID, &m.StartTime, &m.EndTime, &m.Active, &m.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListMaintenanceOverlapping - scan period: %v", ErrScanRow, err)
		}

		m.CreatedAt = createdAt.Time
		periods = append(periods, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListMaintenanceOverlapping - rows error: %v", ErrScanRow, err)
	}

	return periods, nil
}

// ListSpecialEventsOverlapping returns special events on the given
// courts overlapping [start, end).
func (r *Repository) ListSpecialEventsOverlapping(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.SpecialEvent, error) {
	if len(courtIDs) == 0 {
		return []*domain.SpecialEvent{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "court_id", "start_time", "end_time", "title", "event_type", "created_at",
	).
		From("special_events").
		Where(squirrel.Eq{"court_id": courtIDs}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSpecialEventsOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSpecialEventsOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.SpecialEvent, 0)
	for rows.Next() {
		var e domain.SpecialEvent
		var createdAt sql.NullTime

		if err := rows.Scan(&e.ID, &e.CourtID, &e.StartTime, &e.EndTime, &e.Title, &e.EventType, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListSpecialEventsOverlapping - scan event: %v", ErrScanRow, err)
		}

		e.CreatedAt = createdAt.Time
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSpecialEventsOverlapping - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}
