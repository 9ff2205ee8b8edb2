package courtconfig

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/dbmetrics"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/psqlbuilder"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/types"
)

// DBExecutor is the query surface this repository needs.
type DBExecutor = dbmetrics.DBExecutor

// Repository reads per-court-type settings and booking rules.
// Administrators mutate these tables through the admin collaborator;
// the engine only reads.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a courtconfig repository over db.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSettings fetches the grid and pricing settings for a court type.
func (r *Repository) GetSettings(ctx context.Context, courtType string) (*domain.CourtTypeSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"court_type",
		"operating_days",
		"open_time",
		"close_time",
		"peak_start",
		"peak_end",
		"peak_multiplier",
		"weekend_multiplier",
		"base_price_per_hour",
		"slot_duration_minutes",
		"advance_booking_days",
		"created_at",
		"updated_at",
	).
		From("court_type_settings").
		Where(squirrel.Eq{"court_type": courtType}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.CourtTypeSettings
	var operatingDays pq.Int64Array
	var openTime, closeTime string
	var peakStart, peakEnd sql.NullString
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.CourtType,
		&operatingDays,
		&openTime,
		&closeTime,
		&peakStart,
		&peakEnd,
		&s.PeakMultiplier,
		&s.WeekendMultiplier,
		&s.BasePricePerHour,
		&s.SlotDurationMinutes,
		&s.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	s.OperatingDays = make([]int, len(operatingDays))
	for i, d := range operatingDays {
		s.OperatingDays[i] = int(d)
	}
	s.OpenTime = types.TimeString(openTime)
	s.CloseTime = types.TimeString(closeTime)
	if peakStart.Valid {
		ts := types.TimeString(peakStart.String)
		s.PeakStart = &ts
	}
	if peakEnd.Valid {
		ts := types.TimeString(peakEnd.String)
		s.PeakEnd = &ts
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// GetRules fetches the admission and cancellation rules for a court type.
func (r *Repository) GetRules(ctx context.Context, courtType string) (*domain.BookingRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"court_type",
		"max_active_bookings",
		"min_cancellation_minutes",
		"min_reschedule_notice_minutes",
		"allow_cancellation",
		"allow_rescheduling",
		"min_booking_notice_minutes",
		"max_days_ahead",
		"created_at",
		"updated_at",
	).
		From("booking_rules").
		Where(squirrel.Eq{"court_type": courtType}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRules - build select query: %v", ErrBuildQuery, err)
	}

	var rules domain.BookingRules
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rules.CourtType,
		&rules.MaxActiveBookings,
		&rules.MinCancellationMinutes,
		&rules.MinRescheduleNoticeMinutes,
		&rules.AllowCancellation,
		&rules.AllowRescheduling,
		&rules.MinBookingNoticeMinutes,
		&rules.MaxDaysAhead,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRules - scan rules: %v", ErrScanRow, err)
	}

	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return &rules, nil
}
