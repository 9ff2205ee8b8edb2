package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	settingsRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/courtconfig"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
)

// UseCase computes the availability grid for one court type and date.
type UseCase struct {
	bookingRepo  BookingRepository
	courtRepo    CourtRepository
	settingsRepo SettingsRepository
	norm         *clock.Normalizer
	logger       Logger
}

// NewUseCase creates the availability use case.
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	settingsRepo SettingsRepository,
	norm *clock.Normalizer,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		settingsRepo: settingsRepo,
		norm:         norm,
		logger:       logger,
	}
}

// Execute computes the day grid.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: court_type=%s, date=%s", req.CourtType, req.Date)

	// 1. Validate input
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Load settings, falling back to defaults when none configured
	settings, err := uc.settingsRepo.GetSettings(ctx, req.CourtType)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailability: failed to get settings for %s: %v", req.CourtType, err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultCourtTypeSettings(req.CourtType)
		uc.logger.Info("GetAvailability: using default settings for court_type=%s", req.CourtType)
	}

	resp := &Response{
		Date:      req.Date,
		CourtType: req.CourtType,
		Timezone:  uc.norm.Location().String(),
		Slots:     []Slot{},
	}

	// 3. Distinguish "nothing configured" from "all out of service"
	totalCourts, err := uc.courtRepo.CountByType(ctx, req.CourtType)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to count courts: %v", err)
		return nil, fmt.Errorf("%w: failed to count courts: %v", ErrInternal, err)
	}
	if totalCourts == 0 {
		uc.logger.Info("GetAvailability: no courts configured for type=%s", req.CourtType)
		resp.Reason = string(domain.ReasonNoCourtsConfigured)
		return resp, nil
	}

	// 4. Operating-day check
	weekday, err := uc.norm.Weekday(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !settings.IsOperatingDay(weekday) {
		uc.logger.Info("GetAvailability: court_type=%s does not operate on %s", req.CourtType, weekday)
		resp.Reason = string(domain.ReasonNotOperating)
		return resp, nil
	}

	// 5. Load the active courts
	courts, err := uc.courtRepo.ListActiveByType(ctx, req.CourtType)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list courts: %v", err)
		return nil, fmt.Errorf("%w: failed to list courts: %v", ErrInternal, err)
	}
	if len(courts) == 0 {
		uc.logger.Info("GetAvailability: all courts of type=%s are out of service", req.CourtType)
		resp.Reason = string(domain.ReasonAllCourtsUnavailable)
		return resp, nil
	}

	courtIDs := make([]int64, 0, len(courts))
	for _, c := range courts {
		courtIDs = append(courtIDs, c.ID)
	}

	// 6. Load the day's blockers in bulk
	dayStart, dayEnd, err := uc.norm.LocalDayBounds(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	bookings, err := uc.bookingRepo.ListPaidForCourtsBetween(ctx, courtIDs, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	maintenance, err := uc.courtRepo.ListMaintenanceOverlapping(ctx, courtIDs, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list maintenance: %v", err)
		return nil, fmt.Errorf("%w: failed to list maintenance: %v", ErrInternal, err)
	}

	events, err := uc.courtRepo.ListSpecialEventsOverlapping(ctx, courtIDs, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list special events: %v", err)
		return nil, fmt.Errorf("%w: failed to list special events: %v", ErrInternal, err)
	}

	// 7. Build the grid and compute per-slot capacity
	weekend, err := uc.norm.IsWeekend(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	grid, err := generateGrid(uc.norm, settings, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to generate grid: %v", err)
		return nil, fmt.Errorf("%w: failed to generate grid: %v", ErrInternal, err)
	}

	computed := computeSlots(
		uc.norm, settings, req.Date, weekend,
		grid, courts, totalCourts,
		bookings, maintenance, events,
	)

	for _, s := range computed {
		resp.Slots = append(resp.Slots, Slot{
			StartTime:       s.StartTime.String(),
			EndTime:         s.EndTime.String(),
			Available:       s.IsBookable(),
			AvailableCourts: s.AvailableCourts,
			TotalCourts:     s.TotalCourts,
			IsPast:          s.IsPast,
			Price:           s.Price,
			SpecialEvents:   s.SpecialEvents,
		})
	}

	uc.logger.Info("GetAvailability: generated %d slots for court_type=%s, date=%s",
		len(resp.Slots), req.CourtType, req.Date)

	return resp, nil
}
