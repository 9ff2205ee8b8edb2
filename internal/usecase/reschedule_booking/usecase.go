package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	bookingRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/booking"
	configRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/courtconfig"
	courtRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/court"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/ptr"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/types"
)

// UseCase moves a paid booking to a new slot on the same court. The
// price is not recomputed; the member paid for the original slot.
type UseCase struct {
	bookingRepo BookingRepository
	courtRepo   CourtRepository
	configRepo  ConfigRepository
	outboxRepo  OutboxRepository
	detector    ConflictDetector
	txManager   TransactionManager
	norm        *clock.Normalizer
	logger      Logger
}

// NewUseCase creates the reschedule use case.
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	configRepo ConfigRepository,
	outboxRepo OutboxRepository,
	detector ConflictDetector,
	txManager TransactionManager,
	norm *clock.Normalizer,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		courtRepo:   courtRepo,
		configRepo:  configRepo,
		outboxRepo:  outboxRepo,
		detector:    detector,
		txManager:   txManager,
		norm:        norm,
		logger:      logger,
	}
}

// Execute validates the move and performs it atomically.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, user=%d, date=%s, time=%s",
		req.BookingID, req.UserID, req.Date, req.StartTime)

	// 1. Validate input
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.norm.NowUTC()
	start := types.TimeString(req.StartTime)

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Load and authorize the booking
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		if booking.UserID != req.UserID && !req.Role.IsStaff() {
			uc.logger.Warn("RescheduleBooking: user=%d denied access to booking=%d", req.UserID, booking.ID)
			return ErrAccessDenied
		}
		if !booking.IsPaid() {
			return ErrNotReschedulable
		}

		// 3. Load court and configuration
		court, err := uc.courtRepo.GetByID(txCtx, booking.CourtID)
		if err != nil {
			if errors.Is(err, courtRepo.ErrCourtNotFound) {
				return fmt.Errorf("%w: court %d vanished", ErrInternal, booking.CourtID)
			}
			return fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
		}

		settings, rules, err := uc.loadConfig(txCtx, court.CourtType)
		if err != nil {
			return err
		}

		// 4. Rule and lead-time checks against the original slot
		if !rules.AllowRescheduling {
			return ErrReschedulingDisabled
		}
		if !req.Role.CanOverrideWindows() {
			deadline := booking.StartTime.Add(-time.Duration(rules.MinRescheduleNoticeMinutes) * time.Minute)
			if now.After(deadline) {
				uc.logger.Warn("RescheduleBooking: booking=%d inside the %dmin notice window",
					booking.ID, rules.MinRescheduleNoticeMinutes)
				return ErrTooLateToReschedule
			}
		}

		// 5. Admission checks for the target slot
		if err := validateSlotAlignment(settings, start); err != nil {
			return err
		}

		weekday, err := uc.norm.Weekday(req.Date)
		if err != nil {
			return fmt.Errorf("%w: invalid date", ErrInvalidInput)
		}
		if !settings.IsOperatingDay(weekday) {
			return ErrNotOperatingDay
		}

		newStart, err := uc.norm.SlotStartUTC(req.Date, start)
		if err != nil {
			return fmt.Errorf("%w: invalid date", ErrInvalidInput)
		}
		newEnd := newStart.Add(time.Duration(settings.SlotDurationMinutes) * time.Minute)

		if !newStart.After(now) {
			return ErrTargetInPast
		}
		if err := validateAdvanceWindow(newStart, now, settings, rules); err != nil {
			return err
		}

		// 6. Target slot blockers, ignoring the booking being moved
		conflict, err := uc.detector.Detect(txCtx, booking.CourtID, newStart, newEnd, ptr.Ptr(booking.ID))
		if err != nil {
			return fmt.Errorf("%w: conflict detection failed: %v", ErrInternal, err)
		}
		if conflict.Blocked {
			uc.logger.Warn("RescheduleBooking: target slot blocked for booking=%d: %s",
				booking.ID, conflict.Reason)
			return ErrSlotNotAvailable
		}

		// 7. Conditional move
		oldStart := booking.StartTime
		if err := uc.bookingRepo.Move(txCtx, booking.ID, newStart, newEnd); err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrSlotTaken):
				return ErrSlotNotAvailable
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				// A concurrent cancel won.
				return ErrNotReschedulable
			default:
				return fmt.Errorf("%w: failed to move booking: %v", ErrInternal, err)
			}
		}

		// 8. Outbox event in the same transaction
		event, err := domain.NewBookingEvent(booking.ID, domain.EventRescheduled, rescheduledPayload{
			BookingID: booking.ID,
			CourtID:   booking.CourtID,
			UserID:    booking.UserID,
			OldStart:  oldStart,
			NewStart:  newStart,
			NewEnd:    newEnd,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to build event: %v", ErrInternal, err)
		}
		if err := uc.outboxRepo.Append(txCtx, event); err != nil {
			return fmt.Errorf("%w: failed to append outbox event: %v", ErrInternal, err)
		}

		booking.StartTime = newStart
		booking.EndTime = newEnd
		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking=%d moved to %s %s", result.ID, req.Date, req.StartTime)

	return &Response{
		ID:        result.ID,
		CourtID:   result.CourtID,
		UserID:    result.UserID,
		Date:      uc.norm.LocalDate(result.StartTime),
		StartTime: uc.norm.LocalTime(result.StartTime).String(),
		EndTime:   uc.norm.LocalTime(result.EndTime).String(),
		StartUTC:  result.StartTime,
		EndUTC:    result.EndTime,
		Status:    string(result.Status),
		Amount:    result.Amount,
	}, nil
}

func (uc *UseCase) loadConfig(ctx context.Context, courtType string) (*domain.CourtTypeSettings, *domain.BookingRules, error) {
	settings, err := uc.configRepo.GetSettings(ctx, courtType)
	if err != nil {
		if !errors.Is(err, configRepo.ErrSettingsNotFound) {
			return nil, nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultCourtTypeSettings(courtType)
	}

	rules, err := uc.configRepo.GetRules(ctx, courtType)
	if err != nil {
		if !errors.Is(err, configRepo.ErrRulesNotFound) {
			return nil, nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
		}
		rules = domain.DefaultBookingRules(courtType)
	}

	return settings, rules, nil
}
