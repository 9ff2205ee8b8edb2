package create_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	configRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/courtconfig"
	courtRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/court"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/ptr"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/types"
)

// UseCase creates a time-boxed hold on a slot. The hold does not block
// other members from holding the same slot; the first successful
// payment wins the slot.
type UseCase struct {
	bookingRepo BookingRepository
	courtRepo   CourtRepository
	configRepo  ConfigRepository
	outboxRepo  OutboxRepository
	detector    ConflictDetector
	txManager   TransactionManager
	norm        *clock.Normalizer
	holdTTL     time.Duration
	logger      Logger
}

// NewUseCase creates the hold use case.
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	configRepo ConfigRepository,
	outboxRepo OutboxRepository,
	detector ConflictDetector,
	txManager TransactionManager,
	norm *clock.Normalizer,
	holdTTL time.Duration,
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
		holdTTL:     holdTTL,
		logger:      logger,
	}
}

// Execute runs the admission checks and creates the hold.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: user=%d, court=%d, date=%s, time=%s",
		req.UserID, req.CourtID, req.Date, req.StartTime)

	// 1. Validate input
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	now := uc.norm.NowUTC()
	start := types.TimeString(req.StartTime)

	// 2. Load the court
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateHold: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("CreateHold: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}
	if !court.Active {
		uc.logger.Warn("CreateHold: court id=%d is out of service", req.CourtID)
		return nil, ErrCourtInactive
	}

	// 3. Load settings and rules, falling back to defaults
	settings, err := uc.loadSettings(ctx, court.CourtType)
	if err != nil {
		return nil, err
	}
	rules, err := uc.loadRules(ctx, court.CourtType)
	if err != nil {
		return nil, err
	}

	// 4. Grid and operating-hours checks
	_, err = validateSlotAlignment(settings, start)
	if err != nil {
		uc.logger.Warn("CreateHold: slot alignment failed for %s: %v", req.StartTime, err)
		return nil, err
	}

	weekday, err := uc.norm.Weekday(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}
	if !settings.IsOperatingDay(weekday) {
		uc.logger.Warn("CreateHold: court type=%s does not operate on %s", court.CourtType, weekday)
		return nil, ErrNotOperatingDay
	}

	// 5. Time-window checks against the current instant
	startUTC, err := uc.norm.SlotStartUTC(req.Date, start)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}
	endUTC := startUTC.Add(time.Duration(settings.SlotDurationMinutes) * time.Minute)

	if err := validateBookingNotice(startUTC, now, rules.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateHold: notice check failed for %s %s: %v", req.Date, req.StartTime, err)
		return nil, err
	}
	if err := validateAdvanceWindow(startUTC, now, settings, rules); err != nil {
		uc.logger.Warn("CreateHold: advance window check failed for %s: %v", req.Date, err)
		return nil, err
	}

	// 6. Price the slot
	weekend, err := uc.norm.IsWeekend(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}
	amount := settings.SlotPrice(weekend, start)

	var result *domain.Booking

	// 7. Admission check and insert in a serializable transaction
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Active-booking cap
		active, err := uc.bookingRepo.CountActiveByUser(txCtx, req.UserID, now)
		if err != nil {
			uc.logger.Error("CreateHold: failed to count active bookings: %v", err)
			return fmt.Errorf("%w: failed to count active bookings: %v", ErrInternal, err)
		}
		if active >= rules.MaxActiveBookings {
			uc.logger.Warn("CreateHold: user=%d at active-booking cap %d", req.UserID, rules.MaxActiveBookings)
			return ErrTooManyActiveBookings
		}

		// 7.2. Slot blockers: paid bookings, maintenance, special events.
		// Pending holds do not block; they race at payment time.
		conflict, err := uc.detector.Detect(txCtx, req.CourtID, startUTC, endUTC, nil)
		if err != nil {
			uc.logger.Error("CreateHold: conflict detection failed: %v", err)
			return fmt.Errorf("%w: conflict detection failed: %v", ErrInternal, err)
		}
		if conflict.Blocked {
			uc.logger.Warn("CreateHold: slot blocked for court=%d at %s %s: %s",
				req.CourtID, req.Date, req.StartTime, conflict.Reason)
			return ErrSlotNotAvailable
		}

		// 7.3. Create the hold
		booking := &domain.Booking{
			CourtID:   req.CourtID,
			UserID:    req.UserID,
			StartTime: startUTC,
			EndTime:   endUTC,
			Status:    domain.StatusPendingPayment,
			ExpiresAt: ptr.Ptr(now.Add(uc.holdTTL)),
			Amount:    amount,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateHold: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 7.4. Outbox event in the same transaction
		event, err := domain.NewBookingEvent(created.ID, domain.EventHoldCreated, holdCreatedPayload{
			BookingID: created.ID,
			CourtID:   created.CourtID,
			UserID:    created.UserID,
			StartUTC:  created.StartTime,
			EndUTC:    created.EndTime,
			ExpiresAt: *created.ExpiresAt,
			Amount:    created.Amount,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to build event: %v", ErrInternal, err)
		}
		if err := uc.outboxRepo.Append(txCtx, event); err != nil {
			uc.logger.Error("CreateHold: failed to append outbox event: %v", err)
			return fmt.Errorf("%w: failed to append outbox event: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateHold: created hold id=%d for user=%d, court=%d, expires_at=%s",
		result.ID, result.UserID, result.CourtID, result.ExpiresAt.Format(time.RFC3339))

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
		ExpiresAt: result.ExpiresAt,
		Amount:    result.Amount,
		CreatedAt: result.CreatedAt,
	}, nil
}

func (uc *UseCase) loadSettings(ctx context.Context, courtType string) (*domain.CourtTypeSettings, error) {
	settings, err := uc.configRepo.GetSettings(ctx, courtType)
	if err != nil {
		if !errors.Is(err, configRepo.ErrSettingsNotFound) {
			uc.logger.Error("CreateHold: failed to get settings for %s: %v", courtType, err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultCourtTypeSettings(courtType)
		uc.logger.Info("CreateHold: using default settings for court_type=%s", courtType)
	}
	return settings, nil
}

func (uc *UseCase) loadRules(ctx context.Context, courtType string) (*domain.BookingRules, error) {
	rules, err := uc.configRepo.GetRules(ctx, courtType)
	if err != nil {
		if !errors.Is(err, configRepo.ErrRulesNotFound) {
			uc.logger.Error("CreateHold: failed to get rules for %s: %v", courtType, err)
			return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
		}
		rules = domain.DefaultBookingRules(courtType)
		uc.logger.Info("CreateHold: using default rules for court_type=%s", courtType)
	}
	return rules, nil
}
