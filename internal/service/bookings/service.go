package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	bookingRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/booking"
	configRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/courtconfig"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/service/bookings/models"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
)

// Service reads bookings and handles the explicit cancel path.
type Service struct {
	bookingRepo BookingRepository
	courtRepo   CourtRepository
	configRepo  ConfigRepository
	outboxRepo  OutboxRepository
	txManager   TransactionManager
	norm        *clock.Normalizer
	logger      Logger
}

// NewService creates the bookings service.
func NewService(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	configRepo ConfigRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	norm *clock.Normalizer,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		courtRepo:   courtRepo,
		configRepo:  configRepo,
		outboxRepo:  outboxRepo,
		txManager:   txManager,
		norm:        norm,
		logger:      logger,
	}
}

// GetByID fetches one booking. Members see only their own bookings;
// staff see everything.
func (s *Service) GetByID(ctx context.Context, id, requesterID int64, role domain.Role) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, requesterID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != requesterID && !role.IsStaff() {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", requesterID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking, s.norm), nil
}

// GetUserBookings lists a member's booking history, optionally
// filtered by status. Members list only their own history.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.UserID != req.RequesterID && !req.Role.IsStaff() {
		s.logger.Warn("GetUserBookings: access denied for user=%d to history of user=%d",
			req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		converted, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &converted
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings, s.norm), nil
}

// GetCourtBookings lists one court's bookings for reporting. Staff
// only; supports period, status and inactive-row filters.
func (s *Service) GetCourtBookings(ctx context.Context, req *models.GetCourtBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCourtBookings: fetching bookings for court=%d", req.CourtID)

	if !req.Role.IsStaff() {
		s.logger.Warn("GetCourtBookings: access denied, role=%s", req.Role)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCourtBookings: invalid filter for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByCourtWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCourtBookings: repository error for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: GetCourtBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCourtBookings: fetched %d bookings for court=%d", len(bookings), req.CourtID)
	return models.FromDomainBookingList(bookings, s.norm), nil
}

// Cancel cancels a paid booking. Members cancel their own bookings
// inside the cancellation window; staff cancel any booking at any time.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
	}

	now := s.norm.NowUTC()

	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		owner := booking.UserID == req.UserID
		if !owner && !req.Role.IsStaff() {
			s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		rules, err := s.loadRules(txCtx, booking.CourtID)
		if err != nil {
			return err
		}

		if !rules.AllowCancellation {
			return ErrCancellationDisabled
		}
		if !req.Role.CanOverrideWindows() {
			deadline := booking.StartTime.Add(-time.Duration(rules.MinCancellationMinutes) * time.Minute)
			if now.After(deadline) {
				s.logger.Warn("Cancel: booking id=%d inside the %dmin cancellation window",
					bookingID, rules.MinCancellationMinutes)
				return ErrTooLateToCancel
			}
		}

		cancelledBy := domain.CancelledByUser
		switch {
		case owner:
			cancelledBy = domain.CancelledByUser
		case req.Role == domain.RoleAdmin:
			cancelledBy = domain.CancelledByAdmin
		default:
			cancelledBy = domain.CancelledByOperator
		}

		if err := s.bookingRepo.CancelPaid(txCtx, bookingID, req.CancellationReason, cancelledBy, now); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				// A concurrent transition consumed the row.
				return ErrCannotCancel
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		event, err := domain.NewBookingEvent(bookingID, domain.EventCancelled, cancelledPayload{
			BookingID:   bookingID,
			CourtID:     booking.CourtID,
			UserID:      booking.UserID,
			Reason:      req.CancellationReason,
			CancelledBy: cancelledBy,
			CancelledAt: now,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to build event: %v", ErrInternal, err)
		}
		if err := s.outboxRepo.Append(txCtx, event); err != nil {
			return fmt.Errorf("%w: failed to append outbox event: %v", ErrInternal, err)
		}

		s.logger.Info("Cancel: cancelled booking id=%d by %s", bookingID, cancelledBy)
		return nil
	})
}

// cancelledPayload is the outbox payload for a cancelled booking.
type cancelledPayload struct {
	BookingID   int64     `json:"booking_id"`
	CourtID     int64     `json:"court_id"`
	UserID      int64     `json:"user_id"`
	Reason      string    `json:"reason,omitempty"`
	CancelledBy string    `json:"cancelled_by"`
	CancelledAt time.Time `json:"cancelled_at"`
}

func (s *Service) loadRules(ctx context.Context, courtID int64) (*domain.BookingRules, error) {
	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	rules, err := s.configRepo.GetRules(ctx, court.CourtType)
	if err != nil {
		if !errors.Is(err, configRepo.ErrRulesNotFound) {
			return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
		}
		rules = domain.DefaultBookingRules(court.CourtType)
	}
	return rules, nil
}
