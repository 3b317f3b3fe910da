package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingserrors "hotelops/internal/bookings/errors"
	"hotelops/internal/bookings/lifecycle"
	"hotelops/internal/bookings/repository"
	"hotelops/internal/bookings/validator"
	"hotelops/internal/events"
	inventoryservice "hotelops/internal/inventory/service"
	roomserrors "hotelops/internal/rooms/errors"
	roomsrepo "hotelops/internal/rooms/repository"
	"hotelops/pkg/config"
	mongotx "hotelops/pkg/db/mongo"
	apperrors "hotelops/pkg/errors"
	"hotelops/pkg/model"
	"hotelops/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, actor model.Actor, booking *model.Booking) (*model.TransitionResult, error)
	GetByBookingID(ctx context.Context, bookingID string) (*model.Booking, error)
	Transition(ctx context.Context, actor model.Actor, req model.TransitionRequest) (*model.TransitionResult, error)
	CheckIn(ctx context.Context, actor model.Actor, bookingID string) (*model.TransitionResult, error)
	CheckOut(ctx context.Context, actor model.Actor, bookingID string) (*model.TransitionResult, error)
	Delete(ctx context.Context, actor model.Actor, bookingID string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	rooms     roomsrepo.RoomRepository
	engine    *inventoryservice.DeductionEngine
	alerts    *inventoryservice.AlertRecorder
	emitter   events.Emitter
	txManager mongotx.TransactionManager
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	rooms roomsrepo.RoomRepository,
	engine *inventoryservice.DeductionEngine,
	alerts *inventoryservice.AlertRecorder,
	emitter events.Emitter,
	txManager mongotx.TransactionManager,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		rooms:     rooms,
		engine:    engine,
		alerts:    alerts,
		emitter:   emitter,
		txManager: txManager,
		validator: validator,
		cfg:       cfg,
	}
}

// Create stores a booking in its caller-supplied initial status, marks the
// room booked and, for walk-ins created directly as checked_in, deducts the
// room's supplies in the same transaction.
func (s *bookingService) Create(ctx context.Context, actor model.Actor, booking *model.Booking) (*model.TransitionResult, error) {
	s.applyDefaults(actor, booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"status": fmt.Sprintf("a booking cannot be created as %s", booking.Status),
		})
	}
	if !lifecycle.CanCreate(actor, booking.Status) {
		return nil, apperrors.Forbidden(fmt.Sprintf("Role %s cannot create %s bookings", actor.Role, booking.Status))
	}

	if _, err := s.loadRoomForBooking(ctx, booking.RoomID, booking.Guests); err != nil {
		return nil, err
	}

	var result *model.TransitionResult
	err := s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		result = &model.TransitionResult{Booking: booking, Warnings: []string{}}

		if _, err := s.loadRoomForBooking(txCtx, booking.RoomID, booking.Guests); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrDuplicateBookingID) {
				return apperrors.Conflict(fmt.Sprintf("Booking %s already exists", booking.BookingID))
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		if err := s.rooms.UpdateStatus(txCtx, booking.RoomID, model.RoomBooked); err != nil {
			return apperrors.Internal("Failed to update room status", err)
		}
		result.RoomStatus = model.RoomBooked

		if booking.Status.IsOccupying() {
			inv, err := s.deduct(txCtx, actor, booking, booking.RoomID, booking.Status)
			if err != nil {
				return err
			}
			result.Inventory = inv
			result.Warnings = append(result.Warnings, inv.Errors...)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to create booking", booking.BookingID, err)
		return nil, err
	}

	result.Message = fmt.Sprintf("Booking %s created as %s", booking.BookingID, booking.Status)
	s.afterCommit(ctx, actor, events.TypeBookingCreated, result, "")

	s.cfg.Log.Info("Booking created successfully",
		"booking_id", booking.BookingID,
		"room_id", booking.RoomID,
		"status", booking.Status,
		"items_deducted", itemsDeducted(result.Inventory),
	)
	return result, nil
}

func (s *bookingService) GetByBookingID(ctx context.Context, bookingID string) (*model.Booking, error) {
	bookingID = normalizeBookingID(bookingID)
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	return s.loadBooking(ctx, bookingID)
}

// Delete removes a booking. The room is released only when the booking was
// still holding it.
func (s *bookingService) Delete(ctx context.Context, actor model.Actor, bookingID string) error {
	bookingID = normalizeBookingID(bookingID)
	if bookingID == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !lifecycle.CanDelete(actor) {
		return apperrors.Forbidden("Only admins and managers can delete bookings")
	}
	if _, err := s.loadBooking(ctx, bookingID); err != nil {
		return err
	}

	var result *model.TransitionResult
	err := s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		booking, err := s.loadBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		result = &model.TransitionResult{Booking: booking, PreviousStatus: booking.Status, Warnings: []string{}}

		if err := s.repo.DeleteByBookingID(txCtx, bookingID); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", bookingID)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}

		if booking.Status.ReleasesRoomOnDelete() {
			status, warning, err := s.setRoomStatus(txCtx, booking.RoomID, model.RoomAvailable)
			if err != nil {
				return err
			}
			result.RoomStatus = status
			if warning != "" {
				result.Warnings = append(result.Warnings, warning)
			}
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to delete booking", bookingID, err)
		return err
	}

	result.Message = fmt.Sprintf("Booking %s deleted", bookingID)
	s.afterCommit(ctx, actor, events.TypeBookingDeleted, result, "")

	s.cfg.Log.Info("Booking deleted successfully",
		"booking_id", bookingID,
		"previous_status", result.PreviousStatus,
		"room_status", result.RoomStatus,
	)
	return nil
}

// --- Helpers ---

func normalizeBookingID(id string) string {
	return sanitizer.Identifier(id)
}

func (s *bookingService) applyDefaults(actor model.Actor, b *model.Booking) {
	if b.Status == "" {
		b.Status = model.BookingPending
	}
	if b.CreatedBy == "" {
		b.CreatedBy = actor.Label()
	}
	b.ID = ""
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.BookingID = normalizeBookingID(b.BookingID)
	b.RoomID = strings.TrimSpace(b.RoomID)
	b.GuestName = sanitizer.GuestName(b.GuestName)
	b.GuestEmail = sanitizer.Email(b.GuestEmail)
	b.GuestPhone = sanitizer.Phone(b.GuestPhone)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "booking_id", booking.BookingID, "error", err)
		return validationError("Booking validation failed", err)
	}
	return nil
}

func validationError(message string, err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func (s *bookingService) loadBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	booking, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// loadRoomForBooking checks that the room exists and fits the party. Room
// status is not consulted: creation books the room whatever its state.
func (s *bookingService) loadRoomForBooking(ctx context.Context, roomID string, guests int) (*model.Room, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	if guests > room.Guests {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"guests": fmt.Sprintf("guests (%d) exceeds room capacity (%d)", guests, room.Guests),
		})
	}
	return room, nil
}

// loadReassignmentRoom is loadRoomForBooking plus a refusal to move a
// booking into a room under maintenance.
func (s *bookingService) loadReassignmentRoom(ctx context.Context, roomID string, guests int) (*model.Room, error) {
	room, err := s.loadRoomForBooking(ctx, roomID, guests)
	if err != nil {
		return nil, err
	}
	if room.Status == model.RoomMaintenance {
		return nil, apperrors.Conflict(fmt.Sprintf("Room %s is under maintenance", roomID))
	}
	return room, nil
}

// setRoomStatus writes the room status. A room that no longer exists is
// reported as a warning instead of failing the transition.
func (s *bookingService) setRoomStatus(ctx context.Context, roomID string, status model.RoomStatus) (model.RoomStatus, string, error) {
	if roomID == "" {
		return "", "", nil
	}
	if err := s.rooms.UpdateStatus(ctx, roomID, status); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			s.cfg.Log.Warn("Room not found while updating status", "room_id", roomID, "status", status)
			return "", fmt.Sprintf("room %s not found; status not updated", roomID), nil
		}
		return "", "", apperrors.Internal("Failed to update room status", err)
	}
	return status, "", nil
}

func (s *bookingService) deduct(ctx context.Context, actor model.Actor, booking *model.Booking, roomID string, status model.BookingStatus) (*model.DeductionResult, error) {
	res, err := s.engine.Deduct(ctx, model.DeductionRequest{
		RoomID:    roomID,
		BookingID: booking.BookingID,
		Reason:    deductionReason(status),
		Actor:     actor.Label(),
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to deduct room inventory", err)
	}
	if res.HasFailures() {
		s.cfg.Log.Warn("Room inventory partially deducted",
			"booking_id", booking.BookingID,
			"room_id", roomID,
			"items_deducted", res.ItemsDeducted,
			"errors", res.Errors,
		)
	}
	return res, nil
}

func deductionReason(status model.BookingStatus) string {
	switch status {
	case model.BookingCheckedIn:
		return "guest check-in"
	case model.BookingConfirmed:
		return "booking confirmed"
	case model.BookingApproved:
		return "booking approved"
	}
	return ""
}

// afterCommit persists alerts and publishes the booking event. Both are best
// effort and never change the caller's result.
func (s *bookingService) afterCommit(ctx context.Context, actor model.Actor, eventType string, result *model.TransitionResult, previousRoomID string) {
	if result.Inventory != nil {
		s.alerts.Raise(ctx, result.Inventory.Alerts)
	}
	s.emitter.Emit(ctx, events.NewBookingEvent(eventType, actor, events.BookingPayload{
		Booking:        result.Booking,
		PreviousStatus: result.PreviousStatus,
		PreviousRoomID: previousRoomID,
		RoomStatus:     result.RoomStatus,
		Inventory:      result.Inventory,
	}))
}

func (s *bookingService) logFailure(msg, bookingID string, err error) {
	if apperrors.HasCode(err, apperrors.CodeInternal) || !apperrors.IsAppError(err) {
		s.cfg.Log.Error(msg, "booking_id", bookingID, "error", err)
		return
	}
	s.cfg.Log.Warn(msg, "booking_id", bookingID, "error", err)
}

func itemsDeducted(res *model.DeductionResult) int {
	if res == nil {
		return 0
	}
	return res.ItemsDeducted
}
