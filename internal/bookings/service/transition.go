package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingserrors "hotelops/internal/bookings/errors"
	"hotelops/internal/bookings/lifecycle"
	"hotelops/internal/events"
	apperrors "hotelops/pkg/errors"
	"hotelops/pkg/model"
)

const warnAlreadyDeducted = "inventory already deducted for this booking"

type trigger int

const (
	triggerTransition trigger = iota
	triggerCheckIn
	triggerCheckOut
)

// transitionPlan is what a trigger will do to one booking, derived from the
// booking as currently stored.
type transitionPlan struct {
	prev, next       model.BookingStatus
	fromRoom, toRoom string
	noop             bool
}

func (p *transitionPlan) roomChanged() bool {
	return p.fromRoom != p.toRoom
}

// planTransition applies the lifecycle rules without touching storage. It runs
// once before the transaction to fail fast and again inside it against the
// freshly read booking.
func planTransition(booking *model.Booking, t trigger, next *model.BookingStatus, roomID *string) (*transitionPlan, error) {
	p := &transitionPlan{
		prev:     booking.Status,
		next:     booking.Status,
		fromRoom: booking.RoomID,
		toRoom:   booking.RoomID,
	}
	if next != nil {
		p.next = *next
	}
	if roomID != nil {
		p.toRoom = strings.TrimSpace(*roomID)
	}

	if p.prev.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking %s is %s and can no longer change", booking.BookingID, p.prev)).
			With("status", p.prev)
	}

	switch t {
	case triggerCheckIn:
		if p.prev == model.BookingCheckedIn {
			return nil, apperrors.Conflict(fmt.Sprintf("Booking %s is already checked in", booking.BookingID))
		}
		if !lifecycle.CanCheckIn(p.prev) {
			return nil, apperrors.Conflict(fmt.Sprintf("Booking %s cannot be checked in from %s", booking.BookingID, p.prev))
		}
	case triggerCheckOut:
		if !lifecycle.CanCheckOut(p.prev) {
			return nil, apperrors.Conflict(fmt.Sprintf("Booking %s must be checked in before check-out, current status is %s", booking.BookingID, p.prev))
		}
	default:
		if p.next == p.prev {
			p.noop = !p.roomChanged()
			return p, nil
		}
		if !lifecycle.CanTransition(p.prev, p.next) {
			return nil, apperrors.Conflict(fmt.Sprintf("Cannot transition booking %s from %s to %s", booking.BookingID, p.prev, p.next)).
				With("from", p.prev).
				With("to", p.next)
		}
	}
	return p, nil
}

func (s *bookingService) Transition(ctx context.Context, actor model.Actor, req model.TransitionRequest) (*model.TransitionResult, error) {
	req.BookingID = normalizeBookingID(req.BookingID)
	if err := s.validator.ValidateTransition(&req); err != nil {
		s.cfg.Log.Warn("Transition request rejected", "booking_id", req.BookingID, "error", err)
		return nil, apperrors.InvalidInput(err.Error())
	}
	if req.NewStatus != nil && !lifecycle.CanPerform(actor, *req.NewStatus) {
		return nil, apperrors.Forbidden(fmt.Sprintf("Role %s cannot move bookings to %s", actor.Role, *req.NewStatus))
	}
	if req.NewRoomID != nil && !lifecycle.CanReassignRoom(actor) {
		return nil, apperrors.Forbidden(fmt.Sprintf("Role %s cannot reassign rooms", actor.Role))
	}
	return s.apply(ctx, actor, req.BookingID, triggerTransition, req.NewStatus, req.NewRoomID)
}

// CheckIn moves a booking to checked_in. Supplies are deducted unless an
// earlier transition in this occupancy already took them.
func (s *bookingService) CheckIn(ctx context.Context, actor model.Actor, bookingID string) (*model.TransitionResult, error) {
	bookingID = normalizeBookingID(bookingID)
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !actor.IsStaff() {
		return nil, apperrors.Forbidden("Only staff can check guests in")
	}
	next := model.BookingCheckedIn
	return s.apply(ctx, actor, bookingID, triggerCheckIn, &next, nil)
}

func (s *bookingService) CheckOut(ctx context.Context, actor model.Actor, bookingID string) (*model.TransitionResult, error) {
	bookingID = normalizeBookingID(bookingID)
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !actor.IsStaff() {
		return nil, apperrors.Forbidden("Only staff can check guests out")
	}
	next := model.BookingCompleted
	return s.apply(ctx, actor, bookingID, triggerCheckOut, &next, nil)
}

func (s *bookingService) apply(ctx context.Context, actor model.Actor, bookingID string, t trigger, next *model.BookingStatus, roomID *string) (*model.TransitionResult, error) {
	current, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	plan, err := planTransition(current, t, next, roomID)
	if err != nil {
		s.cfg.Log.Warn("Booking transition rejected", "booking_id", bookingID, "status", current.Status, "error", err)
		return nil, err
	}
	if plan.noop {
		return &model.TransitionResult{
			Booking:        current,
			PreviousStatus: current.Status,
			Warnings:       []string{},
			Message:        fmt.Sprintf("Booking %s is already %s", bookingID, current.Status),
			NoOp:           true,
		}, nil
	}
	if plan.roomChanged() {
		if _, err := s.loadReassignmentRoom(ctx, plan.toRoom, current.Guests); err != nil {
			return nil, err
		}
	}

	var result *model.TransitionResult
	err = s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		res, err := s.applyInTx(txCtx, actor, bookingID, t, next, roomID)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		s.logFailure("Booking transition failed", bookingID, err)
		return nil, err
	}
	if result.NoOp {
		return result, nil
	}

	s.afterCommit(ctx, actor, events.TypeBookingTransitioned, result, plan.fromRoom)

	s.cfg.Log.Info("Booking transitioned",
		"booking_id", bookingID,
		"from", result.PreviousStatus,
		"to", result.Booking.Status,
		"room_id", result.Booking.RoomID,
		"room_status", result.RoomStatus,
		"items_deducted", itemsDeducted(result.Inventory),
	)
	return result, nil
}

// applyInTx performs booking update, room updates and deduction in that order.
func (s *bookingService) applyInTx(ctx context.Context, actor model.Actor, bookingID string, t trigger, next *model.BookingStatus, roomID *string) (*model.TransitionResult, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	plan, err := planTransition(booking, t, next, roomID)
	if err != nil {
		return nil, err
	}
	result := &model.TransitionResult{PreviousStatus: plan.prev, Warnings: []string{}}
	if plan.noop {
		result.Booking = booking
		result.NoOp = true
		result.Message = fmt.Sprintf("Booking %s is already %s", bookingID, booking.Status)
		return result, nil
	}
	if plan.roomChanged() {
		if _, err := s.loadReassignmentRoom(ctx, plan.toRoom, booking.Guests); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateStatusAndRoom(ctx, bookingID, plan.prev, plan.next, plan.toRoom)
	if err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrStaleStatus):
			return nil, apperrors.Conflict(fmt.Sprintf("Booking %s was modified concurrently, retry the request", bookingID))
		case errors.Is(err, bookingserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		return nil, apperrors.Internal("Failed to update booking", err)
	}
	result.Booking = updated

	if plan.roomChanged() {
		if _, warning, err := s.setRoomStatus(ctx, plan.fromRoom, model.RoomAvailable); err != nil {
			return nil, err
		} else if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
	}

	target := model.RoomBooked
	if plan.next.ReleasesRoom() || plan.next == model.BookingCompleted {
		target = model.RoomAvailable
	}
	status, warning, err := s.setRoomStatus(ctx, plan.toRoom, target)
	if err != nil {
		return nil, err
	}
	result.RoomStatus = status
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	switch {
	case lifecycle.EntersOccupancy(plan.prev, plan.next):
		inv, err := s.deduct(ctx, actor, updated, plan.toRoom, plan.next)
		if err != nil {
			return nil, err
		}
		result.Inventory = inv
		result.Warnings = append(result.Warnings, inv.Errors...)
	case plan.next == model.BookingCheckedIn && plan.prev.IsOccupying():
		result.Warnings = append(result.Warnings, warnAlreadyDeducted)
	}

	result.Message = transitionMessage(t, plan)
	return result, nil
}

func transitionMessage(t trigger, p *transitionPlan) string {
	switch t {
	case triggerCheckIn:
		return fmt.Sprintf("Guest checked in to room %s", p.toRoom)
	case triggerCheckOut:
		return fmt.Sprintf("Guest checked out of room %s", p.toRoom)
	}
	if p.prev == p.next {
		return fmt.Sprintf("Booking moved from room %s to room %s", p.fromRoom, p.toRoom)
	}
	return fmt.Sprintf("Booking moved from %s to %s", p.prev, p.next)
}
