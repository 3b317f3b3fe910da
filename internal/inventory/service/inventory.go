package service

import (
	"context"
	"errors"
	"strings"

	roomserrors "hotelops/internal/rooms/errors"
	roomsrepo "hotelops/internal/rooms/repository"
	mongotx "hotelops/pkg/db/mongo"
	apperrors "hotelops/pkg/errors"
	"hotelops/pkg/logger"
	"hotelops/pkg/model"
	"hotelops/pkg/sanitizer"
)

const maxReasonLength = 200

type InventoryService interface {
	DeductRoomInventory(ctx context.Context, actor model.Actor, req model.DeductionRequest) (*model.DeductionResult, error)
}

type inventoryService struct {
	rooms     roomsrepo.RoomRepository
	engine    *DeductionEngine
	alerts    *AlertRecorder
	txManager mongotx.TransactionManager
	log       *logger.Logger
}

func NewInventoryService(
	rooms roomsrepo.RoomRepository,
	engine *DeductionEngine,
	alerts *AlertRecorder,
	txManager mongotx.TransactionManager,
	log *logger.Logger,
) InventoryService {
	return &inventoryService{
		rooms:     rooms,
		engine:    engine,
		alerts:    alerts,
		txManager: txManager,
		log:       log,
	}
}

// DeductRoomInventory runs one deduction in its own transaction. Used for
// manual adjustments outside the booking lifecycle.
func (s *inventoryService) DeductRoomInventory(ctx context.Context, actor model.Actor, req model.DeductionRequest) (*model.DeductionResult, error) {
	req.RoomID = strings.TrimSpace(req.RoomID)
	req.BookingID = sanitizer.Identifier(req.BookingID)
	req.Reason = sanitizer.Note(req.Reason, maxReasonLength)
	if req.RoomID == "" {
		return nil, apperrors.InvalidInput("room_id is required")
	}
	if !actor.IsStaff() && actor.Role != model.RoleHousekeeping {
		return nil, apperrors.Forbidden("Only staff can deduct room inventory")
	}
	req.Actor = actor.Label()

	var result *model.DeductionResult
	err := s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.rooms.FindByID(txCtx, req.RoomID); err != nil {
			if errors.Is(err, roomserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Room", req.RoomID)
			}
			return apperrors.Internal("Failed to load room", err)
		}

		res, err := s.engine.Deduct(txCtx, req)
		if err != nil {
			return apperrors.Internal("Failed to deduct room inventory", err)
		}
		result = res
		return nil
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeInternal) {
			s.log.Error("Room inventory deduction failed", "room_id", req.RoomID, "booking_id", req.BookingID, "error", err)
		}
		return nil, err
	}

	s.alerts.Raise(ctx, result.Alerts)

	if result.HasFailures() {
		s.log.Warn("Room inventory partially deducted",
			"room_id", req.RoomID,
			"items_deducted", result.ItemsDeducted,
			"errors", result.Errors,
		)
	} else {
		s.log.Info("Room inventory deducted",
			"room_id", req.RoomID,
			"booking_id", req.BookingID,
			"items_deducted", result.ItemsDeducted,
		)
	}
	return result, nil
}
