package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	inventoryerrors "hotelops/internal/inventory/errors"
	"hotelops/internal/inventory/repository"
	"hotelops/pkg/logger"
	"hotelops/pkg/model"
)

const defaultDeductionReason = "room occupied"

// DeductionEngine moves a room's provisioned supplies out of the warehouse.
// It must run inside the caller's transaction; it never opens one itself.
type DeductionEngine struct {
	assignments repository.AssignmentRepository
	warehouse   repository.WarehouseRepository
	items       repository.ItemRepository
	ledger      repository.LedgerRepository
	log         *logger.Logger
}

func NewDeductionEngine(
	assignments repository.AssignmentRepository,
	warehouse repository.WarehouseRepository,
	items repository.ItemRepository,
	ledger repository.LedgerRepository,
	log *logger.Logger,
) *DeductionEngine {
	return &DeductionEngine{
		assignments: assignments,
		warehouse:   warehouse,
		items:       items,
		ledger:      ledger,
		log:         log,
	}
}

// Deduct returns an error only for storage failures. Per-item shortfalls are
// reported in the result and never stop the remaining items.
func (e *DeductionEngine) Deduct(ctx context.Context, req model.DeductionRequest) (*model.DeductionResult, error) {
	result := &model.DeductionResult{
		RoomID:    req.RoomID,
		BookingID: req.BookingID,
		Succeeded: []model.ItemDeduction{},
		Failed:    []model.ItemDeductionFailure{},
		Errors:    []string{},
	}
	if req.Reason == "" {
		req.Reason = defaultDeductionReason
	}

	assignments, err := e.assignments.FindStockedByRoom(ctx, req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("load room inventory: %w", err)
	}
	if len(assignments) == 0 {
		result.Message = fmt.Sprintf("No inventory assigned to room %s", req.RoomID)
		return result, nil
	}

	for _, a := range assignments {
		if err := e.deductItem(ctx, req, a, result); err != nil {
			return nil, err
		}
	}

	result.Message = summarize(result)
	return result, nil
}

func (e *DeductionEngine) deductItem(ctx context.Context, req model.DeductionRequest, a *model.RoomInventoryAssignment, result *model.DeductionResult) error {
	required := a.CurrentQuantity

	stock, err := e.warehouse.FindByItemID(ctx, a.ItemID)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrStockNotFound) {
			result.AddFailure(model.ItemDeductionFailure{
				ItemID:   a.ItemID,
				Reason:   model.FailureItemNotInWarehouse,
				Required: required,
				Message:  fmt.Sprintf("%s: item not found in warehouse", a.ItemID),
			})
			return nil
		}
		return fmt.Errorf("read warehouse stock for %s: %w", a.ItemID, err)
	}

	if stock.Quantity < required {
		result.AddFailure(insufficient(a.ItemID, stock.Quantity, required))
		return nil
	}

	updated, err := e.warehouse.Decrement(ctx, a.ItemID, required)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrInsufficientStock) {
			// another deduction drained the item after our read
			result.AddFailure(insufficient(a.ItemID, stock.Quantity, required))
			return nil
		}
		return fmt.Errorf("decrement warehouse stock for %s: %w", a.ItemID, err)
	}

	name, threshold, err := e.itemDetails(ctx, a.ItemID)
	if err != nil {
		return err
	}

	entry := &model.InventoryLedgerEntry{
		ItemID:         a.ItemID,
		Delta:          -required,
		ResultingLevel: updated.Quantity,
		Reason:         req.Reason,
		Note:           fmt.Sprintf("Deducted %d x %s for room %s", required, name, req.RoomID),
		Actor:          req.Actor,
		CreatedAt:      time.Now().UTC().Truncate(time.Millisecond),
	}
	if req.BookingID != "" {
		bookingID := req.BookingID
		entry.BookingID = &bookingID
	}
	if err := e.ledger.Append(ctx, entry); err != nil {
		return fmt.Errorf("append ledger entry for %s: %w", a.ItemID, err)
	}

	result.AddSuccess(model.ItemDeduction{
		ItemID:        a.ItemID,
		ItemName:      name,
		Quantity:      required,
		PreviousLevel: updated.Quantity + required,
		NewLevel:      updated.Quantity,
	})

	if alert := EvaluateStockLevel(a.ItemID, updated.Quantity, threshold); alert != nil {
		result.Alerts = append(result.Alerts, alert)
	}
	return nil
}

// itemDetails falls back to the item id and a zero threshold when the item
// has no catalogue entry, so only an out-of-stock alert can fire for it.
func (e *DeductionEngine) itemDetails(ctx context.Context, itemID string) (string, int, error) {
	item, err := e.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrItemNotFound) {
			e.log.Warn("Inventory item missing from catalogue, using zero threshold", "item_id", itemID)
			return itemID, 0, nil
		}
		return "", 0, fmt.Errorf("load inventory item %s: %w", itemID, err)
	}
	name := item.Name
	if name == "" {
		name = itemID
	}
	return name, item.LowStockThreshold, nil
}

func insufficient(itemID string, available, required int) model.ItemDeductionFailure {
	return model.ItemDeductionFailure{
		ItemID:    itemID,
		Reason:    model.FailureInsufficientStock,
		Available: available,
		Required:  required,
		Message:   fmt.Sprintf("%s: insufficient stock: available %d, required %d", itemID, available, required),
	}
}

func summarize(r *model.DeductionResult) string {
	if !r.HasFailures() {
		return fmt.Sprintf("Deducted %d item(s) for room %s", r.ItemsDeducted, r.RoomID)
	}
	return fmt.Sprintf("Deducted %d item(s) for room %s, %d item(s) failed", r.ItemsDeducted, r.RoomID, len(r.Failed))
}
