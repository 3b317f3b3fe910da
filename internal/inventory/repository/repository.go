package repository

import (
	"context"

	"hotelops/pkg/model"
)

const (
	ItemsCollection       = "Inventory_items"
	AssignmentsCollection = "Room_inventory"
	WarehouseCollection   = "Warehouse_stock"
	LedgerCollection      = "Inventory_ledger"
	AlertsCollection      = "Inventory_alerts"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	FindByID(ctx context.Context, id string) (*model.InventoryItem, error)
}

type AssignmentRepository interface {
	Upsert(ctx context.Context, assignment *model.RoomInventoryAssignment) error
	// FindStockedByRoom returns the room's assignments with a positive quantity.
	FindStockedByRoom(ctx context.Context, roomID string) ([]*model.RoomInventoryAssignment, error)
}

type WarehouseRepository interface {
	FindByItemID(ctx context.Context, itemID string) (*model.WarehouseStock, error)
	// Decrement lowers the item's quantity by qty only if the result stays
	// non-negative, and returns the updated row.
	Decrement(ctx context.Context, itemID string, qty int) (*model.WarehouseStock, error)
	// SetQuantity creates or overwrites the item's warehouse row.
	SetQuantity(ctx context.Context, itemID string, qty int) error
}

// LedgerRepository is append-only. There is deliberately no update or delete.
type LedgerRepository interface {
	Append(ctx context.Context, entry *model.InventoryLedgerEntry) error
	FindByBookingID(ctx context.Context, bookingID string) ([]*model.InventoryLedgerEntry, error)
	FindByItemID(ctx context.Context, itemID string) ([]*model.InventoryLedgerEntry, error)
}

type AlertRepository interface {
	Insert(ctx context.Context, alert *model.InventoryAlert) error
	FindUnresolved(ctx context.Context) ([]*model.InventoryAlert, error)
}
