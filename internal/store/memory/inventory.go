package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	inventoryerrors "hotelops/internal/inventory/errors"
	"hotelops/internal/inventory/repository"
	"hotelops/pkg/model"

	"github.com/google/uuid"
)

type itemRepository struct{ store *Store }

type assignmentRepository struct{ store *Store }

type warehouseRepository struct{ store *Store }

type ledgerRepository struct{ store *Store }

type alertRepository struct{ store *Store }

func (s *Store) Items() repository.ItemRepository { return &itemRepository{store: s} }

func (s *Store) Assignments() repository.AssignmentRepository {
	return &assignmentRepository{store: s}
}

func (s *Store) Warehouse() repository.WarehouseRepository {
	return &warehouseRepository{store: s}
}

func (s *Store) Ledger() repository.LedgerRepository { return &ledgerRepository{store: s} }

func (s *Store) Alerts() repository.AlertRepository { return &alertRepository{store: s} }

func (r *itemRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	return r.store.write(ctx, func(d *data) error {
		if _, exists := d.items[item.ID]; exists {
			return fmt.Errorf("inventory item %s already exists", item.ID)
		}
		d.items[item.ID] = *item
		return nil
	})
}

func (r *itemRepository) FindByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.store.read(ctx, func(d *data) error {
		found, ok := d.items[id]
		if !ok {
			return inventoryerrors.ErrItemNotFound
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func assignmentKey(roomID, itemID string) string {
	return roomID + "/" + itemID
}

func (r *assignmentRepository) Upsert(ctx context.Context, a *model.RoomInventoryAssignment) error {
	return r.store.write(ctx, func(d *data) error {
		key := assignmentKey(a.RoomID, a.ItemID)
		if existing, ok := d.assignments[key]; ok {
			a.ID = existing.ID
		} else if a.ID == "" {
			a.ID = uuid.New().String()
		}
		d.assignments[key] = *a
		return nil
	})
}

func (r *assignmentRepository) FindStockedByRoom(ctx context.Context, roomID string) ([]*model.RoomInventoryAssignment, error) {
	out := make([]*model.RoomInventoryAssignment, 0)
	err := r.store.read(ctx, func(d *data) error {
		for _, a := range d.assignments {
			if a.RoomID != roomID || a.CurrentQuantity <= 0 {
				continue
			}
			a := a
			out = append(out, &a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r *warehouseRepository) FindByItemID(ctx context.Context, itemID string) (*model.WarehouseStock, error) {
	var stock model.WarehouseStock
	err := r.store.read(ctx, func(d *data) error {
		found, ok := d.warehouse[itemID]
		if !ok {
			return inventoryerrors.ErrStockNotFound
		}
		stock = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *warehouseRepository) Decrement(ctx context.Context, itemID string, qty int) (*model.WarehouseStock, error) {
	if qty <= 0 {
		return nil, inventoryerrors.ErrInvalidQuantity
	}
	var stock model.WarehouseStock
	err := r.store.write(ctx, func(d *data) error {
		found, ok := d.warehouse[itemID]
		if !ok || found.Quantity < qty {
			return inventoryerrors.ErrInsufficientStock
		}
		found.Quantity -= qty
		found.UpdatedAt = time.Now().UTC()
		d.warehouse[itemID] = found
		stock = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *warehouseRepository) SetQuantity(ctx context.Context, itemID string, qty int) error {
	if qty < 0 {
		return inventoryerrors.ErrInvalidQuantity
	}
	return r.store.write(ctx, func(d *data) error {
		stock, ok := d.warehouse[itemID]
		if !ok {
			stock = model.WarehouseStock{ID: uuid.New().String(), ItemID: itemID}
		}
		stock.Quantity = qty
		stock.UpdatedAt = time.Now().UTC()
		d.warehouse[itemID] = stock
		return nil
	})
}

func (r *ledgerRepository) Append(ctx context.Context, entry *model.InventoryLedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	return r.store.write(ctx, func(d *data) error {
		e := *entry
		if entry.BookingID != nil {
			id := *entry.BookingID
			e.BookingID = &id
		}
		d.ledger = append(d.ledger, e)
		return nil
	})
}

func (r *ledgerRepository) FindByBookingID(ctx context.Context, bookingID string) ([]*model.InventoryLedgerEntry, error) {
	return r.find(ctx, func(e model.InventoryLedgerEntry) bool {
		return e.BookingID != nil && *e.BookingID == bookingID
	})
}

func (r *ledgerRepository) FindByItemID(ctx context.Context, itemID string) ([]*model.InventoryLedgerEntry, error) {
	return r.find(ctx, func(e model.InventoryLedgerEntry) bool {
		return e.ItemID == itemID
	})
}

// find returns matches in append order, which is created_at order.
func (r *ledgerRepository) find(ctx context.Context, match func(model.InventoryLedgerEntry) bool) ([]*model.InventoryLedgerEntry, error) {
	out := make([]*model.InventoryLedgerEntry, 0)
	err := r.store.read(ctx, func(d *data) error {
		for _, e := range d.ledger {
			if match(e) {
				e := e
				out = append(out, &e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *alertRepository) Insert(ctx context.Context, alert *model.InventoryAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	return r.store.write(ctx, func(d *data) error {
		d.alerts = append(d.alerts, *alert)
		return nil
	})
}

// FindUnresolved returns the newest alerts first.
func (r *alertRepository) FindUnresolved(ctx context.Context) ([]*model.InventoryAlert, error) {
	out := make([]*model.InventoryAlert, 0)
	err := r.store.read(ctx, func(d *data) error {
		for i := len(d.alerts) - 1; i >= 0; i-- {
			if a := d.alerts[i]; !a.Resolved {
				out = append(out, &a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
