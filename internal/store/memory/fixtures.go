package memory

import (
	"context"
	"fmt"

	"hotelops/pkg/model"

	"github.com/shopspring/decimal"
)

// Fixtures is reference data loaded into an empty store. Rooms, items and
// stock are owned by CRUD layers outside this service, so local runs seed
// them instead.
type Fixtures struct {
	Rooms       []model.Room
	Items       []model.InventoryItem
	Assignments []model.RoomInventoryAssignment
	Stock       map[string]int
}

func (s *Store) Load(ctx context.Context, f Fixtures) error {
	return s.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		for i := range f.Rooms {
			if err := s.Rooms().Create(txCtx, &f.Rooms[i]); err != nil {
				return fmt.Errorf("load room %s: %w", f.Rooms[i].ID, err)
			}
		}
		for i := range f.Items {
			if err := s.Items().Create(txCtx, &f.Items[i]); err != nil {
				return fmt.Errorf("load item %s: %w", f.Items[i].ID, err)
			}
		}
		for i := range f.Assignments {
			if err := s.Assignments().Upsert(txCtx, &f.Assignments[i]); err != nil {
				return fmt.Errorf("load assignment %s/%s: %w", f.Assignments[i].RoomID, f.Assignments[i].ItemID, err)
			}
		}
		for itemID, qty := range f.Stock {
			if err := s.Warehouse().SetQuantity(txCtx, itemID, qty); err != nil {
				return fmt.Errorf("load stock %s: %w", itemID, err)
			}
		}
		return nil
	})
}

func DemoFixtures() Fixtures {
	return Fixtures{
		Rooms: []model.Room{
			{ID: "R-101", Number: "101", Guests: 2, Price: decimal.NewFromInt(120), Status: model.RoomAvailable},
			{ID: "R-102", Number: "102", Guests: 2, Price: decimal.NewFromInt(120), Status: model.RoomAvailable},
			{ID: "R-201", Number: "201", Guests: 4, Price: decimal.NewFromInt(210), Status: model.RoomAvailable},
			{ID: "R-301", Number: "301", Guests: 6, Price: decimal.RequireFromString("349.90"), Status: model.RoomAvailable},
		},
		Items: []model.InventoryItem{
			{ID: "towel", Name: "Bath towel", Unit: "piece", LowStockThreshold: 10, ReorderQuantity: 50},
			{ID: "soap", Name: "Soap bar", Unit: "piece", LowStockThreshold: 20, ReorderQuantity: 100},
			{ID: "water", Name: "Mineral water", Unit: "bottle", LowStockThreshold: 24, ReorderQuantity: 120},
		},
		Assignments: []model.RoomInventoryAssignment{
			{RoomID: "R-101", ItemID: "towel", CurrentQuantity: 2},
			{RoomID: "R-101", ItemID: "soap", CurrentQuantity: 2},
			{RoomID: "R-102", ItemID: "towel", CurrentQuantity: 2},
			{RoomID: "R-102", ItemID: "soap", CurrentQuantity: 2},
			{RoomID: "R-201", ItemID: "towel", CurrentQuantity: 4},
			{RoomID: "R-201", ItemID: "water", CurrentQuantity: 4},
			{RoomID: "R-301", ItemID: "towel", CurrentQuantity: 6},
			{RoomID: "R-301", ItemID: "water", CurrentQuantity: 6},
		},
		Stock: map[string]int{
			"towel": 60,
			"soap":  80,
			"water": 100,
		},
	}
}
