package mongo

import (
	"context"
	"fmt"

	bookingsrepo "hotelops/internal/bookings/repository"
	inventoryrepo "hotelops/internal/inventory/repository"
	"hotelops/internal/migrations/mongo/validators"
	roomsrepo "hotelops/internal/rooms/repository"
	"hotelops/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_booking_id"),
		},
		{
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "check_in", Value: 1},
				{Key: "check_out", Value: 1},
			},
			Options: options.Index().SetName("room_status_stay"),
		},
	}

	RoomsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "guests", Value: 1}, {Key: "price", Value: 1}}},
	}

	InventoryItemsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	RoomInventoryIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "item_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_room_item"),
		},
	}

	WarehouseStockIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "item_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_item_id"),
		},
	}

	InventoryLedgerIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "item_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	}

	InventoryAlertsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "resolved", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "item_id", Value: 1}}},
	}
)

// CollectionDef is one collection with its schema validator and indexes.
type CollectionDef struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists every collection the bookings service reads or writes.
func Collections() []CollectionDef {
	return []CollectionDef{
		{Name: roomsrepo.CollectionName, Indexes: RoomsIndexes, Validator: validators.RoomValidator},
		{Name: bookingsrepo.CollectionName, Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		{Name: inventoryrepo.ItemsCollection, Indexes: InventoryItemsIndexes, Validator: validators.InventoryItemValidator},
		{Name: inventoryrepo.AssignmentsCollection, Indexes: RoomInventoryIndexes, Validator: validators.RoomInventoryValidator},
		{Name: inventoryrepo.WarehouseCollection, Indexes: WarehouseStockIndexes, Validator: validators.WarehouseStockValidator},
		{Name: inventoryrepo.LedgerCollection, Indexes: InventoryLedgerIndexes, Validator: validators.InventoryLedgerValidator},
		{Name: inventoryrepo.AlertsCollection, Indexes: InventoryAlertsIndexes, Validator: validators.InventoryAlertValidator},
	}
}

// RunMigration creates missing collections, refreshes validators on existing
// ones and ensures indexes. It is safe to run repeatedly.
func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for _, def := range Collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully", "collections", len(Collections()))
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
