package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	inventoryerrors "hotelops/internal/inventory/errors"
	"hotelops/pkg/config"
	mongotx "hotelops/pkg/db/mongo"
	"hotelops/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoItemRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoItemRepository(cfg *config.Config) ItemRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoItemRepository{cfg: cfg, collection: db.Collection(ItemsCollection)}
}

func (r *mongoItemRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (r *mongoItemRepository) FindByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var item model.InventoryItem
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}
	return &item, nil
}

type mongoAssignmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAssignmentRepository(cfg *config.Config) AssignmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAssignmentRepository{cfg: cfg, collection: db.Collection(AssignmentsCollection)}
}

func (r *mongoAssignmentRepository) Upsert(ctx context.Context, a *model.RoomInventoryAssignment) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"room_id": a.RoomID, "item_id": a.ItemID}
	update := bson.M{
		"$set":         bson.M{"current_quantity": a.CurrentQuantity},
		"$setOnInsert": bson.M{"_id": uuid.New().String()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(a); err != nil {
		return fmt.Errorf("failed to upsert room inventory: %w", err)
	}
	return nil
}

func (r *mongoAssignmentRepository) FindStockedByRoom(ctx context.Context, roomID string) ([]*model.RoomInventoryAssignment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"room_id":          roomID,
		"current_quantity": bson.M{"$gt": 0},
	}
	opts := options.Find().SetSort(bson.D{{Key: "item_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find room inventory: %w", err)
	}
	defer cursor.Close(ctx)

	assignments := make([]*model.RoomInventoryAssignment, 0)
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("failed to decode room inventory: %w", err)
	}
	return assignments, nil
}

type mongoWarehouseRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoWarehouseRepository(cfg *config.Config) WarehouseRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoWarehouseRepository{cfg: cfg, collection: db.Collection(WarehouseCollection)}
}

func (r *mongoWarehouseRepository) FindByItemID(ctx context.Context, itemID string) (*model.WarehouseStock, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var stock model.WarehouseStock
	if err := r.collection.FindOne(ctx, bson.M{"item_id": itemID}).Decode(&stock); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to read warehouse stock: %w", err)
	}
	return &stock, nil
}

func (r *mongoWarehouseRepository) Decrement(ctx context.Context, itemID string, qty int) (*model.WarehouseStock, error) {
	if qty <= 0 {
		return nil, inventoryerrors.ErrInvalidQuantity
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"item_id":  itemID,
		"quantity": bson.M{"$gte": qty},
	}
	update := bson.M{
		"$inc": bson.M{"quantity": -qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var stock model.WarehouseStock
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stock); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrInsufficientStock
		}
		return nil, fmt.Errorf("failed to decrement warehouse stock: %w", err)
	}
	return &stock, nil
}

func (r *mongoWarehouseRepository) SetQuantity(ctx context.Context, itemID string, qty int) error {
	if qty < 0 {
		return inventoryerrors.ErrInvalidQuantity
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set":         bson.M{"quantity": qty, "updated_at": time.Now().UTC()},
		"$setOnInsert": bson.M{"_id": uuid.New().String()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"item_id": itemID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set warehouse stock: %w", err)
	}
	return nil
}

type mongoLedgerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLedgerRepository(cfg *config.Config) LedgerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLedgerRepository{cfg: cfg, collection: db.Collection(LedgerCollection)}
}

func (r *mongoLedgerRepository) Append(ctx context.Context, entry *model.InventoryLedgerEntry) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (r *mongoLedgerRepository) FindByBookingID(ctx context.Context, bookingID string) ([]*model.InventoryLedgerEntry, error) {
	return r.find(ctx, bson.M{"booking_id": bookingID})
}

func (r *mongoLedgerRepository) FindByItemID(ctx context.Context, itemID string) ([]*model.InventoryLedgerEntry, error) {
	return r.find(ctx, bson.M{"item_id": itemID})
}

func (r *mongoLedgerRepository) find(ctx context.Context, filter bson.M) ([]*model.InventoryLedgerEntry, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]*model.InventoryLedgerEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode ledger entries: %w", err)
	}
	return entries, nil
}

type mongoAlertRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAlertRepository(cfg *config.Config) AlertRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAlertRepository{cfg: cfg, collection: db.Collection(AlertsCollection)}
}

func (r *mongoAlertRepository) Insert(ctx context.Context, alert *model.InventoryAlert) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	if _, err := r.collection.InsertOne(ctx, alert); err != nil {
		return fmt.Errorf("failed to insert inventory alert: %w", err)
	}
	return nil
}

func (r *mongoAlertRepository) FindUnresolved(ctx context.Context) ([]*model.InventoryAlert, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"resolved": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find alerts: %w", err)
	}
	defer cursor.Close(ctx)

	alerts := make([]*model.InventoryAlert, 0)
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return alerts, nil
}
