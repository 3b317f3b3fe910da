package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "hotelops/internal/bookings/errors"
	"hotelops/pkg/config"
	mongotx "hotelops/pkg/db/mongo"
	"hotelops/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByBookingID(ctx context.Context, bookingID string) (*model.Booking, error)
	// UpdateStatusAndRoom writes the new status and room only while the stored
	// status still equals from; otherwise it returns ErrStaleStatus.
	UpdateStatusAndRoom(ctx context.Context, bookingID string, from, to model.BookingStatus, roomID string) (*model.Booking, error)
	DeleteByBookingID(ctx context.Context, bookingID string) error
	// FindBlockingRoomIDs returns rooms held by a booking in an availability
	// blocking status whose stay overlaps stay.
	FindBlockingRoomIDs(ctx context.Context, stay model.DateRange) ([]string, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateBookingID, booking.BookingID)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) UpdateStatusAndRoom(ctx context.Context, bookingID string, from, to model.BookingStatus, roomID string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"booking_id": bookingID, "status": from}
	update := bson.M{
		"$set": bson.M{
			"status":     to,
			"room_id":    roomID,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		if _, err := r.FindByBookingID(ctx, bookingID); err != nil {
			return nil, err
		}
		return nil, bookingserrors.ErrStaleStatus
	}

	return r.FindByBookingID(ctx, bookingID)
}

func (r *mongoBookingRepository) DeleteByBookingID(ctx context.Context, bookingID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) FindBlockingRoomIDs(ctx context.Context, stay model.DateRange) ([]string, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":    bson.M{"$in": model.AvailabilityBlockingStatuses()},
		"check_in":  bson.M{"$lt": stay.CheckOut},
		"check_out": bson.M{"$gt": stay.CheckIn},
	}

	values, err := r.collection.Distinct(ctx, "room_id", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	roomIDs := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			roomIDs = append(roomIDs, id)
		}
	}
	return roomIDs, nil
}
