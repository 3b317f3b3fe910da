package memory

import (
	"context"
	"fmt"
	"sort"

	roomserrors "hotelops/internal/rooms/errors"
	roomsrepo "hotelops/internal/rooms/repository"
	"hotelops/pkg/model"
)

type roomRepository struct {
	store *Store
}

func (s *Store) Rooms() roomsrepo.RoomRepository {
	return &roomRepository{store: s}
}

func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	if room.Status == "" {
		room.Status = model.RoomAvailable
	}
	return r.store.write(ctx, func(d *data) error {
		if _, exists := d.rooms[room.ID]; exists {
			return fmt.Errorf("%w: %s", roomserrors.ErrDuplicateRoom, room.ID)
		}
		d.rooms[room.ID] = *room
		return nil
	})
}

func (r *roomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.store.read(ctx, func(d *data) error {
		found, ok := d.rooms[id]
		if !ok {
			return roomserrors.ErrNotFound
		}
		room = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) UpdateStatus(ctx context.Context, id string, status model.RoomStatus) error {
	return r.store.write(ctx, func(d *data) error {
		room, ok := d.rooms[id]
		if !ok {
			return roomserrors.ErrNotFound
		}
		room.Status = status
		d.rooms[id] = room
		return nil
	})
}

func (r *roomRepository) FindAvailable(ctx context.Context, minGuests int, excludeIDs []string) ([]*model.Room, error) {
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	rooms := make([]*model.Room, 0)
	err := r.store.read(ctx, func(d *data) error {
		for id, room := range d.rooms {
			if _, skip := excluded[id]; skip {
				continue
			}
			if room.Guests < minGuests || room.Status == model.RoomMaintenance {
				continue
			}
			room := room
			rooms = append(rooms, &room)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rooms, func(i, j int) bool {
		if c := rooms[i].Price.Cmp(rooms[j].Price); c != 0 {
			return c < 0
		}
		return rooms[i].ID > rooms[j].ID
	})
	return rooms, nil
}
