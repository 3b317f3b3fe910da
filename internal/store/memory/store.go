// Package memory is an in-process implementation of every repository and of
// the transaction manager. It backs STORE_BACKEND=memory and the service
// tests.
//
// Transactions are serialized: ExecuteTransaction holds a store-wide lock for
// the whole unit of work, snapshots all data on begin and restores the
// snapshot if the unit of work returns an error. Operations issued outside a
// transaction take the same lock for their own duration.
package memory

import (
	"context"
	"fmt"
	"sync"

	mongotx "hotelops/pkg/db/mongo"
	apperrors "hotelops/pkg/errors"
	"hotelops/pkg/model"
)

type txKey struct{}

type data struct {
	rooms       map[string]model.Room
	bookings    map[string]model.Booking
	items       map[string]model.InventoryItem
	assignments map[string]model.RoomInventoryAssignment
	warehouse   map[string]model.WarehouseStock
	ledger      []model.InventoryLedgerEntry
	alerts      []model.InventoryAlert
}

func newData() *data {
	return &data{
		rooms:       map[string]model.Room{},
		bookings:    map[string]model.Booking{},
		items:       map[string]model.InventoryItem{},
		assignments: map[string]model.RoomInventoryAssignment{},
		warehouse:   map[string]model.WarehouseStock{},
	}
}

func (d *data) clone() *data {
	c := &data{
		rooms:       make(map[string]model.Room, len(d.rooms)),
		bookings:    make(map[string]model.Booking, len(d.bookings)),
		items:       make(map[string]model.InventoryItem, len(d.items)),
		assignments: make(map[string]model.RoomInventoryAssignment, len(d.assignments)),
		warehouse:   make(map[string]model.WarehouseStock, len(d.warehouse)),
		ledger:      append([]model.InventoryLedgerEntry(nil), d.ledger...),
		alerts:      append([]model.InventoryAlert(nil), d.alerts...),
	}
	for k, v := range d.rooms {
		c.rooms[k] = v
	}
	for k, v := range d.bookings {
		c.bookings[k] = v
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.assignments {
		c.assignments[k] = v
	}
	for k, v := range d.warehouse {
		c.warehouse[k] = v
	}
	return c
}

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *data
}

func NewStore() *Store {
	return &Store{data: newData()}
}

var _ mongotx.TransactionManager = (*Store)(nil)

// ExecuteTransaction runs fn atomically. Nested calls join the outer unit of
// work.
func (s *Store) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// read runs fn under a read lock, serialized against open transactions when
// ctx is not part of one.
func (s *Store) read(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}
