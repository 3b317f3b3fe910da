package service

import (
	"context"
	"errors"
	"testing"

	"hotelops/internal/bookings/validator"
	"hotelops/internal/events"
	inventoryrepo "hotelops/internal/inventory/repository"
	inventoryservice "hotelops/internal/inventory/service"
	"hotelops/internal/store/memory"
	"hotelops/pkg/config"
	apperrors "hotelops/pkg/errors"
	"hotelops/pkg/logger"
	"hotelops/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var (
	receptionist = model.Actor{ID: "desk-1", Role: model.RoleReceptionist}
	manager      = model.Actor{ID: "mgr-1", Role: model.RoleManager}
	guest        = model.Actor{ID: "guest-1", Role: model.RoleGuest}
)

// failingLedger rejects every append, standing in for a database error in
// the middle of a deduction.
type failingLedger struct {
	inventoryrepo.LedgerRepository
}

func (failingLedger) Append(context.Context, *model.InventoryLedgerEntry) error {
	return errors.New("ledger write failed")
}

type LifecycleSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memory.Store
	events *events.Recorder
	svc    BookingService
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.events = events.NewRecorder()
	s.svc = s.newService(s.store.Ledger())

	s.Require().NoError(s.store.Load(s.ctx, memory.Fixtures{
		Rooms: []model.Room{
			{ID: "R-101", Number: "101", Guests: 2, Price: decimal.NewFromInt(100)},
			{ID: "R-102", Number: "102", Guests: 2, Price: decimal.NewFromInt(100)},
			{ID: "R-201", Number: "201", Guests: 4, Price: decimal.NewFromInt(180)},
			{ID: "R-900", Number: "900", Guests: 2, Price: decimal.NewFromInt(90), Status: model.RoomMaintenance},
		},
		Items: []model.InventoryItem{
			{ID: "towel", Name: "Bath towel", LowStockThreshold: 10},
			{ID: "kit", Name: "Amenity kit", LowStockThreshold: 1},
		},
		Assignments: []model.RoomInventoryAssignment{
			{RoomID: "R-101", ItemID: "towel", CurrentQuantity: 4},
			{RoomID: "R-102", ItemID: "towel", CurrentQuantity: 2},
			{RoomID: "R-201", ItemID: "kit", CurrentQuantity: 2},
		},
		Stock: map[string]int{"towel": 12, "kit": 5},
	}))
}

func (s *LifecycleSuite) newService(ledger inventoryrepo.LedgerRepository) BookingService {
	log := logger.Discard()
	cfg := &config.Config{Log: log}
	engine := inventoryservice.NewDeductionEngine(s.store.Assignments(), s.store.Warehouse(), s.store.Items(), ledger, log)
	alerts := inventoryservice.NewAlertRecorder(s.store.Alerts(), s.events, log)
	return NewBookingService(
		s.store.Bookings(),
		s.store.Rooms(),
		engine,
		alerts,
		s.events,
		s.store,
		validator.NewBookingValidator(log),
		cfg,
	)
}

func (s *LifecycleSuite) booking(id, roomID string, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		BookingID:  id,
		RoomID:     roomID,
		GuestName:  "Ada Lovelace",
		GuestEmail: "ada@example.com",
		CheckIn:    model.NewDate(2026, 7, 1),
		CheckOut:   model.NewDate(2026, 7, 3),
		Guests:     2,
		TotalPrice: decimal.NewFromInt(200),
		Status:     status,
	}
}

func (s *LifecycleSuite) create(id, roomID string, status model.BookingStatus) *model.TransitionResult {
	res, err := s.svc.Create(s.ctx, receptionist, s.booking(id, roomID, status))
	s.Require().NoError(err)
	return res
}

func (s *LifecycleSuite) transition(id string, status model.BookingStatus) (*model.TransitionResult, error) {
	return s.svc.Transition(s.ctx, receptionist, model.TransitionRequest{BookingID: id, NewStatus: &status})
}

func (s *LifecycleSuite) stock(itemID string) int {
	st, err := s.store.Warehouse().FindByItemID(s.ctx, itemID)
	s.Require().NoError(err)
	return st.Quantity
}

func (s *LifecycleSuite) roomStatus(roomID string) model.RoomStatus {
	room, err := s.store.Rooms().FindByID(s.ctx, roomID)
	s.Require().NoError(err)
	return room.Status
}

func (s *LifecycleSuite) ledgerFor(bookingID string) []*model.InventoryLedgerEntry {
	entries, err := s.store.Ledger().FindByBookingID(s.ctx, bookingID)
	s.Require().NoError(err)
	return entries
}

func (s *LifecycleSuite) requireCode(err error, code string) {
	s.Require().Error(err)
	s.Require().Truef(apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func (s *LifecycleSuite) TestWalkInDeductsOnCreate() {
	res := s.create("WALKIN-1", "R-201", model.BookingCheckedIn)

	s.Require().NotNil(res.Inventory)
	s.Equal(1, res.Inventory.ItemsDeducted)
	s.Empty(res.Inventory.Errors)
	s.Empty(res.Inventory.Alerts, "3 left is above threshold 1")
	s.Equal(model.RoomBooked, res.RoomStatus)

	s.Equal(3, s.stock("kit"))
	s.Equal(model.RoomBooked, s.roomStatus("R-201"))

	entries := s.ledgerFor("WALKIN-1")
	s.Require().Len(entries, 1)
	s.Equal(-2, entries[0].Delta)
	s.Equal(3, entries[0].ResultingLevel)
	s.Equal("desk-1", entries[0].Actor)

	alerts, err := s.store.Alerts().FindUnresolved(s.ctx)
	s.Require().NoError(err)
	s.Empty(alerts)
	s.Len(s.events.OfType(events.TypeBookingCreated), 1)
}

func (s *LifecycleSuite) TestPendingCreateDoesNotDeduct() {
	res := s.create("BK-1", "R-101", model.BookingPending)

	s.Nil(res.Inventory)
	s.Equal(12, s.stock("towel"))
	s.Equal(model.RoomBooked, s.roomStatus("R-101"))
}

func (s *LifecycleSuite) TestConfirmThenCheckInDeductsOnce() {
	s.create("BK-1", "R-101", model.BookingPending)

	confirmed, err := s.transition("BK-1", model.BookingConfirmed)
	s.Require().NoError(err)
	s.Require().NotNil(confirmed.Inventory)
	s.Equal(1, confirmed.Inventory.ItemsDeducted)
	s.Equal(8, s.stock("towel"))

	checkedIn, err := s.svc.CheckIn(s.ctx, receptionist, "BK-1")
	s.Require().NoError(err)
	s.Nil(checkedIn.Inventory)
	s.Contains(checkedIn.Warnings, warnAlreadyDeducted)
	s.Equal(model.BookingCheckedIn, checkedIn.Booking.Status)

	s.Equal(8, s.stock("towel"))
	s.Len(s.ledgerFor("BK-1"), 1)
}

func (s *LifecycleSuite) TestCheckInFromPendingDeducts() {
	s.create("BK-1", "R-101", model.BookingPending)

	res, err := s.svc.CheckIn(s.ctx, receptionist, "bk-1")
	s.Require().NoError(err)
	s.Require().NotNil(res.Inventory)
	s.Equal(1, res.Inventory.ItemsDeducted)
	s.Equal(model.BookingPending, res.PreviousStatus)
	s.Equal(8, s.stock("towel"))
}

func (s *LifecycleSuite) TestCrossingThresholdRaisesAlertAfterCommit() {
	s.create("BK-1", "R-101", model.BookingPending)

	res, err := s.transition("BK-1", model.BookingConfirmed)
	s.Require().NoError(err)
	s.Require().Len(res.Inventory.Alerts, 1)

	alerts, err := s.store.Alerts().FindUnresolved(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(alerts, 1)
	s.Equal(model.AlertLowStock, alerts[0].Type)
	s.Equal(model.SeverityWarning, alerts[0].Severity)
	s.Equal("towel", alerts[0].ItemID)
	s.Len(s.events.OfType(events.TypeAlertRaised), 1)
}

func (s *LifecycleSuite) TestInsufficientStockIsSoftFailure() {
	s.Require().NoError(s.store.Warehouse().SetQuantity(s.ctx, "towel", 1))
	s.create("BK-1", "R-102", model.BookingPending)

	res, err := s.svc.CheckIn(s.ctx, receptionist, "BK-1")
	s.Require().NoError(err)
	s.Equal(model.BookingCheckedIn, res.Booking.Status)
	s.Equal(0, res.Inventory.ItemsDeducted)
	s.Require().Len(res.Inventory.Failed, 1)
	s.Equal(model.FailureInsufficientStock, res.Inventory.Failed[0].Reason)
	s.Contains(res.Warnings, "towel: insufficient stock: available 1, required 2")
	s.Equal(1, s.stock("towel"))
}

func (s *LifecycleSuite) TestLedgerFailureRollsBackTransition() {
	s.create("BK-1", "R-101", model.BookingPending)
	s.Require().NoError(s.store.Rooms().UpdateStatus(s.ctx, "R-101", model.RoomAvailable))

	broken := s.newService(failingLedger{s.store.Ledger()})
	status := model.BookingConfirmed
	_, err := broken.Transition(s.ctx, receptionist, model.TransitionRequest{BookingID: "BK-1", NewStatus: &status})
	s.requireCode(err, apperrors.CodeInternal)

	b, err := s.svc.GetByBookingID(s.ctx, "BK-1")
	s.Require().NoError(err)
	s.Equal(model.BookingPending, b.Status)
	s.Equal(model.RoomAvailable, s.roomStatus("R-101"), "room update must be undone")
	s.Equal(12, s.stock("towel"), "warehouse decrement must be undone")
	s.Empty(s.ledgerFor("BK-1"))
	s.Empty(s.events.OfType(events.TypeBookingTransitioned))
}

func (s *LifecycleSuite) TestTerminalBookingsAreImmutable() {
	s.create("BK-1", "R-101", model.BookingPending)
	res, err := s.transition("BK-1", model.BookingCancelled)
	s.Require().NoError(err)
	s.Equal(model.RoomAvailable, res.RoomStatus)

	_, err = s.svc.CheckIn(s.ctx, receptionist, "BK-1")
	s.requireCode(err, apperrors.CodeConflict)

	_, err = s.transition("BK-1", model.BookingConfirmed)
	s.requireCode(err, apperrors.CodeConflict)

	_, err = s.transition("BK-1", model.BookingCancelled)
	s.requireCode(err, apperrors.CodeConflict)

	_, err = s.svc.CheckOut(s.ctx, receptionist, "BK-1")
	s.requireCode(err, apperrors.CodeConflict)

	b, err := s.svc.GetByBookingID(s.ctx, "BK-1")
	s.Require().NoError(err)
	s.Equal(model.BookingCancelled, b.Status)
	s.Equal(model.RoomAvailable, s.roomStatus("R-101"))
	s.Equal(12, s.stock("towel"))
	s.Empty(s.ledgerFor("BK-1"))
}

func (s *LifecycleSuite) TestSameStatusIsNoOp() {
	s.create("BK-1", "R-101", model.BookingPending)
	_, err := s.transition("BK-1", model.BookingConfirmed)
	s.Require().NoError(err)
	published := len(s.events.Events())

	res, err := s.transition("BK-1", model.BookingConfirmed)
	s.Require().NoError(err)
	s.True(res.NoOp)
	s.Nil(res.Inventory)
	s.Equal(8, s.stock("towel"))
	s.Len(s.events.Events(), published)
}

func (s *LifecycleSuite) TestIllegalTransitionRejected() {
	s.create("BK-1", "R-101", model.BookingPending)

	_, err := s.transition("BK-1", model.BookingCompleted)
	s.requireCode(err, apperrors.CodeConflict)

	_, err = s.svc.CheckOut(s.ctx, receptionist, "BK-1")
	s.requireCode(err, apperrors.CodeConflict)
}

func (s *LifecycleSuite) TestCheckOutReleasesRoom() {
	s.create("BK-1", "R-101", model.BookingCheckedIn)

	res, err := s.svc.CheckOut(s.ctx, receptionist, "BK-1")
	s.Require().NoError(err)
	s.Equal(model.BookingCompleted, res.Booking.Status)
	s.Equal(model.RoomAvailable, s.roomStatus("R-101"))
	s.Nil(res.Inventory)
}

func (s *LifecycleSuite) TestRoomReassignment() {
	s.create("BK-1", "R-101", model.BookingPending)
	room := "R-102"
	status := model.BookingConfirmed

	res, err := s.svc.Transition(s.ctx, receptionist, model.TransitionRequest{
		BookingID: "BK-1",
		NewStatus: &status,
		NewRoomID: &room,
	})
	s.Require().NoError(err)
	s.Equal("R-102", res.Booking.RoomID)
	s.Equal(model.RoomAvailable, s.roomStatus("R-101"))
	s.Equal(model.RoomBooked, s.roomStatus("R-102"))
	s.Require().NotNil(res.Inventory)
	s.Equal("R-102", res.Inventory.RoomID)
	s.Equal(10, s.stock("towel"), "deducts the new room's two towels")

	back := "R-101"
	res, err = s.svc.Transition(s.ctx, receptionist, model.TransitionRequest{BookingID: "BK-1", NewRoomID: &back})
	s.Require().NoError(err)
	s.Nil(res.Inventory, "already occupying, no second deduction")
	s.Equal(model.RoomAvailable, s.roomStatus("R-102"))
	s.Equal(model.RoomBooked, s.roomStatus("R-101"))
	s.Equal(10, s.stock("towel"))
}

func (s *LifecycleSuite) TestReassignmentChecksTargetRoom() {
	s.create("BK-1", "R-101", model.BookingPending)

	missing := "R-404"
	_, err := s.svc.Transition(s.ctx, receptionist, model.TransitionRequest{BookingID: "BK-1", NewRoomID: &missing})
	s.requireCode(err, apperrors.CodeNotFound)

	maintenance := "R-900"
	_, err = s.svc.Transition(s.ctx, receptionist, model.TransitionRequest{BookingID: "BK-1", NewRoomID: &maintenance})
	s.requireCode(err, apperrors.CodeConflict)
}

func (s *LifecycleSuite) TestCreateIgnoresRoomStatus() {
	res := s.create("BK-9", "R-900", model.BookingPending)

	s.Equal(model.RoomBooked, res.RoomStatus)
	s.Equal(model.RoomBooked, s.roomStatus("R-900"))
}

func (s *LifecycleSuite) TestRoleRules() {
	s.create("BK-1", "R-101", model.BookingPending)

	_, err := s.svc.Transition(s.ctx, guest, model.TransitionRequest{BookingID: "BK-1", NewStatus: statusPtr(model.BookingConfirmed)})
	s.requireCode(err, apperrors.CodeForbidden)

	_, err = s.svc.Create(s.ctx, guest, s.booking("WALKIN-2", "R-201", model.BookingCheckedIn))
	s.requireCode(err, apperrors.CodeForbidden)

	err = s.svc.Delete(s.ctx, receptionist, "BK-1")
	s.requireCode(err, apperrors.CodeForbidden)

	res, err := s.svc.Transition(s.ctx, guest, model.TransitionRequest{BookingID: "BK-1", NewStatus: statusPtr(model.BookingCancelled)})
	s.Require().NoError(err)
	s.Equal(model.BookingCancelled, res.Booking.Status)
}

func (s *LifecycleSuite) TestCreateValidation() {
	b := s.booking("BK-1", "R-101", model.BookingPending)
	b.Guests = 3
	_, err := s.svc.Create(s.ctx, receptionist, b)
	s.requireCode(err, apperrors.CodeValidation)

	_, err = s.svc.Create(s.ctx, receptionist, s.booking("BK-2", "R-404", model.BookingPending))
	s.requireCode(err, apperrors.CodeNotFound)

	_, err = s.svc.Create(s.ctx, receptionist, s.booking("BK-3", "R-101", model.BookingCompleted))
	s.requireCode(err, apperrors.CodeValidation)

	s.create("BK-4", "R-101", model.BookingPending)
	_, err = s.svc.Create(s.ctx, receptionist, s.booking("bk-4", "R-102", model.BookingPending))
	s.requireCode(err, apperrors.CodeConflict)
	s.Equal(model.RoomAvailable, s.roomStatus("R-102"), "duplicate create must not touch the room")
}

func (s *LifecycleSuite) TestTransitionRequiresInput() {
	_, err := s.svc.Transition(s.ctx, receptionist, model.TransitionRequest{BookingID: "BK-1"})
	s.requireCode(err, apperrors.CodeInvalidInput)

	_, err = s.transition("BK-404", model.BookingConfirmed)
	s.requireCode(err, apperrors.CodeNotFound)
}

func (s *LifecycleSuite) TestDeleteReleasesHeldRoom() {
	s.create("BK-1", "R-101", model.BookingConfirmed)
	s.Require().NoError(s.svc.Delete(s.ctx, manager, "BK-1"))
	s.Equal(model.RoomAvailable, s.roomStatus("R-101"))

	_, err := s.svc.GetByBookingID(s.ctx, "BK-1")
	s.requireCode(err, apperrors.CodeNotFound)
	s.Len(s.events.OfType(events.TypeBookingDeleted), 1)
}

func (s *LifecycleSuite) TestDeleteApprovedKeepsRoomStatus() {
	s.create("BK-1", "R-101", model.BookingPending)
	_, err := s.transition("BK-1", model.BookingApproved)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, manager, "BK-1"))
	s.Equal(model.RoomBooked, s.roomStatus("R-101"))
}

func statusPtr(st model.BookingStatus) *model.BookingStatus {
	return &st
}
