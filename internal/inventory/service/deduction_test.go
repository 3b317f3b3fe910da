package service

import (
	"context"
	"errors"
	"testing"

	"hotelops/internal/events"
	"hotelops/internal/inventory/repository"
	"hotelops/internal/store/memory"
	apperrors "hotelops/pkg/errors"
	"hotelops/pkg/logger"
	"hotelops/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type failingAlerts struct {
	repository.AlertRepository
}

func (failingAlerts) Insert(context.Context, *model.InventoryAlert) error {
	return errors.New("alerts collection unavailable")
}

type DeductionSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memory.Store
	events *events.Recorder
	engine *DeductionEngine
}

func TestDeductionSuite(t *testing.T) {
	suite.Run(t, new(DeductionSuite))
}

func (s *DeductionSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.events = events.NewRecorder()
	s.engine = NewDeductionEngine(s.store.Assignments(), s.store.Warehouse(), s.store.Items(), s.store.Ledger(), logger.Discard())

	s.Require().NoError(s.store.Load(s.ctx, memory.Fixtures{
		Rooms: []model.Room{
			{ID: "R-1", Guests: 2, Price: decimal.NewFromInt(100)},
			{ID: "R-2", Guests: 2, Price: decimal.NewFromInt(100)},
		},
		Items: []model.InventoryItem{
			{ID: "towel", Name: "Bath towel", LowStockThreshold: 10},
			{ID: "soap", Name: "Soap bar", LowStockThreshold: 5},
		},
		Assignments: []model.RoomInventoryAssignment{
			{RoomID: "R-1", ItemID: "towel", CurrentQuantity: 4},
			{RoomID: "R-1", ItemID: "soap", CurrentQuantity: 3},
			{RoomID: "R-1", ItemID: "robe", CurrentQuantity: 1},
			{RoomID: "R-1", ItemID: "slippers", CurrentQuantity: 0},
		},
		Stock: map[string]int{"towel": 12, "soap": 2},
	}))
}

func (s *DeductionSuite) deduct(req model.DeductionRequest) *model.DeductionResult {
	var result *model.DeductionResult
	err := s.store.ExecuteTransaction(s.ctx, func(txCtx context.Context) error {
		res, err := s.engine.Deduct(txCtx, req)
		result = res
		return err
	})
	s.Require().NoError(err)
	return result
}

func (s *DeductionSuite) stock(itemID string) int {
	st, err := s.store.Warehouse().FindByItemID(s.ctx, itemID)
	s.Require().NoError(err)
	return st.Quantity
}

func (s *DeductionSuite) TestMixedOutcome() {
	res := s.deduct(model.DeductionRequest{RoomID: "R-1", BookingID: "BK-1", Reason: "guest check-in", Actor: "desk-1"})

	s.Equal(1, res.ItemsDeducted)
	s.Require().Len(res.Succeeded, 1)
	s.Equal("towel", res.Succeeded[0].ItemID)
	s.Equal(12, res.Succeeded[0].PreviousLevel)
	s.Equal(8, res.Succeeded[0].NewLevel)

	s.Require().Len(res.Failed, 2)
	s.Equal(model.FailureItemNotInWarehouse, res.Failed[0].Reason)
	s.Equal("robe: item not found in warehouse", res.Errors[0])
	s.Equal(model.FailureInsufficientStock, res.Failed[1].Reason)
	s.Equal("soap: insufficient stock: available 2, required 3", res.Errors[1])

	s.Equal(8, s.stock("towel"))
	s.Equal(2, s.stock("soap"), "stock is never driven negative")

	s.Require().Len(res.Alerts, 1)
	s.Equal(model.AlertLowStock, res.Alerts[0].Type)

	entries, err := s.store.Ledger().FindByBookingID(s.ctx, "BK-1")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(-4, entries[0].Delta)
	s.Equal(8, entries[0].ResultingLevel)
	s.Equal("guest check-in", entries[0].Reason)
	s.Equal("Deducted 4 x Bath towel for room R-1", entries[0].Note)
}

func (s *DeductionSuite) TestNoAssignments() {
	res := s.deduct(model.DeductionRequest{RoomID: "R-2"})

	s.Equal(0, res.ItemsDeducted)
	s.Empty(res.Errors)
	s.Equal("No inventory assigned to room R-2", res.Message)
}

func (s *DeductionSuite) TestDefaultsReason() {
	s.deduct(model.DeductionRequest{RoomID: "R-1"})

	entries, err := s.store.Ledger().FindByItemID(s.ctx, "towel")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(defaultDeductionReason, entries[0].Reason)
	s.Nil(entries[0].BookingID)
}

func (s *DeductionSuite) TestThresholdCrossings() {
	tests := []struct {
		name     string
		before   int
		qty      int
		wantType model.AlertType
	}{
		{"12 to 8 is low stock", 12, 4, model.AlertLowStock},
		{"1 to 0 is out of stock", 1, 1, model.AlertOutOfStock},
		{"20 to 15 raises nothing", 20, 5, ""},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Require().NoError(s.store.Warehouse().SetQuantity(s.ctx, "towel", tt.before))
			s.Require().NoError(s.store.Assignments().Upsert(s.ctx, &model.RoomInventoryAssignment{
				RoomID: "R-2", ItemID: "towel", CurrentQuantity: tt.qty,
			}))

			res := s.deduct(model.DeductionRequest{RoomID: "R-2"})
			s.Equal(1, res.ItemsDeducted)
			if tt.wantType == "" {
				s.Empty(res.Alerts)
				return
			}
			s.Require().Len(res.Alerts, 1)
			s.Equal(tt.wantType, res.Alerts[0].Type)
		})
	}
}

func (s *DeductionSuite) TestStorageErrorAborts() {
	engine := NewDeductionEngine(s.store.Assignments(), s.store.Warehouse(), s.store.Items(), brokenLedger{}, logger.Discard())

	err := s.store.ExecuteTransaction(s.ctx, func(txCtx context.Context) error {
		_, err := engine.Deduct(txCtx, model.DeductionRequest{RoomID: "R-1"})
		return err
	})
	s.Require().Error(err)
	s.Equal(12, s.stock("towel"), "decrement rolled back with the transaction")
}

func (s *DeductionSuite) TestServiceDeductRoomInventory() {
	svc := NewInventoryService(
		s.store.Rooms(),
		s.engine,
		NewAlertRecorder(s.store.Alerts(), s.events, logger.Discard()),
		s.store,
		logger.Discard(),
	)

	_, err := svc.DeductRoomInventory(s.ctx, model.Actor{Role: model.RoleGuest}, model.DeductionRequest{RoomID: "R-1"})
	s.True(apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = svc.DeductRoomInventory(s.ctx, model.Actor{Role: model.RoleHousekeeping}, model.DeductionRequest{RoomID: " "})
	s.True(apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, err = svc.DeductRoomInventory(s.ctx, model.Actor{Role: model.RoleHousekeeping}, model.DeductionRequest{RoomID: "R-404"})
	s.True(apperrors.HasCode(err, apperrors.CodeNotFound))

	res, err := svc.DeductRoomInventory(s.ctx, model.Actor{ID: "hk-3", Role: model.RoleHousekeeping}, model.DeductionRequest{
		RoomID: "R-1",
		Reason: "  minibar   restock ",
	})
	s.Require().NoError(err)
	s.Equal(1, res.ItemsDeducted)

	entries, err := s.store.Ledger().FindByItemID(s.ctx, "towel")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("hk-3", entries[0].Actor)
	s.Equal("minibar restock", entries[0].Reason)

	alerts, err := s.store.Alerts().FindUnresolved(s.ctx)
	s.Require().NoError(err)
	s.Len(alerts, 1)
	s.Len(s.events.OfType(events.TypeAlertRaised), 1)
}

type brokenLedger struct {
	repository.LedgerRepository
}

func (brokenLedger) Append(context.Context, *model.InventoryLedgerEntry) error {
	return errors.New("write concern timeout")
}

func TestAlertRecorder_SwallowsInsertFailures(t *testing.T) {
	recorder := events.NewRecorder()
	r := NewAlertRecorder(failingAlerts{}, recorder, logger.Discard())

	r.Raise(context.Background(), []*model.InventoryAlert{
		EvaluateStockLevel("towel", 0, 10),
		nil,
	})

	require.Empty(t, recorder.Events(), "nothing is announced when the alert was not stored")
}
