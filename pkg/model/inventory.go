package model

import "time"

type InventoryItem struct {
	ID                string `json:"id,omitempty" bson:"_id,omitempty"`
	Name              string `json:"name" bson:"name"`
	Unit              string `json:"unit" bson:"unit"`
	LowStockThreshold int    `json:"low_stock_threshold" bson:"low_stock_threshold"`
	ReorderQuantity   int    `json:"reorder_quantity" bson:"reorder_quantity"`
}

// RoomInventoryAssignment is the quantity of an item a room is provisioned
// with. It is consumed from the warehouse when the room becomes occupied.
type RoomInventoryAssignment struct {
	ID              string `json:"id,omitempty" bson:"_id,omitempty"`
	RoomID          string `json:"room_id" bson:"room_id"`
	ItemID          string `json:"item_id" bson:"item_id"`
	CurrentQuantity int    `json:"current_quantity" bson:"current_quantity"`
}

// WarehouseStock is the shared central pool for one item. Quantity is never negative.
type WarehouseStock struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	ItemID    string    `json:"item_id" bson:"item_id"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// InventoryLedgerEntry is an immutable record of one warehouse stock change.
type InventoryLedgerEntry struct {
	ID             string    `json:"id" bson:"_id"`
	ItemID         string    `json:"item_id" bson:"item_id"`
	Delta          int       `json:"delta" bson:"delta"`
	ResultingLevel int       `json:"resulting_level" bson:"resulting_level"`
	Reason         string    `json:"reason" bson:"reason"`
	BookingID      *string   `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	Note           string    `json:"note" bson:"note"`
	Actor          string    `json:"actor" bson:"actor"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

type AlertType string

const (
	AlertLowStock   AlertType = "low_stock"
	AlertOutOfStock AlertType = "out_of_stock"
)

type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

type InventoryAlert struct {
	ID        string        `json:"id" bson:"_id"`
	ItemID    string        `json:"item_id" bson:"item_id"`
	Type      AlertType     `json:"alert_type" bson:"alert_type"`
	Message   string        `json:"message" bson:"message"`
	Severity  AlertSeverity `json:"severity" bson:"severity"`
	Level     int           `json:"level" bson:"level"`
	Threshold int           `json:"threshold" bson:"threshold"`
	Resolved  bool          `json:"resolved" bson:"resolved"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

type DeductionRequest struct {
	RoomID    string `json:"room_id"`
	BookingID string `json:"booking_id,omitempty"`
	Reason    string `json:"reason"`
	Actor     string `json:"-"`
}

type ItemDeduction struct {
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name,omitempty"`
	Quantity      int    `json:"quantity"`
	PreviousLevel int    `json:"previous_level"`
	NewLevel      int    `json:"new_level"`
}

type DeductionFailureReason string

const (
	FailureItemNotInWarehouse DeductionFailureReason = "item_not_in_warehouse"
	FailureInsufficientStock  DeductionFailureReason = "insufficient_stock"
)

type ItemDeductionFailure struct {
	ItemID    string                 `json:"item_id"`
	Reason    DeductionFailureReason `json:"reason"`
	Available int                    `json:"available"`
	Required  int                    `json:"required"`
	Message   string                 `json:"message"`
}

// DeductionResult separates deducted items from per-item soft failures.
// A result with failures is still a successful deduction call.
type DeductionResult struct {
	RoomID        string                 `json:"room_id"`
	BookingID     string                 `json:"booking_id,omitempty"`
	ItemsDeducted int                    `json:"items_deducted"`
	Succeeded     []ItemDeduction        `json:"succeeded"`
	Failed        []ItemDeductionFailure `json:"failed"`
	Errors        []string               `json:"errors"`
	Alerts        []*InventoryAlert      `json:"alerts,omitempty"`
	Message       string                 `json:"message"`
}

func (r *DeductionResult) AddSuccess(d ItemDeduction) {
	r.Succeeded = append(r.Succeeded, d)
	r.ItemsDeducted = len(r.Succeeded)
}

func (r *DeductionResult) AddFailure(f ItemDeductionFailure) {
	r.Failed = append(r.Failed, f)
	r.Errors = append(r.Errors, f.Message)
}

func (r *DeductionResult) HasFailures() bool {
	return len(r.Failed) > 0
}
