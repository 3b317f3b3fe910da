package service

import (
	"context"
	"fmt"

	"hotelops/internal/events"
	"hotelops/internal/inventory/repository"
	"hotelops/pkg/logger"
	"hotelops/pkg/model"
)

// EvaluateStockLevel decides whether a warehouse level warrants an alert.
// It does not persist anything.
func EvaluateStockLevel(itemID string, newLevel, threshold int) *model.InventoryAlert {
	switch {
	case newLevel <= 0:
		return &model.InventoryAlert{
			ItemID:    itemID,
			Type:      model.AlertOutOfStock,
			Severity:  model.SeverityCritical,
			Level:     newLevel,
			Threshold: threshold,
			Message:   fmt.Sprintf("Item %s is out of stock", itemID),
		}
	case newLevel <= threshold:
		return &model.InventoryAlert{
			ItemID:    itemID,
			Type:      model.AlertLowStock,
			Severity:  model.SeverityWarning,
			Level:     newLevel,
			Threshold: threshold,
			Message:   fmt.Sprintf("Item %s is low on stock: %d left (threshold %d)", itemID, newLevel, threshold),
		}
	default:
		return nil
	}
}

// AlertRecorder persists alerts and announces them. Every failure is logged
// and swallowed.
type AlertRecorder struct {
	repo    repository.AlertRepository
	emitter events.Emitter
	log     *logger.Logger
}

func NewAlertRecorder(repo repository.AlertRepository, emitter events.Emitter, log *logger.Logger) *AlertRecorder {
	return &AlertRecorder{
		repo:    repo,
		emitter: emitter,
		log:     log,
	}
}

func (r *AlertRecorder) Raise(ctx context.Context, alerts []*model.InventoryAlert) {
	for _, alert := range alerts {
		if alert == nil {
			continue
		}
		if err := r.repo.Insert(ctx, alert); err != nil {
			r.log.Warn("Failed to record inventory alert",
				"item_id", alert.ItemID,
				"alert_type", alert.Type,
				"level", alert.Level,
				"error", err,
			)
			continue
		}

		r.log.Info("Inventory alert raised",
			"alert_id", alert.ID,
			"item_id", alert.ItemID,
			"alert_type", alert.Type,
			"severity", alert.Severity,
			"level", alert.Level,
		)
		r.emitter.Emit(ctx, events.NewAlertEvent(alert))
	}
}
