// Package notifier relays inventory alert events from Kafka to the operations
// log, where on-call tooling picks them up.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hotelops/internal/events"
	"hotelops/pkg/kafka"
	"hotelops/pkg/logger"
	"hotelops/pkg/model"
)

const defaultDedupWindow = 1024

// alertEvent mirrors events.Event with a typed payload.
type alertEvent struct {
	ID         string               `json:"id"`
	Type       string               `json:"type"`
	Key        string               `json:"key"`
	OccurredAt time.Time            `json:"occurred_at"`
	Payload    model.InventoryAlert `json:"payload"`
}

type Stats struct {
	Notified   int64 `json:"notified"`
	Duplicates int64 `json:"duplicates"`
	Skipped    int64 `json:"skipped"`
}

// AlertNotifier handles inventory.alert_raised messages. Delivery is
// at-least-once, so recently seen event ids are dropped.
type AlertNotifier struct {
	log *logger.Logger

	mu     sync.Mutex
	seen   map[string]struct{}
	order  []string
	window int

	notified   atomic.Int64
	duplicates atomic.Int64
	skipped    atomic.Int64
}

func NewAlertNotifier(log *logger.Logger) *AlertNotifier {
	return &AlertNotifier{
		log:    log,
		seen:   make(map[string]struct{}),
		window: defaultDedupWindow,
	}
}

func (n *AlertNotifier) Handle(ctx context.Context, msg kafka.Message) error {
	if t := msg.GetEventType(); t != "" && t != events.TypeAlertRaised {
		n.skipped.Add(1)
		n.log.Debug("Ignoring non-alert event", "event_type", t, "offset", msg.Offset)
		return nil
	}

	var evt alertEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return kafka.NewPermanentError("decode alert event", err)
	}
	if evt.Payload.ItemID == "" {
		return kafka.NewPermanentError("alert event has no item", fmt.Errorf("event %s", evt.ID))
	}

	id := evt.ID
	if id == "" {
		id = msg.GetEventID()
	}
	if n.markSeen(id) {
		n.duplicates.Add(1)
		n.log.Debug("Duplicate alert event dropped", "event_id", id)
		return nil
	}

	alert := evt.Payload
	args := []any{
		"event_id", id,
		"alert_id", alert.ID,
		"item_id", alert.ItemID,
		"alert_type", alert.Type,
		"level", alert.Level,
		"threshold", alert.Threshold,
		"raised_at", evt.OccurredAt,
	}
	if alert.Severity == model.SeverityCritical {
		n.log.Error("Inventory alert: "+alert.Message, args...)
	} else {
		n.log.Warn("Inventory alert: "+alert.Message, args...)
	}
	n.notified.Add(1)
	return nil
}

// markSeen records id and reports whether it was already present.
func (n *AlertNotifier) markSeen(id string) bool {
	if id == "" {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.seen[id]; ok {
		return true
	}
	n.seen[id] = struct{}{}
	n.order = append(n.order, id)
	if len(n.order) > n.window {
		delete(n.seen, n.order[0])
		n.order = n.order[1:]
	}
	return false
}

func (n *AlertNotifier) Stats() Stats {
	return Stats{
		Notified:   n.notified.Load(),
		Duplicates: n.duplicates.Load(),
		Skipped:    n.skipped.Load(),
	}
}
