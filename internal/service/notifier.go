package service

import (
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks printshop-orders/internal/service Notifier

const (
	EventOrderCreated   = "order_created"
	EventOrderUpdated   = "order_updated"
	EventItemAdvanced   = "item_advanced"
	EventOrderDelivered = "order_delivered"
)

// Event describes a committed change. Services publish it only after the
// unit of work has committed.
type Event struct {
	Type       string     `json:"type"`
	OrderID    uuid.UUID  `json:"order_id"`
	ItemID     *uuid.UUID `json:"item_id,omitempty"`
	BranchID   uuid.UUID  `json:"branch_id"`
	Stage      string     `json:"stage"`
	ItemReady  *bool      `json:"item_ready,omitempty"`
	ActorID    uuid.UUID  `json:"actor_id"`
	ActorName  string     `json:"actor_name"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Notifier fans committed events out to interested clients.
type Notifier interface {
	Notify(event Event)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}
