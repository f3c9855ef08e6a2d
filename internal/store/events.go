package store

import (
	"encoding/json"
	"time"

	"github.com/example/pterohub-shop/internal/domain/purchase"
	"github.com/google/uuid"
)

// Event types published on repository mutations.
const (
	EventProductCreated        = "ProductCreated"
	EventProductUpdated        = "ProductUpdated"
	EventProductDeleted        = "ProductDeleted"
	EventProductRestocked      = "ProductRestocked"
	EventPurchaseCreated       = "PurchaseCreated"
	EventPurchaseStatusChanged = "PurchaseStatusChanged"
)

// Event is the envelope published to Kafka. Data holds the serialized
// payload for the event type: the full product or purchase for created and
// updated events, the small payload structs below otherwise.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

func NewEvent(eventType string, payload any, at time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: at,
		Data:       data,
	}, nil
}

type ProductDeleted struct {
	ProductID string `json:"product_id"`
}

type ProductRestocked struct {
	ProductID string `json:"product_id"`
	Amount    int    `json:"amount"`
	Stock     int    `json:"stock"`
}

type PurchaseStatusChanged struct {
	PurchaseID    string          `json:"purchase_id"`
	OrderID       string          `json:"order_id"`
	From          purchase.Status `json:"from"`
	To            purchase.Status `json:"to"`
	CustomerEmail string          `json:"customer_email"`
}
