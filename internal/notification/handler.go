package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/pterohub-shop/internal/domain/purchase"
	"github.com/example/pterohub-shop/internal/email"
	"github.com/example/pterohub-shop/internal/store"
)

// Handler turns store events into customer emails.
type Handler struct {
	emailService *email.Service
}

func NewHandler(emailSvc *email.Service) *Handler {
	return &Handler{emailService: emailSvc}
}

// HandleEvent processes one event from Kafka. Events other than
// PurchaseCreated are ignored.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if event.Type != store.EventPurchaseCreated {
		return nil
	}
	return h.handlePurchaseCreated(event)
}

func (h *Handler) handlePurchaseCreated(event store.Event) error {
	var p purchase.Purchase
	if err := json.Unmarshal(event.Data, &p); err != nil {
		log.Printf("[Notifier] Failed to unmarshal purchase: %v", err)
		return err
	}

	log.Printf("[Notifier] Sending confirmation for order %s to %s", p.OrderID, p.CustomerEmail)

	err := h.emailService.SendPurchaseConfirmation(
		p.CustomerEmail,
		p.OrderID,
		p.ProductName,
		p.Price,
		string(p.PaymentMethod),
	)
	if err != nil {
		log.Printf("[Notifier] Failed to send confirmation for order %s: %v", p.OrderID, err)
		return err
	}
	return nil
}
