package purchase

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidStatus        = errors.New("unknown purchase status")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists all statuses in the order the dashboard reports them.
var Statuses = []Status{
	StatusPending,
	StatusPaid,
	StatusProcessing,
	StatusCompleted,
	StatusCancelled,
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodQRIS  PaymentMethod = "QRIS"
	MethodDANA  PaymentMethod = "DANA"
	MethodGOPAY PaymentMethod = "GOPAY"
)

// PaymentMethods lists all methods in the order the dashboard reports them.
var PaymentMethods = []PaymentMethod{MethodQRIS, MethodDANA, MethodGOPAY}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodQRIS, MethodDANA, MethodGOPAY:
		return true
	}
	return false
}

// strictTransitions is the optional transition table. The repository is
// permissive by default; admins may override any status manually.
var strictTransitions = map[Status][]Status{
	StatusPending:    {StatusPaid, StatusCancelled},
	StatusPaid:       {StatusProcessing, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {}, // terminal
	StatusCancelled:  {}, // terminal
}

// CanTransition reports whether the strict table allows moving from one
// status to another. Re-setting the current status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range strictTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionError describes a rejected strict-mode transition.
func TransitionError(from, to Status) error {
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, from, to)
}

// Purchase is an order record. ProductName and Price are snapshotted at
// purchase time and never change, even if the product is later edited or
// deleted. PaidAt and CompletedAt are stamped exactly once, when the status
// first reaches the corresponding state.
type Purchase struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"order_id"`
	ProductID     string        `json:"product_id"`
	ProductName   string        `json:"product_name"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	CustomerPhone string        `json:"customer_phone"`
	Price         int           `json:"price"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}
