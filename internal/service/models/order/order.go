package order

import (
	"errors"
	"time"

	"github.com/eeinoeyes/shopmax-api/internal/service/models/orderitem"
)

var (
	// ErrOrderNotFound is returned when the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrAlreadyCancelled is returned when cancellation is attempted on an
	// order whose status is already CANCEL. Distinct from ErrOrderNotFound so
	// a repeated cancel surfaces as a client error, not a missing row.
	ErrAlreadyCancelled = errors.New("order already cancelled")
)

// Order represents one customer order: the header plus its order lines.
// UserID is immutable after creation; Status is mutated only by the
// cancellation workflow.
type Order struct {
	ID         int64                 `json:"id"`
	UserID     int64                 `json:"userId"`
	OrderDate  time.Time             `json:"orderDate"`
	Status     Status                `json:"orderStatus"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	OrderItems []orderitem.OrderItem `json:"orderItems"`
}
