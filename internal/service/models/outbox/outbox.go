package outbox

import (
	"time"
)

// Routing keys for order lifecycle events drained from the outbox.
const (
	RoutingKeyOrderCreated   = "order.created"
	RoutingKeyOrderCancelled = "order.cancelled"
)

// Message is an order event waiting to be published to RabbitMQ. Rows are
// inserted in the same transaction as the workflow that produced them and
// deleted once the worker has published them.
type Message struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// OrderCreatedEvent is the payload for order.created messages.
type OrderCreatedEvent struct {
	OrderID    int64 `json:"orderId"`
	UserID     int64 `json:"userId"`
	TotalPrice int64 `json:"totalPrice"`
}

// OrderCancelledEvent is the payload for order.cancelled messages.
type OrderCancelledEvent struct {
	OrderID int64 `json:"orderId"`
	UserID  int64 `json:"userId"`
}
