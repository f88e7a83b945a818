package ordersvc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/viper"

	"github.com/eeinoeyes/shopmax-api/internal/service/models/outbox"
)

func outboxDefaults() (exchange string, maxRetries int) {
	exchange = viper.GetString("rabbitmq.orders.exchange")
	if exchange == "" {
		exchange = "shopmax.orders"
	}

	maxRetries = viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	return exchange, maxRetries
}

// enqueueOrderCreated records an order.created event in the outbox inside the
// placement transaction, so the event commits or rolls back with the order.
func (s *OrderService) enqueueOrderCreated(
	ctx context.Context,
	work unitOfWork,
	orderID, userID, totalPrice int64,
	now time.Time,
) error {
	payload, err := json.Marshal(outbox.OrderCreatedEvent{
		OrderID:    orderID,
		UserID:     userID,
		TotalPrice: totalPrice,
	})
	if err != nil {
		return err
	}

	return s.enqueue(ctx, work, outbox.RoutingKeyOrderCreated, payload, now)
}

// enqueueOrderCancelled records an order.cancelled event inside the
// cancellation transaction.
func (s *OrderService) enqueueOrderCancelled(
	ctx context.Context,
	work unitOfWork,
	orderID, userID int64,
	now time.Time,
) error {
	payload, err := json.Marshal(outbox.OrderCancelledEvent{
		OrderID: orderID,
		UserID:  userID,
	})
	if err != nil {
		return err
	}

	return s.enqueue(ctx, work, outbox.RoutingKeyOrderCancelled, payload, now)
}

func (s *OrderService) enqueue(
	ctx context.Context,
	work unitOfWork,
	routingKey string,
	payload []byte,
	now time.Time,
) error {
	exchange, maxRetries := outboxDefaults()

	return work.OutboxRepository().Insert(ctx, outbox.Message{
		ExchangeName: exchange,
		RoutingKey:   routingKey,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   maxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	})
}
