package iorderrepo

import (
	"context"

	"github.com/eeinoeyes/shopmax-api/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	// Insert creates the order header and returns it with its generated id.
	Insert(ctx context.Context, o order.Order) (*order.Order, error)

	// GetForUpdate loads an order header with a row lock so a status check
	// and the following transition are race-free. Returns
	// order.ErrOrderNotFound if the row is absent.
	GetForUpdate(ctx context.Context, id int64) (*order.Order, error)

	// UpdateStatus transitions order_status and bumps updated_at.
	UpdateStatus(ctx context.Context, id int64, status order.Status) error

	// Query retrieves order headers matching the filter, order_date DESC.
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)

	// Count returns the number of orders matching the filter, ignoring
	// limit/offset.
	Count(ctx context.Context, filter *order.QueryOrdersModel) (int64, error)

	// GetStatus returns just the status of an order.
	GetStatus(ctx context.Context, id int64) (order.Status, error)

	// Delete removes an order header; lines go with it by FK cascade.
	Delete(ctx context.Context, id int64) error
}
