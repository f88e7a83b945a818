package iorderitemrepo

import (
	"context"

	"github.com/eeinoeyes/shopmax-api/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for the order item postgres repository.
type IOrderItemRepository interface {
	// BulkInsert inserts all lines of an order in one statement and returns
	// them with generated ids.
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)

	// Query retrieves order items matching the filter.
	Query(ctx context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error)

	// QueryEnriched retrieves order items joined with their item's current
	// name/price and the representative image, for listing.
	QueryEnriched(ctx context.Context, orderIds []int64) ([]orderitem.OrderItem, error)
}
