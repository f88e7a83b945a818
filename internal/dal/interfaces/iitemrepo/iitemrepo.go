package iitemrepo

import (
	"context"

	"github.com/eeinoeyes/shopmax-api/internal/service/models/item"
)

// IItemRepository is the stock ledger over the items table. Reserve and
// Release must only be called with the unit of work's transaction open:
// both are read-then-write on stock_number and rely on the row lock taken
// by the locking read.
type IItemRepository interface {
	// GetByID loads an item without locking. Returns item.ErrItemNotFound
	// if the row is absent.
	GetByID(ctx context.Context, id int64) (*item.Item, error)

	// Reserve locks the item row, checks stock_number >= count and decrements
	// it. Returns the locked item (for its price snapshot),
	// item.ErrItemNotFound or item.ErrInsufficientStock.
	Reserve(ctx context.Context, itemID, count int64) (*item.Item, error)

	// Release increments stock_number by count. Used only by cancellation;
	// no upper-bound check is applied.
	Release(ctx context.Context, itemID, count int64) error
}
