package item

import (
	"errors"
	"time"
)

var (
	// ErrItemNotFound is returned when a referenced catalog item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrInsufficientStock is returned when a reservation asks for more units
	// than the item currently has in stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// SellStatus is the catalog availability flag of an item.
type SellStatus string

const (
	SellStatusSell    SellStatus = "SELL"
	SellStatusSoldOut SellStatus = "SOLD_OUT"
)

// Item represents a stock-bearing catalog entry. Price is stored in the minor
// currency unit. StockNumber is mutated only by the stock ledger operations of
// the item repository, always inside an open transaction.
type Item struct {
	ID          int64      `json:"id"`
	ItemNm      string     `json:"itemNm"`
	Price       int64      `json:"price"`
	StockNumber int64      `json:"stockNumber"`
	ItemDetail  string     `json:"itemDetail"`
	SellStatus  SellStatus `json:"itemSellStatus"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
