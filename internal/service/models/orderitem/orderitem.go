package orderitem

import "time"

// OrderItem is one line of an order. OrderPrice is the snapshot of
// item.price * count taken at order time; later catalog price changes do not
// touch it. Lines are created once, atomically with the order header, and are
// immutable afterwards.
type OrderItem struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"orderId"`
	ItemID     int64     `json:"itemId"`
	Count      int64     `json:"count"`
	OrderPrice int64     `json:"orderPrice"`
	CreatedAt  time.Time `json:"createdAt"`

	// Enrichment for listing: current item name/price and the representative
	// image, filled by the query path only.
	ItemNm    string `json:"itemNm,omitempty"`
	ItemPrice int64  `json:"price,omitempty"`
	RepImgUrl string `json:"imgUrl,omitempty"`
}
