package redis

import (
	"fmt"
	"time"
)

// TTLStatusCache bounds how long a cached order status may lag a write that
// bypassed the cache.
const TTLStatusCache = 10 * time.Minute

// KeyOrderStatus is the cache key for an order's status.
func KeyOrderStatus(orderID int64) string {
	return fmt.Sprintf("shopmax:order:%d:status", orderID)
}
