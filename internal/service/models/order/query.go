package order

import "time"

// QueryOrdersModel represents filter parameters for querying a user's orders.
// StartDate/EndDate form an inclusive range over order_date; both must be set
// for the range to apply.
type QueryOrdersModel struct {
	UserID    int64      `json:"userId"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}
