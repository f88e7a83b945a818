package listorders

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/eeinoeyes/shopmax-api/internal/service/services/ordersvc"
	"github.com/eeinoeyes/shopmax-api/internal/transport/http/middleware/auth"
	"github.com/eeinoeyes/shopmax-api/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	ListOrders(ctx context.Context, q ordersvc.ListOrdersQuery) (*ordersvc.OrderPage, error)
}

// Response is the listing body.
type Response struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Orders     any                 `json:"orders"`
	Pagination ordersvc.Pagination `json:"pagination"`
}

const dateLayout = "2006-01-02"

// parseDateRange turns startDate/endDate query params into an inclusive
// range: [startDate 00:00:00, endDate 23:59:59]. Both must be present for the
// range to apply, mirroring the filter semantics of the storage layer.
func parseDateRange(startRaw, endRaw string) (*time.Time, *time.Time, bool) {
	if startRaw == "" || endRaw == "" {
		return nil, nil, true
	}

	start, err := time.ParseInLocation(dateLayout, startRaw, time.Local)
	if err != nil {
		return nil, nil, false
	}

	end, err := time.ParseInLocation(dateLayout, endRaw, time.Local)
	if err != nil {
		return nil, nil, false
	}
	end = end.Add(24*time.Hour - time.Second)

	return &start, &end, true
}

// ListOrders handles the order history listing request.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		response.WriteJSON(w, http.StatusUnauthorized, response.Error{Message: "not authenticated"})

		return
	}

	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	start, end, ok := parseDateRange(query.Get("startDate"), query.Get("endDate"))
	if !ok {
		response.WriteJSON(w, http.StatusBadRequest, response.Error{Message: "invalid date range"})

		return
	}

	result, err := service.ListOrders(r.Context(), ordersvc.ListOrdersQuery{
		UserID:    userID,
		Page:      page,
		Limit:     limit,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		response.WriteError(w, err)

		return
	}

	response.WriteJSON(w, http.StatusOK, Response{
		Success:    true,
		Message:    "order list retrieved successfully",
		Orders:     result.Orders,
		Pagination: result.Pagination,
	})
}
