package orderstatus

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eeinoeyes/shopmax-api/internal/service/models/order"
	"github.com/eeinoeyes/shopmax-api/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	OrderStatus(ctx context.Context, orderID int64) (order.Status, error)
}

// Response carries just the order status.
type Response struct {
	OrderStatus order.Status `json:"orderStatus"`
}

// OrderStatus handles the order status read.
func OrderStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.Error{Message: "invalid order id"})

		return
	}

	status, err := service.OrderStatus(r.Context(), orderID)
	if err != nil {
		response.WriteError(w, err)

		return
	}

	response.WriteJSON(w, http.StatusOK, Response{OrderStatus: status})
}
