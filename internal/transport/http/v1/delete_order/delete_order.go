package deleteorder

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eeinoeyes/shopmax-api/internal/transport/http/middleware/metrics"
	"github.com/eeinoeyes/shopmax-api/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	DeleteOrder(ctx context.Context, orderID int64) error
}

// Response is the deletion acknowledgment body.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DeleteOrder handles the order deletion request.
func DeleteOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.Error{Message: "invalid order id"})

		return
	}

	err = service.DeleteOrder(r.Context(), orderID)
	metrics.RecordOrderOperation("delete", err == nil)
	if err != nil {
		response.WriteError(w, err)

		return
	}

	response.WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "order deleted successfully",
	})
}
