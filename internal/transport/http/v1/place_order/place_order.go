package placeorder

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eeinoeyes/shopmax-api/internal/service/services/ordersvc"
	"github.com/eeinoeyes/shopmax-api/internal/transport/http/middleware/auth"
	"github.com/eeinoeyes/shopmax-api/internal/transport/http/middleware/metrics"
	"github.com/eeinoeyes/shopmax-api/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, userID int64, lines []ordersvc.OrderLineInput) (*ordersvc.PlacementResult, error)
}

type lineInput struct {
	ItemID int64 `json:"itemId"`
	Count  int64 `json:"count"`
}

// Request is the placement request body.
type Request struct {
	Items []lineInput `json:"items"`
}

// Response is the placement success body.
type Response struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	OrderID    int64  `json:"orderId"`
	TotalPrice int64  `json:"totalPrice"`
}

// PlaceOrder handles the order placement request.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		response.WriteJSON(w, http.StatusUnauthorized, response.Error{Message: "not authenticated"})

		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.Error{Message: "invalid request body"})

		return
	}

	lines := make([]ordersvc.OrderLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, ordersvc.OrderLineInput{ItemID: it.ItemID, Count: it.Count})
	}

	result, err := service.PlaceOrder(r.Context(), userID, lines)
	metrics.RecordOrderOperation("place", err == nil)
	if err != nil {
		response.WriteError(w, err)

		return
	}

	response.WriteJSON(w, http.StatusCreated, Response{
		Success:    true,
		Message:    "order placed successfully",
		OrderID:    result.OrderID,
		TotalPrice: result.TotalPrice,
	})
}
