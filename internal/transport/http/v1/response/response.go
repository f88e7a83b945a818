package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eeinoeyes/shopmax-api/internal/service/models/item"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/order"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/user"
	"github.com/eeinoeyes/shopmax-api/internal/service/services/ordersvc"
)

// Error is the JSON body returned for every failed request. Only the message
// crosses the boundary, never internal error detail.
type Error struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// WriteError maps a workflow error to its HTTP status and a safe message.
func WriteError(w http.ResponseWriter, err error) {
	code, message := mapError(err)
	if code == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	WriteJSON(w, code, Error{Success: false, Message: message})
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, item.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, item.ErrInsufficientStock):
		return http.StatusConflict, "insufficient stock"
	case errors.Is(err, order.ErrAlreadyCancelled):
		return http.StatusBadRequest, "order already cancelled"
	case errors.Is(err, ordersvc.ErrNoItems):
		return http.StatusBadRequest, "order must contain at least one item"
	case errors.Is(err, ordersvc.ErrInvalidCount):
		return http.StatusBadRequest, "order line count must be positive"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
