package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/eeinoeyes/shopmax-api/internal/service/models/order"
	"github.com/eeinoeyes/shopmax-api/internal/service/services/ordersvc"
	"github.com/eeinoeyes/shopmax-api/internal/transport/http/middleware/auth"
	"github.com/eeinoeyes/shopmax-api/internal/transport/http/middleware/metrics"
	cancelorder "github.com/eeinoeyes/shopmax-api/internal/transport/http/v1/cancel_order"
	deleteorder "github.com/eeinoeyes/shopmax-api/internal/transport/http/v1/delete_order"
	listorders "github.com/eeinoeyes/shopmax-api/internal/transport/http/v1/list_orders"
	orderstatus "github.com/eeinoeyes/shopmax-api/internal/transport/http/v1/order_status"
	placeorder "github.com/eeinoeyes/shopmax-api/internal/transport/http/v1/place_order"
	"github.com/eeinoeyes/shopmax-api/pkg/http/middleware/trace"
	"github.com/eeinoeyes/shopmax-api/pkg/logger"
)

type service interface {
	PlaceOrder(ctx context.Context, userID int64, lines []ordersvc.OrderLineInput) (*ordersvc.PlacementResult, error)
	CancelOrder(ctx context.Context, orderID int64) error
	DeleteOrder(ctx context.Context, orderID int64) error
	ListOrders(ctx context.Context, q ordersvc.ListOrdersQuery) (*ordersvc.OrderPage, error)
	OrderStatus(ctx context.Context, orderID int64) (order.Status, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	h.router.Handle("/metrics", promhttp.Handler())

	h.router.Route("/api/orders", func(r chi.Router) {
		r.Use(auth.NewAuthMiddleware())

		r.Post("/", h.placeOrder)
		r.Get("/", h.listOrders)
		r.Post("/{id}/cancel", h.cancelOrder)
		r.Get("/{id}/status", h.orderStatus)
		r.Delete("/{id}", h.deleteOrder)
	})
}

func (h *HTTPTransport) placeOrder(w http.ResponseWriter, r *http.Request) {
	placeorder.PlaceOrder(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) cancelOrder(w http.ResponseWriter, r *http.Request) {
	cancelorder.CancelOrder(w, r, h.service)
}

func (h *HTTPTransport) orderStatus(w http.ResponseWriter, r *http.Request) {
	orderstatus.OrderStatus(w, r, h.service)
}

func (h *HTTPTransport) deleteOrder(w http.ResponseWriter, r *http.Request) {
	deleteorder.DeleteOrder(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)
	router.Use(metrics.NewMetricsMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
