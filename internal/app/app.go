package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/eeinoeyes/shopmax-api/internal/dal/postgres"
	"github.com/eeinoeyes/shopmax-api/internal/dal/rabbitmq"
	redisdal "github.com/eeinoeyes/shopmax-api/internal/dal/redis"
	outboxrepo "github.com/eeinoeyes/shopmax-api/internal/dal/repositories/outbox/postgres"
	"github.com/eeinoeyes/shopmax-api/internal/service/services/ordersvc"
	"github.com/eeinoeyes/shopmax-api/internal/tracing"
	httptransport "github.com/eeinoeyes/shopmax-api/internal/transport/http"
	outboxworker "github.com/eeinoeyes/shopmax-api/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	worker         *outboxworker.Worker
	shutdownTracer func(ctx context.Context) error
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	shutdownTracer := tracing.MustInit()

	postgresClient := postgres.MustNewClient()
	redisClient := redisdal.MustNewClient()

	rabbitClient := rabbitmq.MustNewClient()
	rabbitClient.MustDeclareOrderEvents(
		viper.GetString("rabbitmq.orders.exchange"),
		viper.GetString("rabbitmq.orders.queue"),
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithRedisClient(redisClient),
	)

	worker := outboxworker.NewWorker(
		outboxrepo.NewPostgresOutboxRepository(postgresClient.Pool()),
		rabbitClient,
	)

	transport := httptransport.NewHTTPTransport(orderSvc)
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		worker:         worker,
		shutdownTracer: shutdownTracer,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.worker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	cancelWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.shutdownTracer(ctx); err != nil {
		slog.Error("Tracer shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
