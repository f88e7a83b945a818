package ordersvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iitemrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iorderitemrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iorderrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/ioutboxrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iuserrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/postgres"
	redisdal "github.com/eeinoeyes/shopmax-api/internal/dal/redis"
	"github.com/eeinoeyes/shopmax-api/internal/dal/uow"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/order"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/orderitem"
)

var (
	// ErrNoItems is returned when a placement request carries no lines.
	ErrNoItems = errors.New("order must contain at least one item")

	// ErrInvalidCount is returned when a line asks for a non-positive quantity.
	ErrInvalidCount = errors.New("order line count must be positive")
)

// OrderLineInput is one requested line of a placement. Duplicate item ids are
// kept as independent lines, not merged.
type OrderLineInput struct {
	ItemID int64
	Count  int64
}

// PlacementResult is what a successful placement returns to the caller.
type PlacementResult struct {
	OrderID    int64
	TotalPrice int64
}

// Pagination describes one page of an order listing.
type Pagination struct {
	TotalOrders int64 `json:"totalOrders"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

// OrderPage is one page of a user's order history.
type OrderPage struct {
	Orders     []order.Order `json:"orders"`
	Pagination Pagination    `json:"pagination"`
}

// ListOrdersQuery carries the listing parameters after transport-level parsing.
type ListOrdersQuery struct {
	UserID    int64
	Page      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
}

// unitOfWork is the transactional boundary the workflows run inside.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	ItemRepository() iitemrepo.IItemRepository
	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	UserRepository() iuserrepo.IUserRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// OrderService implements order placement, cancellation and querying.
type OrderService struct {
	pgClient    *postgres.Client
	redisClient *goredis.Client
	uowFactory  func() unitOfWork
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("ordersvc: no unit of work source configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
		s.uowFactory = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithRedisClient sets the Redis client used for the order status cache.
// Optional: without it every status read goes to Postgres.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRedisClient(client *goredis.Client) option {
	return func(s *OrderService) {
		s.redisClient = client
	}
}

// withUnitOfWorkFactory overrides the unit of work source. Used by tests.
func withUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.uowFactory = factory
	}
}

func (s *OrderService) newUOW() unitOfWork {
	return s.uowFactory()
}

// PlaceOrder runs the placement workflow: user check, then one transaction
// covering the header insert, a sequential stock reservation per line with
// price snapshot accumulation, the bulk line insert and the order.created
// outbox row. Any failure rolls the whole unit back.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	userID int64,
	lines []OrderLineInput,
) (*PlacementResult, error) {
	if len(lines) == 0 {
		return nil, ErrNoItems
	}
	for _, line := range lines {
		if line.Count <= 0 {
			return nil, ErrInvalidCount
		}
	}

	work := s.newUOW()

	// Membership check stays outside the transaction: a missing user never
	// touches stock.
	usr, err := work.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	now := time.Now()
	created, err := work.OrderRepository().Insert(ctx, order.Order{
		UserID:    usr.ID,
		OrderDate: now,
		Status:    order.StatusOrdered,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	// Reservations run strictly sequentially in input order: lines share one
	// transaction handle, and input order keeps the first failing line
	// deterministic.
	var totalOrderPrice int64
	orderItems := make([]orderitem.OrderItem, 0, len(lines))
	for _, line := range lines {
		itm, err := work.ItemRepository().Reserve(ctx, line.ItemID, line.Count)
		if err != nil {
			return nil, err
		}

		orderPrice := itm.Price * line.Count
		totalOrderPrice += orderPrice

		orderItems = append(orderItems, orderitem.OrderItem{
			OrderID:    created.ID,
			ItemID:     itm.ID,
			Count:      line.Count,
			OrderPrice: orderPrice,
			CreatedAt:  now,
		})
	}

	if _, err := work.OrderItemRepository().BulkInsert(ctx, orderItems); err != nil {
		return nil, err
	}

	if err := s.enqueueOrderCreated(ctx, work, created.ID, usr.ID, totalOrderPrice, now); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	s.cacheStatus(ctx, created.ID, order.StatusOrdered)

	return &PlacementResult{
		OrderID:    created.ID,
		TotalPrice: totalOrderPrice,
	}, nil
}

// CancelOrder reverses a placement: it locks the order row, guards against a
// repeated cancel, releases every line's stock and flips the status, all in
// one transaction.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64) error {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	ord, err := work.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return err
	}

	if ord.Status == order.StatusCancelled {
		return order.ErrAlreadyCancelled
	}

	items, err := work.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
		OrderIds: []int64{orderID},
	})
	if err != nil {
		return err
	}

	for _, it := range items {
		if err := work.ItemRepository().Release(ctx, it.ItemID, it.Count); err != nil {
			return err
		}
	}

	if err := work.OrderRepository().UpdateStatus(ctx, orderID, order.StatusCancelled); err != nil {
		return err
	}

	if err := s.enqueueOrderCancelled(ctx, work, orderID, ord.UserID, time.Now()); err != nil {
		return err
	}

	if err := work.Commit(ctx); err != nil {
		return err
	}

	s.cacheStatus(ctx, orderID, order.StatusCancelled)

	return nil
}

// DeleteOrder removes an order header; its lines go with it by cascade. No
// stock compensation happens here.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	work := s.newUOW()

	if err := work.OrderRepository().Delete(ctx, orderID); err != nil {
		return err
	}

	s.dropStatus(ctx, orderID)

	return nil
}

// ListOrders retrieves one page of the user's order history, newest first,
// lines enriched with the item's current name/price and representative image.
func (s *OrderService) ListOrders(ctx context.Context, q ListOrdersQuery) (*OrderPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 5
	}

	filter := &order.QueryOrdersModel{
		UserID:    q.UserID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Limit:     q.Limit,
		Offset:    (q.Page - 1) * q.Limit,
	}

	work := s.newUOW()

	var (
		total  int64
		orders []order.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = work.OrderRepository().Count(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = work.OrderRepository().Query(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(orders) > 0 {
		orderIds := make([]int64, 0, len(orders))
		for _, o := range orders {
			orderIds = append(orderIds, o.ID)
		}

		items, err := work.OrderItemRepository().QueryEnriched(ctx, orderIds)
		if err != nil {
			return nil, err
		}

		for i := range orders {
			for _, it := range items {
				if it.OrderID == orders[i].ID {
					orders[i].OrderItems = append(orders[i].OrderItems, it)
				}
			}
		}
	}

	if orders == nil {
		orders = []order.Order{}
	}

	totalPages := total / int64(q.Limit)
	if total%int64(q.Limit) != 0 {
		totalPages++
	}

	return &OrderPage{
		Orders: orders,
		Pagination: Pagination{
			TotalOrders: total,
			TotalPages:  totalPages,
			CurrentPage: q.Page,
			Limit:       q.Limit,
		},
	}, nil
}

// OrderStatus reads an order's status through the Redis cache.
func (s *OrderService) OrderStatus(ctx context.Context, orderID int64) (order.Status, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, redisdal.KeyOrderStatus(orderID)).Result()
		if err == nil {
			if status, perr := order.ParseStatus(cached); perr == nil {
				return status, nil
			}
		}
	}

	work := s.newUOW()
	status, err := work.OrderRepository().GetStatus(ctx, orderID)
	if err != nil {
		return "", err
	}

	s.cacheStatus(ctx, orderID, status)

	return status, nil
}

// cacheStatus is best-effort: a cache miss later just falls back to Postgres.
func (s *OrderService) cacheStatus(ctx context.Context, orderID int64, status order.Status) {
	if s.redisClient == nil {
		return
	}
	err := s.redisClient.Set(ctx, redisdal.KeyOrderStatus(orderID), status.String(), redisdal.TTLStatusCache).Err()
	if err != nil {
		slog.Warn("Failed to cache order status", "order_id", orderID, "error", err)
	}
}

func (s *OrderService) dropStatus(ctx context.Context, orderID int64) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, redisdal.KeyOrderStatus(orderID)).Err(); err != nil {
		slog.Warn("Failed to drop order status cache", "order_id", orderID, "error", err)
	}
}
