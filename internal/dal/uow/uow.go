package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iitemrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iorderitemrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iorderrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/ioutboxrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iuserrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/postgres"
	itemrepo "github.com/eeinoeyes/shopmax-api/internal/dal/repositories/item/postgres"
	orderrepo "github.com/eeinoeyes/shopmax-api/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/eeinoeyes/shopmax-api/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/eeinoeyes/shopmax-api/internal/dal/repositories/outbox/postgres"
	userrepo "github.com/eeinoeyes/shopmax-api/internal/dal/repositories/user/postgres"
)

// unitOfWork binds the repositories to one connection. Before Begin they run
// on the pool; after Begin they all share the same transaction, so stock
// decrements, header/line inserts and outbox rows commit or roll back together.
type unitOfWork struct {
	client *postgres.Client
	tx     pgx.Tx

	itemRepo      iitemrepo.IItemRepository
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	userRepo      iuserrepo.IUserRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

// NewUnitOfWork creates a unit of work over the given Postgres client.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	u := &unitOfWork{client: client}
	u.bind(client.Pool())

	return u
}

func (u *unitOfWork) bind(conn postgres.Conn) {
	u.itemRepo = itemrepo.NewPostgresItemRepository(conn)
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(conn)
	u.userRepo = userrepo.NewPostgresUserRepository(conn)
	u.outboxRepo = outboxrepo.NewPostgresOutboxRepository(conn)
}

func (u *unitOfWork) ItemRepository() iitemrepo.IItemRepository {
	return u.itemRepo
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) UserRepository() iuserrepo.IUserRepository {
	return u.userRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

// Begin opens a transaction and rebinds every repository to it.
func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

// Rollback is safe to defer: after a successful Commit it is a no-op error
// swallowed by the caller.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
