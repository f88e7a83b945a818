package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/eeinoeyes/shopmax-api/internal/dal/postgres"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/order"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/orderitem"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id          int64     `db:"id"`
	UserId      int64     `db:"user_id"`
	OrderDate   time.Time `db:"order_date"`
	OrderStatus string    `db:"order_status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.OrderStatus)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:         o.Id,
		UserID:     o.UserId,
		OrderDate:  o.OrderDate,
		Status:     status,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		OrderItems: []orderitem.OrderItem{},
	}, nil
}

// PostgresOrderRepository is the Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.Conn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const orderColumns = "id, user_id, order_date, order_status, created_at, updated_at"

func scanOrder(row pgx.Row) (*OrderDal, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.UserId,
		&dal.OrderDate,
		&dal.OrderStatus,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}

// Insert creates the order header and returns it with its generated id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO orders (user_id, order_date, order_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+orderColumns,
		o.UserID, o.OrderDate, o.Status.String(), o.CreatedAt, o.UpdatedAt)

	dal, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
	}
	model.OrderItems = o.OrderItems

	return model, nil
}

// GetForUpdate loads an order header with a row lock so the cancellation
// status check and the following transition are race-free.
func (r *PostgresOrderRepository) GetForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	row := r.conn.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id)

	dal, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	return dal.ToModel()
}

// UpdateStatus transitions order_status and bumps updated_at.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	ct, err := r.conn.Exec(ctx,
		"UPDATE orders SET order_status = $2, updated_at = now() WHERE id = $1",
		id, status.String())
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

// GetStatus returns just the status of an order.
func (r *PostgresOrderRepository) GetStatus(ctx context.Context, id int64) (order.Status, error) {
	var raw string
	err := r.conn.QueryRow(ctx, "SELECT order_status FROM orders WHERE id = $1", id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", order.ErrOrderNotFound
		}
		return "", fmt.Errorf("failed to get order status: %w", err)
	}

	return order.ParseStatus(raw)
}

// Delete removes an order header; lines are removed by FK cascade.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.conn.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

func (r *PostgresOrderRepository) applyFilter(query sq.SelectBuilder, filter *order.QueryOrdersModel) sq.SelectBuilder {
	if filter.UserID != 0 {
		query = query.Where(sq.Eq{"user_id": filter.UserID})
	}

	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where(sq.GtOrEq{"order_date": *filter.StartDate}).
			Where(sq.LtOrEq{"order_date": *filter.EndDate})
	}

	return query
}

// Query retrieves order headers matching the filter, newest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	query := r.applyFilter(r.sb.
		Select("id", "user_id", "order_date", "order_status", "created_at", "updated_at").
		From("orders"), filter).
		OrderBy("order_date DESC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		dal, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Count returns the number of orders matching the filter, ignoring limit/offset.
func (r *PostgresOrderRepository) Count(ctx context.Context, filter *order.QueryOrdersModel) (int64, error) {
	query := r.applyFilter(r.sb.Select("COUNT(*)").From("orders"), filter)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}
