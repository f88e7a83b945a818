package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/eeinoeyes/shopmax-api/internal/dal/postgres"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/item"
)

// ItemDal represents the item data access layer model.
type ItemDal struct {
	Id          int64     `db:"id"`
	ItemNm      string    `db:"item_nm"`
	Price       int64     `db:"price"`
	StockNumber int64     `db:"stock_number"`
	ItemDetail  string    `db:"item_detail"`
	SellStatus  string    `db:"item_sell_status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ToModel converts ItemDal to the service layer Item model.
func (i *ItemDal) ToModel() *item.Item {
	return &item.Item{
		ID:          i.Id,
		ItemNm:      i.ItemNm,
		Price:       i.Price,
		StockNumber: i.StockNumber,
		ItemDetail:  i.ItemDetail,
		SellStatus:  item.SellStatus(i.SellStatus),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// PostgresItemRepository is the stock ledger over the items table.
type PostgresItemRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresItemRepository creates a new Postgres item repository.
func NewPostgresItemRepository(conn postgres.Conn) *PostgresItemRepository {
	return &PostgresItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const itemColumns = "id, item_nm, price, stock_number, item_detail, item_sell_status, created_at, updated_at"

func scanItem(row pgx.Row) (*ItemDal, error) {
	var dal ItemDal
	err := row.Scan(
		&dal.Id,
		&dal.ItemNm,
		&dal.Price,
		&dal.StockNumber,
		&dal.ItemDetail,
		&dal.SellStatus,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}

// GetByID loads an item without locking.
func (r *PostgresItemRepository) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	row := r.conn.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = $1", id)

	dal, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return dal.ToModel(), nil
}

// Reserve decrements stock_number by count inside the caller's transaction.
// The locking read serializes concurrent reservations on the same item: the
// second transaction blocks on the row lock and, once unblocked, observes the
// already-decremented stock.
func (r *PostgresItemRepository) Reserve(ctx context.Context, itemID, count int64) (*item.Item, error) {
	row := r.conn.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = $1 FOR UPDATE", itemID)

	dal, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to lock item for reservation: %w", err)
	}

	if dal.StockNumber < count {
		return nil, item.ErrInsufficientStock
	}

	_, err = r.conn.Exec(ctx,
		"UPDATE items SET stock_number = stock_number - $2, updated_at = now() WHERE id = $1",
		itemID, count)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	dal.StockNumber -= count

	return dal.ToModel(), nil
}

// Release increments stock_number by count. Used only by cancellation; mirrors
// the placement decrement with no upper-bound check.
func (r *PostgresItemRepository) Release(ctx context.Context, itemID, count int64) error {
	ct, err := r.conn.Exec(ctx,
		"UPDATE items SET stock_number = stock_number + $2, updated_at = now() WHERE id = $1",
		itemID, count)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return item.ErrItemNotFound
	}

	return nil
}
