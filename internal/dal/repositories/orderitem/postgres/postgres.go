package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/eeinoeyes/shopmax-api/internal/dal/postgres"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/orderitem"
)

// OrderItemDal represents the order item data access layer model.
type OrderItemDal struct {
	Id         int64     `db:"id"`
	OrderId    int64     `db:"order_id"`
	ItemId     int64     `db:"item_id"`
	Count      int64     `db:"count"`
	OrderPrice int64     `db:"order_price"`
	CreatedAt  time.Time `db:"created_at"`
}

// ToModel converts OrderItemDal to the service layer OrderItem model.
func (oi *OrderItemDal) ToModel() *orderitem.OrderItem {
	return &orderitem.OrderItem{
		ID:         oi.Id,
		OrderID:    oi.OrderId,
		ItemID:     oi.ItemId,
		Count:      oi.Count,
		OrderPrice: oi.OrderPrice,
		CreatedAt:  oi.CreatedAt,
	}
}

// PostgresOrderItemRepository is the Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn postgres.Conn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts all lines of an order in one statement and returns them
// with generated ids, preserving input order.
func (r *PostgresOrderItemRepository) BulkInsert(
	ctx context.Context,
	items []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	if len(items) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	builder := r.sb.
		Insert("order_items").
		Columns("order_id", "item_id", "count", "order_price", "created_at")

	for _, it := range items {
		builder = builder.Values(it.OrderID, it.ItemID, it.Count, it.OrderPrice, it.CreatedAt)
	}

	sql, args, err := builder.
		Suffix("RETURNING id, order_id, item_id, count, order_price, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build bulk insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ItemId,
			&dal.Count,
			&dal.OrderPrice,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Query retrieves order items based on filter criteria.
func (r *PostgresOrderItemRepository) Query(
	ctx context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	query := r.sb.
		Select("id", "order_id", "item_id", "count", "order_price", "created_at").
		From("order_items").
		OrderBy("id ASC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.OrderIds) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.OrderIds})
	}

	if len(filter.ItemIds) > 0 {
		query = query.Where(sq.Eq{"item_id": filter.ItemIds})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ItemId,
			&dal.Count,
			&dal.OrderPrice,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// QueryEnriched retrieves order items joined with the item's current name and
// price plus its representative image, for the listing endpoint.
func (r *PostgresOrderItemRepository) QueryEnriched(
	ctx context.Context,
	orderIds []int64,
) ([]orderitem.OrderItem, error) {
	if len(orderIds) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	query := r.sb.
		Select(
			"oi.id",
			"oi.order_id",
			"oi.item_id",
			"oi.count",
			"oi.order_price",
			"oi.created_at",
			"i.item_nm",
			"i.price",
			"COALESCE(img.img_url, '')",
		).
		From("order_items oi").
		Join("items i ON i.id = oi.item_id").
		LeftJoin("item_images img ON img.item_id = i.id AND img.rep_img_yn = 'Y'").
		Where(sq.Eq{"oi.order_id": orderIds}).
		OrderBy("oi.id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enriched query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enriched order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		var itemNm, imgUrl string
		var itemPrice int64

		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ItemId,
			&dal.Count,
			&dal.OrderPrice,
			&dal.CreatedAt,
			&itemNm,
			&itemPrice,
			&imgUrl,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enriched order item: %w", err)
		}

		model := dal.ToModel()
		model.ItemNm = itemNm
		model.ItemPrice = itemPrice
		model.RepImgUrl = imgUrl

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
