package ordersvc

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eeinoeyes/shopmax-api/internal/service/models/item"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/order"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/outbox"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/user"
)

func seedUser(store *memStore, id int64) {
	store.users[id] = user.User{ID: id, Email: "buyer@example.com", Name: "buyer", CreatedAt: time.Now()}
}

func seedItem(store *memStore, id, price, stock int64) {
	store.items[id] = item.Item{
		ID:          id,
		ItemNm:      "item",
		Price:       price,
		StockNumber: stock,
		SellStatus:  item.SellStatusSell,
	}
}

func TestPlaceOrder(t *testing.T) {
	t.Run("places a two line order and snapshots prices", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)
		seedItem(store, 20, 500, 3)

		res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{
			{ItemID: 10, Count: 3},
			{ItemID: 20, Count: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3500), res.TotalPrice)

		assert.Equal(t, int64(7), store.items[10].StockNumber)
		assert.Equal(t, int64(2), store.items[20].StockNumber)

		ord, ok := store.orders[res.OrderID]
		require.True(t, ok)
		assert.Equal(t, order.StatusOrdered, ord.Status)
		assert.Equal(t, int64(1), ord.UserID)

		var prices []int64
		for _, line := range store.lines {
			if line.OrderID == res.OrderID {
				prices = append(prices, line.OrderPrice)
			}
		}
		assert.ElementsMatch(t, []int64{3000, 500}, prices)
	})

	t.Run("writes an order.created outbox row in the same unit", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)

		res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{{ItemID: 10, Count: 2}})
		require.NoError(t, err)

		require.Len(t, store.outbox, 1)
		msg := store.outbox[0]
		assert.Equal(t, outbox.RoutingKeyOrderCreated, msg.RoutingKey)

		var event outbox.OrderCreatedEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		assert.Equal(t, res.OrderID, event.OrderID)
		assert.Equal(t, int64(2000), event.TotalPrice)
	})

	t.Run("keeps duplicate item ids as independent lines", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)

		res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{
			{ItemID: 10, Count: 2},
			{ItemID: 10, Count: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3000), res.TotalPrice)
		assert.Equal(t, int64(7), store.items[10].StockNumber)

		var lineCount int
		for _, line := range store.lines {
			if line.OrderID == res.OrderID {
				lineCount++
			}
		}
		assert.Equal(t, 2, lineCount)
	})

	t.Run("rejects an empty order", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)

		_, err := svc.PlaceOrder(context.Background(), 1, nil)
		assert.ErrorIs(t, err, ErrNoItems)
	})

	t.Run("rejects a non-positive count", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)

		_, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{{ItemID: 10, Count: 0}})
		assert.ErrorIs(t, err, ErrInvalidCount)
	})

	t.Run("fails before touching stock when the user does not exist", func(t *testing.T) {
		svc, store := newTestService()
		seedItem(store, 10, 1000, 10)

		_, err := svc.PlaceOrder(context.Background(), 42, []OrderLineInput{{ItemID: 10, Count: 1}})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
		assert.Equal(t, int64(10), store.items[10].StockNumber)
	})

	t.Run("unknown item rolls everything back", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)

		_, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{
			{ItemID: 10, Count: 2},
			{ItemID: 99, Count: 1},
		})
		assert.ErrorIs(t, err, item.ErrItemNotFound)

		assert.Equal(t, int64(10), store.items[10].StockNumber)
		assert.Empty(t, store.orders)
		assert.Empty(t, store.lines)
		assert.Empty(t, store.outbox)
	})

	t.Run("insufficient stock on a later line rolls back earlier reservations", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)
		seedItem(store, 20, 500, 1)

		_, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{
			{ItemID: 10, Count: 4},
			{ItemID: 20, Count: 2},
		})
		assert.ErrorIs(t, err, item.ErrInsufficientStock)

		assert.Equal(t, int64(10), store.items[10].StockNumber)
		assert.Equal(t, int64(1), store.items[20].StockNumber)
		assert.Empty(t, store.orders)
		assert.Empty(t, store.lines)
	})

	t.Run("two concurrent placements never oversell", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedUser(store, 2)
		seedItem(store, 10, 1000, 5)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, userID := range []int64{1, 2} {
			wg.Add(1)
			go func(i int, userID int64) {
				defer wg.Done()
				_, errs[i] = svc.PlaceOrder(context.Background(), userID, []OrderLineInput{{ItemID: 10, Count: 3}})
			}(i, userID)
		}
		wg.Wait()

		var succeeded, rejected int
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, item.ErrInsufficientStock):
				rejected++
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, rejected)
		assert.Equal(t, int64(2), store.items[10].StockNumber)
		assert.Len(t, store.orders, 1)
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("restores exactly the reserved quantities", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)
		seedItem(store, 20, 500, 3)

		res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{
			{ItemID: 10, Count: 3},
			{ItemID: 20, Count: 2},
		})
		require.NoError(t, err)

		require.NoError(t, svc.CancelOrder(context.Background(), res.OrderID))

		assert.Equal(t, int64(10), store.items[10].StockNumber)
		assert.Equal(t, int64(3), store.items[20].StockNumber)
		assert.Equal(t, order.StatusCancelled, store.orders[res.OrderID].Status)
	})

	t.Run("writes an order.cancelled outbox row", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)

		res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{{ItemID: 10, Count: 1}})
		require.NoError(t, err)
		require.NoError(t, svc.CancelOrder(context.Background(), res.OrderID))

		require.Len(t, store.outbox, 2)
		assert.Equal(t, outbox.RoutingKeyOrderCancelled, store.outbox[1].RoutingKey)
	})

	t.Run("repeated cancel fails without touching stock again", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)

		res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{{ItemID: 10, Count: 3}})
		require.NoError(t, err)

		require.NoError(t, svc.CancelOrder(context.Background(), res.OrderID))
		err = svc.CancelOrder(context.Background(), res.OrderID)
		assert.ErrorIs(t, err, order.ErrAlreadyCancelled)

		assert.Equal(t, int64(10), store.items[10].StockNumber)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _ := newTestService()

		err := svc.CancelOrder(context.Background(), 404)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestDeleteOrder(t *testing.T) {
	t.Run("removes header and lines without stock compensation", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)

		res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{{ItemID: 10, Count: 4}})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteOrder(context.Background(), res.OrderID))

		assert.Empty(t, store.orders)
		assert.Empty(t, store.lines)
		assert.Equal(t, int64(6), store.items[10].StockNumber)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _ := newTestService()

		err := svc.DeleteOrder(context.Background(), 404)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestListOrders(t *testing.T) {
	t.Run("pages newest first with correct totals", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 1000)

		var lastID int64
		for i := 0; i < 12; i++ {
			res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{{ItemID: 10, Count: 1}})
			require.NoError(t, err)
			lastID = res.OrderID
			time.Sleep(time.Millisecond)
		}

		page, err := svc.ListOrders(context.Background(), ListOrdersQuery{UserID: 1, Page: 1, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, int64(12), page.Pagination.TotalOrders)
		assert.Equal(t, int64(3), page.Pagination.TotalPages)
		assert.Equal(t, 1, page.Pagination.CurrentPage)
		assert.Equal(t, 5, page.Pagination.Limit)
		require.Len(t, page.Orders, 5)
		assert.Equal(t, lastID, page.Orders[0].ID)

		last, err := svc.ListOrders(context.Background(), ListOrdersQuery{UserID: 1, Page: 3, Limit: 5})
		require.NoError(t, err)
		assert.Len(t, last.Orders, 2)
	})

	t.Run("defaults page and limit", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)

		page, err := svc.ListOrders(context.Background(), ListOrdersQuery{UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Pagination.CurrentPage)
		assert.Equal(t, 5, page.Pagination.Limit)
		assert.NotNil(t, page.Orders)
		assert.Empty(t, page.Orders)
	})

	t.Run("only the requesting user's orders", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedUser(store, 2)
		seedItem(store, 10, 1000, 100)

		_, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{{ItemID: 10, Count: 1}})
		require.NoError(t, err)
		_, err = svc.PlaceOrder(context.Background(), 2, []OrderLineInput{{ItemID: 10, Count: 1}})
		require.NoError(t, err)

		page, err := svc.ListOrders(context.Background(), ListOrdersQuery{UserID: 1})
		require.NoError(t, err)
		require.Len(t, page.Orders, 1)
		assert.Equal(t, int64(1), page.Orders[0].UserID)
	})

	t.Run("date range filters inclusively", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 100)

		res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{{ItemID: 10, Count: 1}})
		require.NoError(t, err)

		placedAt := store.orders[res.OrderID].OrderDate

		start := placedAt.Add(-time.Hour)
		end := placedAt.Add(time.Hour)
		page, err := svc.ListOrders(context.Background(), ListOrdersQuery{
			UserID: 1, StartDate: &start, EndDate: &end,
		})
		require.NoError(t, err)
		assert.Len(t, page.Orders, 1)

		before := placedAt.Add(-2 * time.Hour)
		justBefore := placedAt.Add(-time.Hour)
		page, err = svc.ListOrders(context.Background(), ListOrdersQuery{
			UserID: 1, StartDate: &before, EndDate: &justBefore,
		})
		require.NoError(t, err)
		assert.Empty(t, page.Orders)
	})

	t.Run("lines keep the snapshot price after a catalog change", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 100)

		res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{{ItemID: 10, Count: 2}})
		require.NoError(t, err)

		// Catalog price doubles after placement.
		it := store.items[10]
		it.Price = 2000
		store.items[10] = it

		page, err := svc.ListOrders(context.Background(), ListOrdersQuery{UserID: 1})
		require.NoError(t, err)
		require.Len(t, page.Orders, 1)
		require.Len(t, page.Orders[0].OrderItems, 1)

		line := page.Orders[0].OrderItems[0]
		assert.Equal(t, res.OrderID, line.OrderID)
		assert.Equal(t, int64(2000), line.OrderPrice)
		assert.Equal(t, int64(2000), line.ItemPrice)
	})
}

func TestOrderStatus(t *testing.T) {
	t.Run("reads from storage without a cache", func(t *testing.T) {
		svc, store := newTestService()
		seedUser(store, 1)
		seedItem(store, 10, 1000, 10)

		res, err := svc.PlaceOrder(context.Background(), 1, []OrderLineInput{{ItemID: 10, Count: 1}})
		require.NoError(t, err)

		status, err := svc.OrderStatus(context.Background(), res.OrderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusOrdered, status)

		require.NoError(t, svc.CancelOrder(context.Background(), res.OrderID))

		status, err = svc.OrderStatus(context.Background(), res.OrderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, status)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.OrderStatus(context.Background(), 404)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}
