package ordersvc

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iitemrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iorderitemrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iorderrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/ioutboxrepo"
	"github.com/eeinoeyes/shopmax-api/internal/dal/interfaces/iuserrepo"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/item"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/order"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/orderitem"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/outbox"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/user"
)

// memStore is the shared state behind the in-memory unit of work. The mutex
// stands in for the row locks of the real storage: a transaction holds it from
// Begin to Commit/Rollback, so concurrent workflows serialize the same way
// competing locking reads would.
type memStore struct {
	mu sync.Mutex

	users  map[int64]user.User
	items  map[int64]item.Item
	orders map[int64]order.Order
	lines  map[int64]orderitem.OrderItem
	outbox []outbox.Message

	nextOrderID int64
	nextLineID  int64
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[int64]user.User{},
		items:  map[int64]item.Item{},
		orders: map[int64]order.Order{},
		lines:  map[int64]orderitem.OrderItem{},
	}
}

type memSnapshot struct {
	items       map[int64]item.Item
	orders      map[int64]order.Order
	lines       map[int64]orderitem.OrderItem
	outbox      []outbox.Message
	nextOrderID int64
	nextLineID  int64
}

func (s *memStore) snapshot() memSnapshot {
	items := make(map[int64]item.Item, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	orders := make(map[int64]order.Order, len(s.orders))
	for k, v := range s.orders {
		orders[k] = v
	}
	lines := make(map[int64]orderitem.OrderItem, len(s.lines))
	for k, v := range s.lines {
		lines[k] = v
	}

	return memSnapshot{
		items:       items,
		orders:      orders,
		lines:       lines,
		outbox:      append([]outbox.Message(nil), s.outbox...),
		nextOrderID: s.nextOrderID,
		nextLineID:  s.nextLineID,
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.items = snap.items
	s.orders = snap.orders
	s.lines = snap.lines
	s.outbox = snap.outbox
	s.nextOrderID = snap.nextOrderID
	s.nextLineID = snap.nextLineID
}

// memUOW implements the unitOfWork interface over a memStore.
type memUOW struct {
	store *memStore
	open  bool
	snap  memSnapshot
}

func newMemUOW(store *memStore) *memUOW {
	return &memUOW{store: store}
}

func (u *memUOW) Begin(context.Context) error {
	u.store.mu.Lock()
	u.snap = u.store.snapshot()
	u.open = true

	return nil
}

func (u *memUOW) Commit(context.Context) error {
	if !u.open {
		return nil
	}
	u.open = false
	u.store.mu.Unlock()

	return nil
}

func (u *memUOW) Rollback(context.Context) error {
	if !u.open {
		return nil
	}
	u.store.restore(u.snap)
	u.open = false
	u.store.mu.Unlock()

	return nil
}

// run executes op under the store mutex unless a transaction already holds it.
func (u *memUOW) run(op func()) {
	if !u.open {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	}
	op()
}

func (u *memUOW) ItemRepository() iitemrepo.IItemRepository { return memItemRepo{u} }

func (u *memUOW) OrderRepository() iorderrepo.IOrderRepository { return memOrderRepo{u} }

func (u *memUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return memOrderItemRepo{u}
}

func (u *memUOW) UserRepository() iuserrepo.IUserRepository { return memUserRepo{u} }

func (u *memUOW) OutboxRepository() ioutboxrepo.IOutboxRepository { return memOutboxRepo{u} }

type memUserRepo struct{ u *memUOW }

func (r memUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	var (
		result *user.User
		err    error
	)
	r.u.run(func() {
		if usr, ok := r.u.store.users[id]; ok {
			result = &usr
		} else {
			err = user.ErrUserNotFound
		}
	})

	return result, err
}

type memItemRepo struct{ u *memUOW }

func (r memItemRepo) GetByID(_ context.Context, id int64) (*item.Item, error) {
	var (
		result *item.Item
		err    error
	)
	r.u.run(func() {
		if it, ok := r.u.store.items[id]; ok {
			result = &it
		} else {
			err = item.ErrItemNotFound
		}
	})

	return result, err
}

func (r memItemRepo) Reserve(_ context.Context, itemID, count int64) (*item.Item, error) {
	var (
		result *item.Item
		err    error
	)
	r.u.run(func() {
		it, ok := r.u.store.items[itemID]
		if !ok {
			err = item.ErrItemNotFound

			return
		}
		if it.StockNumber < count {
			err = item.ErrInsufficientStock

			return
		}
		it.StockNumber -= count
		r.u.store.items[itemID] = it
		result = &it
	})

	return result, err
}

func (r memItemRepo) Release(_ context.Context, itemID, count int64) error {
	var err error
	r.u.run(func() {
		it, ok := r.u.store.items[itemID]
		if !ok {
			err = item.ErrItemNotFound

			return
		}
		it.StockNumber += count
		r.u.store.items[itemID] = it
	})

	return err
}

type memOrderRepo struct{ u *memUOW }

func (r memOrderRepo) Insert(_ context.Context, o order.Order) (*order.Order, error) {
	var result *order.Order
	r.u.run(func() {
		r.u.store.nextOrderID++
		o.ID = r.u.store.nextOrderID
		r.u.store.orders[o.ID] = o
		result = &o
	})

	return result, nil
}

func (r memOrderRepo) GetForUpdate(_ context.Context, id int64) (*order.Order, error) {
	var (
		result *order.Order
		err    error
	)
	r.u.run(func() {
		if o, ok := r.u.store.orders[id]; ok {
			result = &o
		} else {
			err = order.ErrOrderNotFound
		}
	})

	return result, err
}

func (r memOrderRepo) UpdateStatus(_ context.Context, id int64, status order.Status) error {
	var err error
	r.u.run(func() {
		o, ok := r.u.store.orders[id]
		if !ok {
			err = order.ErrOrderNotFound

			return
		}
		o.Status = status
		o.UpdatedAt = time.Now()
		r.u.store.orders[id] = o
	})

	return err
}

func (r memOrderRepo) GetStatus(_ context.Context, id int64) (order.Status, error) {
	var (
		status order.Status
		err    error
	)
	r.u.run(func() {
		if o, ok := r.u.store.orders[id]; ok {
			status = o.Status
		} else {
			err = order.ErrOrderNotFound
		}
	})

	return status, err
}

func (r memOrderRepo) Delete(_ context.Context, id int64) error {
	var err error
	r.u.run(func() {
		if _, ok := r.u.store.orders[id]; !ok {
			err = order.ErrOrderNotFound

			return
		}
		delete(r.u.store.orders, id)
		for lid, line := range r.u.store.lines {
			if line.OrderID == id {
				delete(r.u.store.lines, lid)
			}
		}
	})

	return err
}

func (r memOrderRepo) matches(o order.Order, filter *order.QueryOrdersModel) bool {
	if filter.UserID != 0 && o.UserID != filter.UserID {
		return false
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		if o.OrderDate.Before(*filter.StartDate) || o.OrderDate.After(*filter.EndDate) {
			return false
		}
	}

	return true
}

func (r memOrderRepo) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	var result []order.Order
	r.u.run(func() {
		for _, o := range r.u.store.orders {
			if r.matches(o, filter) {
				result = append(result, o)
			}
		}
		sort.Slice(result, func(i, j int) bool {
			if !result[i].OrderDate.Equal(result[j].OrderDate) {
				return result[i].OrderDate.After(result[j].OrderDate)
			}

			return result[i].ID > result[j].ID
		})

		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				result = nil
			} else {
				result = result[filter.Offset:]
			}
		}
		if filter.Limit > 0 && len(result) > filter.Limit {
			result = result[:filter.Limit]
		}
	})

	return result, nil
}

func (r memOrderRepo) Count(_ context.Context, filter *order.QueryOrdersModel) (int64, error) {
	var count int64
	r.u.run(func() {
		for _, o := range r.u.store.orders {
			if r.matches(o, filter) {
				count++
			}
		}
	})

	return count, nil
}

type memOrderItemRepo struct{ u *memUOW }

func (r memOrderItemRepo) BulkInsert(_ context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	result := make([]orderitem.OrderItem, 0, len(items))
	r.u.run(func() {
		for _, it := range items {
			r.u.store.nextLineID++
			it.ID = r.u.store.nextLineID
			r.u.store.lines[it.ID] = it
			result = append(result, it)
		}
	})

	return result, nil
}

func (r memOrderItemRepo) Query(_ context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error) {
	var result []orderitem.OrderItem
	r.u.run(func() {
		for _, line := range r.u.store.lines {
			if len(filter.OrderIds) > 0 && !containsID(filter.OrderIds, line.OrderID) {
				continue
			}
			if len(filter.ItemIds) > 0 && !containsID(filter.ItemIds, line.ItemID) {
				continue
			}
			result = append(result, line)
		}
		sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	})

	return result, nil
}

func (r memOrderItemRepo) QueryEnriched(ctx context.Context, orderIds []int64) ([]orderitem.OrderItem, error) {
	result, err := r.Query(ctx, &orderitem.QueryOrderItemsModel{OrderIds: orderIds})
	if err != nil {
		return nil, err
	}

	r.u.run(func() {
		for i := range result {
			if it, ok := r.u.store.items[result[i].ItemID]; ok {
				result[i].ItemNm = it.ItemNm
				result[i].ItemPrice = it.Price
			}
		}
	})

	return result, nil
}

type memOutboxRepo struct{ u *memUOW }

func (r memOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	r.u.run(func() {
		msg.ID = int64(len(r.u.store.outbox) + 1)
		r.u.store.outbox = append(r.u.store.outbox, msg)
	})

	return nil
}

func (r memOutboxRepo) GetPendingMessages(_ context.Context, limit int) ([]outbox.Message, error) {
	var result []outbox.Message
	r.u.run(func() {
		for _, msg := range r.u.store.outbox {
			if len(result) == limit {
				break
			}
			result = append(result, msg)
		}
	})

	return result, nil
}

func (r memOutboxRepo) Delete(_ context.Context, id int64) error {
	r.u.run(func() {
		for i, msg := range r.u.store.outbox {
			if msg.ID == id {
				r.u.store.outbox = append(r.u.store.outbox[:i], r.u.store.outbox[i+1:]...)

				break
			}
		}
	})

	return nil
}

func (r memOutboxRepo) UpdateRetry(_ context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error {
	r.u.run(func() {
		for i := range r.u.store.outbox {
			if r.u.store.outbox[i].ID == id {
				r.u.store.outbox[i].RetryCount = retryCount
				r.u.store.outbox[i].LastError = lastError
				r.u.store.outbox[i].NextRetryAt = nextRetryAt

				break
			}
		}
	})

	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}

	return false
}

// newTestService wires an OrderService to a fresh in-memory store.
func newTestService() (*OrderService, *memStore) {
	store := newMemStore()
	svc := MustNewOrderService(withUnitOfWorkFactory(func() unitOfWork {
		return newMemUOW(store)
	}))

	return svc, store
}
