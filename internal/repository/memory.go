package repository

import (
	"context"
	"sync"

	"github.com/mmeshcher/order-summary/internal/model"
)

// MemoryRepository хранит заказы в памяти процесса. Используется, когда БД не настроена.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]model.Order
	keys   []string
}

// NewMemoryRepository создаёт пустое хранилище.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders: make(map[string]model.Order),
	}
}

// Close ничего не делает.
func (r *MemoryRepository) Close() error { return nil }

// SaveAll сохраняет заказы; повторный ключ перезаписывает заказ, сохраняя его позицию.
func (r *MemoryRepository) SaveAll(ctx context.Context, orders []model.Order) error {
	if err := ctx.Err(); err != nil {
		return wrapErr("save orders", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range orders {
		if _, ok := r.orders[o.OrderID]; !ok {
			r.keys = append(r.keys, o.OrderID)
		}
		r.orders[o.OrderID] = o
	}
	return nil
}

// FindAll возвращает заказы в порядке первого сохранения.
func (r *MemoryRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr("select orders", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]model.Order, 0, len(r.keys))
	for _, k := range r.keys {
		res = append(res, r.orders[k])
	}
	return res, nil
}

// FindByID возвращает заказ по ключу.
func (r *MemoryRepository) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr("select order", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}
