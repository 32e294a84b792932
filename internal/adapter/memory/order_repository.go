package memory

import (
	"context"
	"sort"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type orderRepository struct {
	s *Store
}

func NewOrderRepository(s *Store) interfaces.OrderRepository {
	return &orderRepository{s: s}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	order, ok := r.s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// mutableOrder fetches an order for item mutation, rejecting completed
// tickets. Caller holds the write lock.
func (r *orderRepository) mutableOrder(id string) (*domain.Order, error) {
	order, ok := r.s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if !order.Mutable() {
		return nil, domain.ErrOrderCompleted
	}
	return order, nil
}

func (r *orderRepository) AddItem(ctx context.Context, orderID string, item domain.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, err := r.mutableOrder(orderID)
	if err != nil {
		return err
	}
	order.Items = append(order.Items, item)
	order.RecalculateTotal()
	order.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *orderRepository) UpdateItem(ctx context.Context, orderID string, item domain.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, err := r.mutableOrder(orderID)
	if err != nil {
		return err
	}
	for i := range order.Items {
		if order.Items[i].ID == item.ID {
			order.Items[i].Qty = item.Qty
			order.Items[i].UnitPrice = item.UnitPrice
			order.Items[i].Total = item.Total
			order.RecalculateTotal()
			order.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrOrderNotFound
}

func (r *orderRepository) RemoveItem(ctx context.Context, orderID, itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, err := r.mutableOrder(orderID)
	if err != nil {
		return err
	}
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
			order.RecalculateTotal()
			order.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return nil
}

func (r *orderRepository) Complete(ctx context.Context, orderID string, shiftID *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	return order.Complete(shiftID)
}

func (r *orderRepository) Delete(ctx context.Context, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := r.mutableOrder(orderID); err != nil {
		return err
	}
	delete(r.s.orders, orderID)
	return nil
}

func (r *orderRepository) ListByTable(ctx context.Context, tableID string, status domain.OrderStatus) ([]*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orders []*domain.Order
	for _, order := range r.s.orders {
		if order.TableID != nil && *order.TableID == tableID && order.Status == status {
			orders = append(orders, cloneOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	return orders, nil
}
