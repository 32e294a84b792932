// Package orders manages open tickets: pending orders attached to
// tables, their item mutations and the stock holds that shadow them.
package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type Service struct {
	orders       interfaces.OrderRepository
	tables       interfaces.TableRepository
	users        interfaces.UserRepository
	reservations interfaces.ReservationService
	logger       logger.Logger
}

func NewService(
	orders interfaces.OrderRepository,
	tables interfaces.TableRepository,
	users interfaces.UserRepository,
	reservations interfaces.ReservationService,
	logger logger.Logger,
) *Service {
	return &Service{
		orders:       orders,
		tables:       tables,
		users:        users,
		reservations: reservations,
		logger:       logger,
	}
}

func (s *Service) OpenOrder(ctx context.Context, sess domain.Session, cmd interfaces.OpenOrderCommand) (*domain.Order, error) {
	items := make([]domain.OrderItem, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
		}
	}

	order, err := domain.NewOrder(s.resolveOrganization(ctx, sess), sess.BranchID, cmd.TableID, cmd.Diners, items)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("order_create_failed", "Failed to open order", order.ID, nil, err)
		return nil, err
	}

	// Shadow every line with a pending stock hold.
	if len(order.Items) > 0 {
		lines := make([]interfaces.ReserveLine, len(order.Items))
		for i, item := range order.Items {
			lines[i] = interfaces.ReserveLine{ProductID: item.ProductID, Qty: item.Qty}
		}
		if _, err := s.reservations.ReserveMany(ctx, lines, domain.SourceOrder, order.ID); err != nil {
			s.logger.Error("order_holds_failed", "Failed to create stock holds for order", order.ID, nil, err)
		}
	}

	if order.TableID != nil {
		if err := s.tables.UpdateStatus(ctx, *order.TableID, domain.TableOccupied); err != nil {
			s.logger.Error("table_status_failed", "Failed to mark table occupied", order.ID, nil, err)
		}
	}

	s.logger.Debug("order_opened", "Order opened", order.ID, map[string]interface{}{
		"diners": order.Diners,
		"items":  len(order.Items),
	})

	return order, nil
}

func (s *Service) AddItem(ctx context.Context, sess domain.Session, orderID string, cmd interfaces.OrderItemCommand) (*domain.Order, error) {
	if cmd.Qty < 1 || cmd.ProductID == "" {
		return nil, fmt.Errorf("validation failed: item needs a product and a positive quantity")
	}

	item := domain.OrderItem{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		ProductID: cmd.ProductID,
		Qty:       cmd.Qty,
		UnitPrice: cmd.UnitPrice,
		Total:     cmd.UnitPrice * int64(cmd.Qty),
	}

	if err := s.orders.AddItem(ctx, orderID, item); err != nil {
		return nil, err
	}

	if _, err := s.reservations.Reserve(ctx, cmd.ProductID, cmd.Qty, domain.SourceOrder, orderID); err != nil {
		s.logger.Error("order_holds_failed", "Failed to hold stock for added item", orderID, nil, err)
	}

	return s.orders.FindByID(ctx, orderID)
}

func (s *Service) UpdateItem(ctx context.Context, sess domain.Session, orderID, itemID string, cmd interfaces.OrderItemCommand) (*domain.Order, error) {
	if cmd.Qty < 1 {
		return nil, fmt.Errorf("validation failed: quantity must be at least 1")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var current *domain.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			current = &order.Items[i]
			break
		}
	}
	if current == nil {
		return nil, domain.ErrOrderNotFound
	}

	updated := *current
	updated.Qty = cmd.Qty
	if cmd.UnitPrice > 0 {
		updated.UnitPrice = cmd.UnitPrice
	}
	updated.Total = updated.UnitPrice * int64(updated.Qty)

	if err := s.orders.UpdateItem(ctx, orderID, updated); err != nil {
		return nil, err
	}

	// Re-issue this line's hold at the new quantity; the other lines'
	// holds stay put.
	err = s.reservations.ReleaseProduct(ctx, domain.SourceOrder, orderID, updated.ProductID)
	if err == nil {
		_, err = s.reservations.Reserve(ctx, updated.ProductID, updated.Qty, domain.SourceOrder, orderID)
	}
	if err != nil {
		s.logger.Error("order_holds_failed", "Failed to re-hold stock for updated item", orderID, nil, err)
	}

	return s.orders.FindByID(ctx, orderID)
}

func (s *Service) RemoveItem(ctx context.Context, sess domain.Session, orderID, itemID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var productID string
	for _, item := range order.Items {
		if item.ID == itemID {
			productID = item.ProductID
			break
		}
	}

	if err := s.orders.RemoveItem(ctx, orderID, itemID); err != nil {
		return nil, err
	}

	if productID != "" {
		if err := s.reservations.ReleaseProduct(ctx, domain.SourceOrder, orderID, productID); err != nil {
			s.logger.Error("order_holds_failed", "Failed to drop hold for removed item", orderID, nil, err)
		}
	}

	return s.orders.FindByID(ctx, orderID)
}

// Holds lists the live stock holds backing the ticket.
func (s *Service) Holds(ctx context.Context, orderID string) ([]*domain.StockReservation, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.reservations.Holds(ctx, domain.SourceOrder, orderID)
}

// CompleteOrder is the terminal transition. The ticket binds to the
// shift it settles under, its holds are confirmed and the table is
// freed once no pending orders remain on it.
func (s *Service) CompleteOrder(ctx context.Context, sess domain.Session, orderID string, shiftID *string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Complete(ctx, orderID, shiftID); err != nil {
		return nil, err
	}

	if err := s.reservations.Confirm(ctx, domain.SourceOrder, orderID); err != nil {
		s.logger.Error("reservation_confirm_failed", "Failed to confirm stock holds", orderID, nil, err)
	}

	s.freeTableIfIdle(ctx, order.TableID)

	s.logger.Debug("order_completed", "Order completed", orderID, map[string]interface{}{
		"total": order.Total,
	})

	return s.orders.FindByID(ctx, orderID)
}

func (s *Service) CancelOrder(ctx context.Context, sess domain.Session, orderID string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, orderID); err != nil {
		return err
	}

	if err := s.reservations.Release(ctx, domain.SourceOrder, orderID); err != nil {
		s.logger.Error("reservation_release_failed", "Failed to release stock holds", orderID, nil, err)
	}

	s.freeTableIfIdle(ctx, order.TableID)

	s.logger.Debug("order_cancelled", "Order cancelled", orderID, nil)
	return nil
}

func (s *Service) OrdersForTable(ctx context.Context, tableID string) ([]*domain.Order, error) {
	return s.orders.ListByTable(ctx, tableID, domain.OrderPending)
}

func (s *Service) freeTableIfIdle(ctx context.Context, tableID *string) {
	if tableID == nil {
		return
	}
	pending, err := s.orders.ListByTable(ctx, *tableID, domain.OrderPending)
	if err != nil || len(pending) > 0 {
		return
	}
	if err := s.tables.UpdateStatus(ctx, *tableID, domain.TableFree); err != nil {
		s.logger.Error("table_status_failed", "Failed to free table", *tableID, nil, err)
	}
}

func (s *Service) resolveOrganization(ctx context.Context, sess domain.Session) string {
	if sess.OrganizationID != "" {
		return sess.OrganizationID
	}
	org, err := s.users.OrganizationOf(ctx, sess.UserID)
	if err != nil || org == "" {
		return domain.LegacyOrganizationID
	}
	return org
}

var _ interfaces.OrderService = (*Service)(nil)
