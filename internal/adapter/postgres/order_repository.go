package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (id, organization_id, branch_id, table_id, shift_id,
		                    status, total, diners, created_at, updated_at, synced)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.Exec(ctx, query,
		order.ID, order.OrganizationID, order.BranchID, order.TableID, order.ShiftID,
		order.Status, order.Total, order.Diners, order.CreatedAt, order.UpdatedAt, order.Synced,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		itemQuery := `
			INSERT INTO order_items (id, order_id, product_id, qty, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err = tx.Exec(ctx, itemQuery,
			order.Items[i].ID, order.ID, order.Items[i].ProductID,
			order.Items[i].Qty, order.Items[i].UnitPrice, order.Items[i].Total,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, organization_id, branch_id, table_id, shift_id,
		       status, total, diners, created_at, updated_at, synced
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.OrganizationID, &order.BranchID, &order.TableID, &order.ShiftID,
		&order.Status, &order.Total, &order.Diners, &order.CreatedAt, &order.UpdatedAt, &order.Synced,
	)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	itemsQuery := `
		SELECT id, order_id, product_id, qty, unit_price, total
		FROM order_items
		WHERE order_id = $1
	`
	rows, err := r.db.Query(ctx, itemsQuery, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Qty, &item.UnitPrice, &item.Total); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	return &order, nil
}

// requirePending guards item mutations inside the transaction: the
// status check and the write commit together or not at all.
func (r *orderRepository) requirePending(ctx context.Context, tx Tx, orderID string) error {
	var status domain.OrderStatus
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status)
	if err != nil {
		return domain.ErrOrderNotFound
	}
	if status != domain.OrderPending {
		return domain.ErrOrderCompleted
	}
	return nil
}

func (r *orderRepository) AddItem(ctx context.Context, orderID string, item domain.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.requirePending(ctx, tx, orderID); err != nil {
		return err
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, qty, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, query, item.ID, orderID, item.ProductID, item.Qty, item.UnitPrice, item.Total); err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}

	if err := r.refreshTotal(ctx, tx, orderID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) UpdateItem(ctx context.Context, orderID string, item domain.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.requirePending(ctx, tx, orderID); err != nil {
		return err
	}

	query := `
		UPDATE order_items
		SET qty = $1, unit_price = $2, total = $3
		WHERE id = $4 AND order_id = $5
	`
	tag, err := tx.Exec(ctx, query, item.Qty, item.UnitPrice, item.Total, item.ID, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	if err := r.refreshTotal(ctx, tx, orderID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) RemoveItem(ctx context.Context, orderID, itemID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.requirePending(ctx, tx, orderID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE id = $1 AND order_id = $2`, itemID, orderID); err != nil {
		return fmt.Errorf("failed to remove order item: %w", err)
	}

	if err := r.refreshTotal(ctx, tx, orderID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) refreshTotal(ctx context.Context, tx Tx, orderID string) error {
	query := `
		UPDATE orders
		SET total = (SELECT COALESCE(SUM(total), 0) FROM order_items WHERE order_id = $1),
		    updated_at = $2
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, query, orderID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to refresh order total: %w", err)
	}
	return nil
}

func (r *orderRepository) Complete(ctx context.Context, orderID string, shiftID *string) error {
	query := `
		UPDATE orders
		SET status = $1, shift_id = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`
	tag, err := r.db.Exec(ctx, query, domain.OrderCompleted, shiftID, time.Now().UTC(), orderID, domain.OrderPending)
	if err != nil {
		return fmt.Errorf("failed to complete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.FindByID(ctx, orderID); findErr != nil {
			return findErr
		}
		return domain.ErrOrderCompleted
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, orderID string) error {
	query := `DELETE FROM orders WHERE id = $1 AND status = $2`
	tag, err := r.db.Exec(ctx, query, orderID, domain.OrderPending)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.FindByID(ctx, orderID); findErr != nil {
			return findErr
		}
		return domain.ErrOrderCompleted
	}
	return nil
}

func (r *orderRepository) ListByTable(ctx context.Context, tableID string, status domain.OrderStatus) ([]*domain.Order, error) {
	query := `
		SELECT id FROM orders
		WHERE table_id = $1 AND status = $2
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, tableID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by table: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	var orders []*domain.Order
	for _, id := range ids {
		order, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}
