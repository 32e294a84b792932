package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type saleRepository struct {
	db DB
}

func NewSaleRepository(db DB) interfaces.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO sales (id, organization_id, branch_id, shift_id, order_id, total,
		                   payment_method, tip, discount, created_at, synced)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.Exec(ctx, query,
		sale.ID, sale.OrganizationID, sale.BranchID, sale.ShiftID, sale.OrderID, sale.Total,
		sale.PaymentMethod, sale.Tip, sale.Discount, sale.CreatedAt, sale.Synced,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	for i := range sale.Items {
		itemQuery := `
			INSERT INTO sale_items (id, sale_id, product_id, qty, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err = tx.Exec(ctx, itemQuery,
			sale.Items[i].ID, sale.ID, sale.Items[i].ProductID,
			sale.Items[i].Qty, sale.Items[i].UnitPrice, sale.Items[i].Total,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sale item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *saleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `
		SELECT id, organization_id, branch_id, shift_id, order_id, total,
		       payment_method, tip, discount, created_at, synced
		FROM sales
		WHERE id = $1
	`

	var sale domain.Sale
	err := r.db.QueryRow(ctx, query, id).Scan(
		&sale.ID, &sale.OrganizationID, &sale.BranchID, &sale.ShiftID, &sale.OrderID, &sale.Total,
		&sale.PaymentMethod, &sale.Tip, &sale.Discount, &sale.CreatedAt, &sale.Synced,
	)
	if err != nil {
		return nil, domain.ErrSaleNotFound
	}

	if err := r.loadItems(ctx, &sale); err != nil {
		return nil, err
	}

	return &sale, nil
}

func (r *saleRepository) loadItems(ctx context.Context, sale *domain.Sale) error {
	itemsQuery := `
		SELECT id, sale_id, product_id, qty, unit_price, total
		FROM sale_items
		WHERE sale_id = $1
	`
	rows, err := r.db.Query(ctx, itemsQuery, sale.ID)
	if err != nil {
		return fmt.Errorf("failed to load sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Qty, &item.UnitPrice, &item.Total); err != nil {
			return fmt.Errorf("failed to scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, item)
	}
	return nil
}

// ListUnsynced returns the oldest unsynced sales with their item
// graphs, ready for one graph-sync upload batch.
func (r *saleRepository) ListUnsynced(ctx context.Context, limit int) ([]*domain.Sale, error) {
	query := `
		SELECT id, organization_id, branch_id, shift_id, order_id, total,
		       payment_method, tip, discount, created_at, synced
		FROM sales
		WHERE synced = false
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced sales: %w", err)
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		var sale domain.Sale
		if err := rows.Scan(
			&sale.ID, &sale.OrganizationID, &sale.BranchID, &sale.ShiftID, &sale.OrderID, &sale.Total,
			&sale.PaymentMethod, &sale.Tip, &sale.Discount, &sale.CreatedAt, &sale.Synced,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, &sale)
	}
	rows.Close()

	for _, sale := range sales {
		if err := r.loadItems(ctx, sale); err != nil {
			return nil, err
		}
	}

	return sales, nil
}

func (r *saleRepository) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE sales SET synced = true WHERE id = ANY($1)`
	if _, err := tx.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to mark sales synced: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *saleRepository) SummarizeShift(ctx context.Context, shiftID string) (*domain.ShiftSummary, error) {
	summary := &domain.ShiftSummary{ShiftID: shiftID}

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(total), 0),
		       COALESCE(SUM(total) FILTER (WHERE payment_method = 'cash'), 0),
		       COALESCE(SUM(total) FILTER (WHERE payment_method = 'card'), 0),
		       COALESCE(SUM(total) FILTER (WHERE payment_method = 'transfer'), 0),
		       COALESCE(SUM(tip), 0)
		FROM sales
		WHERE shift_id = $1
	`
	err := r.db.QueryRow(ctx, query, shiftID).Scan(
		&summary.SalesCount, &summary.TotalSales, &summary.CashSales,
		&summary.CardSales, &summary.TransferSales, &summary.TotalTips,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize shift sales: %w", err)
	}

	expQuery := `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE shift_id = $1`
	if err := r.db.QueryRow(ctx, expQuery, shiftID).Scan(&summary.TotalExpenses); err != nil {
		return nil, fmt.Errorf("failed to summarize shift expenses: %w", err)
	}

	productsQuery := `
		SELECT si.product_id, SUM(si.qty), SUM(si.total)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.shift_id = $1
		GROUP BY si.product_id
		ORDER BY SUM(si.total) DESC
	`
	rows, err := r.db.Query(ctx, productsQuery, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize products sold: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.ProductSold
		if err := rows.Scan(&p.ProductID, &p.Qty, &p.Total); err != nil {
			return nil, fmt.Errorf("failed to scan product sold: %w", err)
		}
		summary.ProductsSold = append(summary.ProductsSold, p)
	}

	return summary, nil
}

func (r *saleRepository) ProductTrend(ctx context.Context, branchID string, from, to time.Time) ([]domain.ProductTrend, error) {
	query := `
		SELECT si.product_id, SUM(si.qty), SUM(si.total)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.branch_id = $1 AND s.created_at >= $2 AND s.created_at < $3
		GROUP BY si.product_id
		ORDER BY SUM(si.qty) DESC
	`

	rows, err := r.db.Query(ctx, query, branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query product trend: %w", err)
	}
	defer rows.Close()

	var trend []domain.ProductTrend
	for rows.Next() {
		var t domain.ProductTrend
		if err := rows.Scan(&t.ProductID, &t.Qty, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan product trend: %w", err)
		}
		trend = append(trend, t)
	}

	return trend, nil
}
