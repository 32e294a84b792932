package postgres

import (
	"context"
	"fmt"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type productRepository struct {
	db DB
}

func NewProductRepository(db DB) interfaces.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Paginate(ctx context.Context, query domain.ProductQuery) (*domain.ProductPage, error) {
	query.Normalize()

	where := `WHERE branch_id = $1
		AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		AND ($3 = '' OR category = $3)`

	countSQL := `SELECT COUNT(*) FROM products ` + where
	var total int
	if err := r.db.QueryRow(ctx, countSQL, query.BranchID, query.Search, query.Category).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	dataSQL := `
		SELECT id, organization_id, branch_id, name, category, price, stock, updated_at, synced
		FROM products ` + where + `
		ORDER BY name ASC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, dataSQL, query.BranchID, query.Search, query.Category, query.Limit, query.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	page := &domain.ProductPage{
		Data:  []*domain.Product{},
		Total: total,
		Page:  query.Page,
	}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.BranchID, &p.Name,
			&p.Category, &p.Price, &p.Stock, &p.UpdatedAt, &p.Synced); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		page.Data = append(page.Data, &p)
	}

	page.TotalPages = (total + query.Limit - 1) / query.Limit
	return page, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, organization_id, branch_id, name, category, price, stock, updated_at, synced
		FROM products
		WHERE id = $1
	`
	var p domain.Product
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.OrganizationID, &p.BranchID,
		&p.Name, &p.Category, &p.Price, &p.Stock, &p.UpdatedAt, &p.Synced)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

// Upsert applies a catalog row pulled from the remote; the remote is
// the source of truth for products and stock.
func (r *productRepository) Upsert(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, organization_id, branch_id, name, category, price, stock, updated_at, synced)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			updated_at = EXCLUDED.updated_at,
			synced = true
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.OrganizationID, product.BranchID,
		product.Name, product.Category, product.Price, product.Stock, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}
