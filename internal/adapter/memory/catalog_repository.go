package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type productRepository struct {
	s *Store
}

func NewProductRepository(s *Store) interfaces.ProductRepository {
	return &productRepository{s: s}
}

func (r *productRepository) Paginate(ctx context.Context, query domain.ProductQuery) (*domain.ProductPage, error) {
	query.Normalize()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*domain.Product
	search := strings.ToLower(query.Search)
	for _, p := range r.s.products {
		if p.BranchID != query.BranchID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if query.Category != "" && p.Category != query.Category {
			continue
		}
		c := *p
		matched = append(matched, &c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	start := query.Offset()
	if start > total {
		start = total
	}
	end := start + query.Limit
	if end > total {
		end = total
	}

	return &domain.ProductPage{
		Data:       matched[start:end],
		Total:      total,
		Page:       query.Page,
		TotalPages: (total + query.Limit - 1) / query.Limit,
	}, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	c := *p
	return &c, nil
}

func (r *productRepository) Upsert(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *product
	c.Synced = true
	r.s.products[product.ID] = &c
	return nil
}

type tableRepository struct {
	s *Store
}

func NewTableRepository(s *Store) interfaces.TableRepository {
	return &tableRepository{s: s}
}

func (r *tableRepository) Create(ctx context.Context, table *domain.Table) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *table
	r.s.tables[table.ID] = &c
	return nil
}

func (r *tableRepository) FindByID(ctx context.Context, id string) (*domain.Table, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tables[id]
	if !ok {
		return nil, domain.ErrTableNotFound
	}
	c := *t
	return &c, nil
}

func (r *tableRepository) List(ctx context.Context, branchID string) ([]*domain.Table, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var tables []*domain.Table
	for _, t := range r.s.tables {
		if t.BranchID == branchID {
			c := *t
			tables = append(tables, &c)
		}
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables, nil
}

func (r *tableRepository) UpdateStatus(ctx context.Context, id string, status domain.TableStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tables[id]
	if !ok {
		return domain.ErrTableNotFound
	}
	t.Status = status
	t.Synced = false
	return nil
}
