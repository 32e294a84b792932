package memory

import (
	"context"
	"sort"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type saleRepository struct {
	s *Store
}

func NewSaleRepository(s *Store) interfaces.SaleRepository {
	return &saleRepository{s: s}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *saleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, domain.ErrSaleNotFound
	}
	return cloneSale(sale), nil
}

func (r *saleRepository) ListUnsynced(ctx context.Context, limit int) ([]*domain.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var unsynced []*domain.Sale
	for _, sale := range r.s.sales {
		if !sale.Synced {
			unsynced = append(unsynced, cloneSale(sale))
		}
	}
	sort.Slice(unsynced, func(i, j int) bool {
		return unsynced[i].CreatedAt.Before(unsynced[j].CreatedAt)
	})
	if limit > 0 && len(unsynced) > limit {
		unsynced = unsynced[:limit]
	}
	return unsynced, nil
}

func (r *saleRepository) MarkSynced(ctx context.Context, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if sale, ok := r.s.sales[id]; ok {
			sale.Synced = true
		}
	}
	return nil
}

func (r *saleRepository) SummarizeShift(ctx context.Context, shiftID string) (*domain.ShiftSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	summary := &domain.ShiftSummary{ShiftID: shiftID}
	byProduct := map[string]*domain.ProductSold{}

	for _, sale := range r.s.sales {
		if sale.ShiftID == nil || *sale.ShiftID != shiftID {
			continue
		}
		summary.SalesCount++
		summary.TotalSales += sale.Total
		summary.TotalTips += sale.Tip
		switch sale.PaymentMethod {
		case domain.PaymentCash:
			summary.CashSales += sale.Total
		case domain.PaymentCard:
			summary.CardSales += sale.Total
		case domain.PaymentTransfer:
			summary.TransferSales += sale.Total
		}
		for _, item := range sale.Items {
			p, ok := byProduct[item.ProductID]
			if !ok {
				p = &domain.ProductSold{ProductID: item.ProductID}
				byProduct[item.ProductID] = p
			}
			p.Qty += item.Qty
			p.Total += item.Total
		}
	}

	for _, expense := range r.s.expenses {
		if expense.ShiftID == shiftID {
			summary.TotalExpenses += expense.Amount
		}
	}

	for _, p := range byProduct {
		summary.ProductsSold = append(summary.ProductsSold, *p)
	}
	sort.Slice(summary.ProductsSold, func(i, j int) bool {
		return summary.ProductsSold[i].Total > summary.ProductsSold[j].Total
	})
	return summary, nil
}

func (r *saleRepository) ProductTrend(ctx context.Context, branchID string, from, to time.Time) ([]domain.ProductTrend, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byProduct := map[string]*domain.ProductTrend{}
	for _, sale := range r.s.sales {
		if sale.BranchID != branchID || sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		for _, item := range sale.Items {
			t, ok := byProduct[item.ProductID]
			if !ok {
				t = &domain.ProductTrend{ProductID: item.ProductID}
				byProduct[item.ProductID] = t
			}
			t.Qty += item.Qty
			t.Total += item.Total
		}
	}

	var trend []domain.ProductTrend
	for _, t := range byProduct {
		trend = append(trend, *t)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Qty > trend[j].Qty })
	return trend, nil
}
