package memory

import (
	"context"
	"sort"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type reservationRepository struct {
	s *Store
}

func NewReservationRepository(s *Store) interfaces.ReservationRepository {
	return &reservationRepository{s: s}
}

func (r *reservationRepository) CreateMany(ctx context.Context, reservations []*domain.StockReservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, res := range reservations {
		c := *res
		r.s.reservations[res.ID] = &c
	}
	return nil
}

func (r *reservationRepository) ListBySource(ctx context.Context, sourceType domain.ReservationSource, sourceID string) ([]*domain.StockReservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.StockReservation
	for _, res := range r.s.reservations {
		if res.SourceType == sourceType && res.SourceID == sourceID {
			c := *res
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *reservationRepository) ConfirmBySource(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, res := range r.s.reservations {
		if res.SourceType == sourceType && res.SourceID == sourceID && res.Status == domain.ReservationPending {
			res.Status = domain.ReservationConfirmed
		}
	}
	return nil
}

func (r *reservationRepository) DeleteBySource(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, res := range r.s.reservations {
		if res.SourceType == sourceType && res.SourceID == sourceID {
			delete(r.s.reservations, id)
		}
	}
	return nil
}

func (r *reservationRepository) DeleteByProduct(ctx context.Context, sourceType domain.ReservationSource, sourceID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, res := range r.s.reservations {
		if res.SourceType == sourceType && res.SourceID == sourceID && res.ProductID == productID {
			delete(r.s.reservations, id)
		}
	}
	return nil
}

func (r *reservationRepository) ClearConfirmed(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, res := range r.s.reservations {
		if res.SourceType == sourceType && res.SourceID == sourceID && res.Status == domain.ReservationConfirmed {
			delete(r.s.reservations, id)
		}
	}
	return nil
}

func (r *reservationRepository) ReservedQty(ctx context.Context, productID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var qty int
	for _, res := range r.s.reservations {
		if res.ProductID == productID {
			qty += res.Qty
		}
	}
	return qty, nil
}

func (r *reservationRepository) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var swept int64
	for id, res := range r.s.reservations {
		if res.Status == domain.ReservationPending && res.CreatedAt.Before(cutoff) {
			delete(r.s.reservations, id)
			swept++
		}
	}
	return swept, nil
}
