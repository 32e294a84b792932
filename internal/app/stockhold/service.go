// Package stockhold keeps tentative inventory holds for open tickets
// and delivery drafts. Holds are a ledger of intent: available stock
// is computed as the last known server stock minus every live hold.
package stockhold

import (
	"context"
	"fmt"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type Service struct {
	reservations interfaces.ReservationRepository
	products     interfaces.ProductRepository
	logger       logger.Logger
}

func NewService(reservations interfaces.ReservationRepository, products interfaces.ProductRepository, logger logger.Logger) *Service {
	return &Service{
		reservations: reservations,
		products:     products,
		logger:       logger,
	}
}

func (s *Service) Reserve(ctx context.Context, productID string, qty int, sourceType domain.ReservationSource, sourceID string) (*domain.StockReservation, error) {
	res, err := domain.NewStockReservation(productID, qty, sourceType, sourceID)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.reservations.CreateMany(ctx, []*domain.StockReservation{res}); err != nil {
		s.logger.Error("reservation_create_failed", "Failed to create stock hold", "", nil, err)
		return nil, err
	}
	return res, nil
}

// ReserveMany creates one pending hold per line in a single write, so
// a multi-line ticket never leaves a partial set of holds behind.
func (s *Service) ReserveMany(ctx context.Context, lines []interfaces.ReserveLine, sourceType domain.ReservationSource, sourceID string) ([]*domain.StockReservation, error) {
	reservations := make([]*domain.StockReservation, 0, len(lines))
	for _, line := range lines {
		res, err := domain.NewStockReservation(line.ProductID, line.Qty, sourceType, sourceID)
		if err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		reservations = append(reservations, res)
	}

	if err := s.reservations.CreateMany(ctx, reservations); err != nil {
		s.logger.Error("reservation_create_failed", "Failed to create stock holds", "", map[string]interface{}{
			"source_id": sourceID,
			"lines":     len(lines),
		}, err)
		return nil, err
	}
	return reservations, nil
}

func (s *Service) Confirm(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error {
	return s.reservations.ConfirmBySource(ctx, sourceType, sourceID)
}

// Release drops every hold of the source, pending or confirmed. Used
// when a ticket is cancelled.
func (s *Service) Release(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error {
	return s.reservations.DeleteBySource(ctx, sourceType, sourceID)
}

// ReleaseProduct drops the holds one product contributes to a source,
// leaving the rest of the ticket's holds intact.
func (s *Service) ReleaseProduct(ctx context.Context, sourceType domain.ReservationSource, sourceID, productID string) error {
	return s.reservations.DeleteByProduct(ctx, sourceType, sourceID, productID)
}

func (s *Service) Holds(ctx context.Context, sourceType domain.ReservationSource, sourceID string) ([]*domain.StockReservation, error) {
	return s.reservations.ListBySource(ctx, sourceType, sourceID)
}

// Available reports last known server stock minus all live holds. The
// number can go negative when the server stock is stale; callers
// decide whether to sell anyway.
func (s *Service) Available(ctx context.Context, productID string) (int, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	reserved, err := s.reservations.ReservedQty(ctx, productID)
	if err != nil {
		return 0, err
	}
	return product.Stock - reserved, nil
}

// SweepExpired removes pending holds strictly older than maxAge.
// Confirmed holds are never swept by time.
func (s *Service) SweepExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	swept, err := s.reservations.DeleteExpiredPending(ctx, cutoff)
	if err != nil {
		s.logger.Error("reservation_sweep_failed", "Failed to sweep expired holds", "", nil, err)
		return 0, err
	}
	if swept > 0 {
		s.logger.Info("reservation_sweep", fmt.Sprintf("Swept %d expired stock holds", swept), "", map[string]interface{}{
			"swept":   swept,
			"max_age": maxAge.String(),
		})
	}
	return swept, nil
}

var _ interfaces.ReservationService = (*Service)(nil)
