package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type reservationRepository struct {
	db DB
}

func NewReservationRepository(db DB) interfaces.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) CreateMany(ctx context.Context, reservations []*domain.StockReservation) error {
	if len(reservations) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, res := range reservations {
		query := `
			INSERT INTO stock_reservations (id, product_id, qty, source_type, source_id, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(ctx, query, res.ID, res.ProductID, res.Qty,
			res.SourceType, res.SourceID, res.Status, res.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert reservation: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *reservationRepository) ListBySource(ctx context.Context, sourceType domain.ReservationSource, sourceID string) ([]*domain.StockReservation, error) {
	query := `
		SELECT id, product_id, qty, source_type, source_id, status, created_at
		FROM stock_reservations
		WHERE source_type = $1 AND source_id = $2
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, sourceType, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*domain.StockReservation
	for rows.Next() {
		var res domain.StockReservation
		if err := rows.Scan(&res.ID, &res.ProductID, &res.Qty, &res.SourceType,
			&res.SourceID, &res.Status, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, &res)
	}

	return reservations, nil
}

func (r *reservationRepository) ConfirmBySource(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error {
	query := `
		UPDATE stock_reservations
		SET status = $1
		WHERE source_type = $2 AND source_id = $3 AND status = $4
	`
	if _, err := r.db.Exec(ctx, query, domain.ReservationConfirmed, sourceType, sourceID, domain.ReservationPending); err != nil {
		return fmt.Errorf("failed to confirm reservations: %w", err)
	}
	return nil
}

func (r *reservationRepository) DeleteBySource(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error {
	query := `DELETE FROM stock_reservations WHERE source_type = $1 AND source_id = $2`
	if _, err := r.db.Exec(ctx, query, sourceType, sourceID); err != nil {
		return fmt.Errorf("failed to release reservations: %w", err)
	}
	return nil
}

func (r *reservationRepository) DeleteByProduct(ctx context.Context, sourceType domain.ReservationSource, sourceID, productID string) error {
	query := `DELETE FROM stock_reservations WHERE source_type = $1 AND source_id = $2 AND product_id = $3`
	if _, err := r.db.Exec(ctx, query, sourceType, sourceID, productID); err != nil {
		return fmt.Errorf("failed to release product reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) ClearConfirmed(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error {
	query := `
		DELETE FROM stock_reservations
		WHERE source_type = $1 AND source_id = $2 AND status = $3
	`
	if _, err := r.db.Exec(ctx, query, sourceType, sourceID, domain.ReservationConfirmed); err != nil {
		return fmt.Errorf("failed to clear confirmed reservations: %w", err)
	}
	return nil
}

func (r *reservationRepository) ReservedQty(ctx context.Context, productID string) (int, error) {
	query := `SELECT COALESCE(SUM(qty), 0) FROM stock_reservations WHERE product_id = $1`
	var qty int
	if err := r.db.QueryRow(ctx, query, productID).Scan(&qty); err != nil {
		return 0, fmt.Errorf("failed to sum reserved qty: %w", err)
	}
	return qty, nil
}

// DeleteExpiredPending targets rows strictly older than the cutoff and
// only in pending status, so a reservation created after the sweep's
// query started can never be swept.
func (r *reservationRepository) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM stock_reservations WHERE status = $1 AND created_at < $2`
	tag, err := r.db.Exec(ctx, query, domain.ReservationPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}
