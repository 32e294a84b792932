package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
)

type ReservationSource string

const (
	SourceOrder    ReservationSource = "order"
	SourceDelivery ReservationSource = "delivery"
)

// StockReservation is a tentative hold on inventory, keyed by the
// source that owns it. It is a ledger of intent, not a gate: available
// stock is computed by callers as stock − Σ(pending+confirmed) holds.
// Pending holds are swept after expiry; confirmed holds never are.
type StockReservation struct {
	ID         string
	ProductID  string
	Qty        int
	SourceType ReservationSource
	SourceID   string
	Status     ReservationStatus
	CreatedAt  time.Time
}

func NewStockReservation(productID string, qty int, sourceType ReservationSource, sourceID string) (*StockReservation, error) {
	if productID == "" {
		return nil, errors.New("reservation product is required")
	}
	if qty < 1 {
		return nil, errors.New("reservation quantity must be at least 1")
	}
	if sourceType != SourceOrder && sourceType != SourceDelivery {
		return nil, errors.New("invalid reservation source type")
	}
	if sourceID == "" {
		return nil, errors.New("reservation source id is required")
	}
	return &StockReservation{
		ID:         uuid.NewString(),
		ProductID:  productID,
		Qty:        qty,
		SourceType: sourceType,
		SourceID:   sourceID,
		Status:     ReservationPending,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
