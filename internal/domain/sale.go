package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Sale is the transaction header. Once created it is append-only: only
// the synced flag and a late-bound shift id may change. Amounts are
// whole pesos.
type Sale struct {
	ID             string
	OrganizationID string
	BranchID       string
	ShiftID        *string
	// OrderID links back to the ticket this sale settled; its stock
	// holds stay confirmed until the sale is acknowledged remotely.
	OrderID *string
	Total   int64
	PaymentMethod  PaymentMethod
	Tip            int64
	Discount       int64
	CreatedAt      time.Time
	Synced         bool
	Items          []SaleItem
}

// SaleItem is created atomically with its Sale and never mutated.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Qty       int
	UnitPrice int64
	Total     int64
}

// NewSale builds a validated sale with locally generated ids. The ids
// are the basis of idempotent upsert-by-id on the remote side.
func NewSale(orgID, branchID string, shiftID *string, method PaymentMethod, tip, discount int64, items []SaleItem) (*Sale, error) {
	sale := &Sale{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		BranchID:       branchID,
		ShiftID:        shiftID,
		PaymentMethod:  method,
		Tip:            tip,
		Discount:       discount,
		CreatedAt:      time.Now().UTC(),
	}

	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].SaleID = sale.ID
		if items[i].Total == 0 {
			items[i].Total = items[i].UnitPrice * int64(items[i].Qty)
		}
	}
	sale.Items = items
	sale.Total = sale.itemTotal() - discount

	if err := sale.Validate(); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *Sale) Validate() error {
	if s.BranchID == "" {
		return errors.New("sale branch is required")
	}
	switch s.PaymentMethod {
	case PaymentCash, PaymentCard, PaymentTransfer:
	default:
		return errors.New("invalid payment method")
	}
	if len(s.Items) == 0 {
		return errors.New("sale must contain at least 1 item")
	}
	for _, item := range s.Items {
		if item.ProductID == "" {
			return errors.New("sale item product is required")
		}
		if item.Qty < 1 {
			return errors.New("sale item quantity must be at least 1")
		}
		if item.UnitPrice < 0 {
			return errors.New("sale item price must not be negative")
		}
	}
	if s.Tip < 0 || s.Discount < 0 {
		return errors.New("tip and discount must not be negative")
	}
	if s.Total < 0 {
		return errors.New("sale total must not be negative")
	}
	return nil
}

func (s *Sale) itemTotal() int64 {
	var sum int64
	for _, item := range s.Items {
		sum += item.Total
	}
	return sum
}

// TotalsConsistent is the advisory check that the item totals add up to
// the sale total plus discount. It is not enforced at write time.
func (s *Sale) TotalsConsistent() bool {
	return s.itemTotal() == s.Total+s.Discount
}
