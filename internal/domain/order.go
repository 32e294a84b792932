package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
)

// Order is an open ticket for a table. Items may be added, updated and
// removed while pending; completion is terminal and a completed order
// is immutable.
type Order struct {
	ID             string
	OrganizationID string
	BranchID       string
	TableID        *string
	ShiftID        *string
	Status         OrderStatus
	Total          int64
	Diners         int
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Synced         bool
}

type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Qty       int
	UnitPrice int64
	Total     int64
}

func NewOrder(orgID, branchID string, tableID *string, diners int, items []OrderItem) (*Order, error) {
	if diners < 1 {
		return nil, errors.New("order needs at least 1 diner")
	}
	now := time.Now().UTC()
	order := &Order{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		BranchID:       branchID,
		TableID:        tableID,
		Status:         OrderPending,
		Diners:         diners,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i := range items {
		if err := validateOrderItem(items[i]); err != nil {
			return nil, err
		}
		items[i].ID = uuid.NewString()
		items[i].OrderID = order.ID
		items[i].Total = items[i].UnitPrice * int64(items[i].Qty)
	}
	order.Items = items
	order.RecalculateTotal()
	return order, nil
}

func validateOrderItem(item OrderItem) error {
	if item.ProductID == "" {
		return errors.New("order item product is required")
	}
	if item.Qty < 1 {
		return errors.New("order item quantity must be at least 1")
	}
	if item.UnitPrice < 0 {
		return errors.New("order item price must not be negative")
	}
	return nil
}

func (o *Order) RecalculateTotal() {
	var total int64
	for _, item := range o.Items {
		total += item.Total
	}
	o.Total = total
}

// Mutable reports whether the order still accepts item mutations.
func (o *Order) Mutable() bool {
	return o.Status == OrderPending
}

// Complete is the terminal transition. The shift the ticket settles
// under is bound here, not at creation, because a table can outlive the
// shift it was opened in.
func (o *Order) Complete(shiftID *string) error {
	if o.Status == OrderCompleted {
		return ErrOrderCompleted
	}
	o.Status = OrderCompleted
	o.ShiftID = shiftID
	o.UpdatedAt = time.Now().UTC()
	return nil
}
