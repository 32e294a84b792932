package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

type TurnType string

const (
	TurnMorning   TurnType = "morning"
	TurnAfternoon TurnType = "afternoon"
	TurnNight     TurnType = "night"
)

// Shift is a cashier session owning a cash drawer. Lifecycle is linear:
// closed → open → closed. At most one shift is open per (user, branch).
type Shift struct {
	ID             string
	OrganizationID string
	BranchID       string
	UserID         string
	StartTime      time.Time
	EndTime        *time.Time
	InitialCash    int64
	FinalCash      *int64
	ExpectedCash   *int64
	Status         ShiftStatus
	TurnType       TurnType
	PendingTips    int64
	Synced         bool
}

func NewShift(orgID, branchID, userID string, initialCash int64, turn TurnType, pendingTips int64) (*Shift, error) {
	if userID == "" {
		return nil, errors.New("shift user is required")
	}
	if initialCash < 0 {
		return nil, errors.New("initial cash must not be negative")
	}
	switch turn {
	case TurnMorning, TurnAfternoon, TurnNight:
	default:
		return nil, errors.New("invalid turn type")
	}
	return &Shift{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		BranchID:       branchID,
		UserID:         userID,
		StartTime:      time.Now().UTC(),
		InitialCash:    initialCash,
		Status:         ShiftOpen,
		TurnType:       turn,
		PendingTips:    pendingTips,
	}, nil
}

func (s *Shift) IsOpen() bool {
	return s.Status == ShiftOpen
}

// ProductSold is one line of the per-shift product breakdown.
type ProductSold struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Total     int64  `json:"total"`
}

// ShiftSummary is the pure aggregation of a shift's ledger rows.
type ShiftSummary struct {
	ShiftID       string        `json:"shift_id"`
	SalesCount    int           `json:"salesCount"`
	TotalSales    int64         `json:"totalSales"`
	CashSales     int64         `json:"cashSales"`
	CardSales     int64         `json:"cardSales"`
	TransferSales int64         `json:"transferSales"`
	TotalTips     int64         `json:"totalTips"`
	TotalExpenses int64         `json:"totalExpenses"`
	ProductsSold  []ProductSold `json:"productsSold"`
}
