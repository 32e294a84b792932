package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Expense is an append-only cash outflow recorded against an open
// shift. It decrements the expected drawer amount.
type Expense struct {
	ID             string
	OrganizationID string
	BranchID       string
	ShiftID        string
	Description    string
	Amount         int64
	CreatedAt      time.Time
	Synced         bool
}

func NewExpense(orgID, branchID, shiftID, description string, amount int64) (*Expense, error) {
	if shiftID == "" {
		return nil, errors.New("expense shift is required")
	}
	if amount <= 0 {
		return nil, errors.New("expense amount must be positive")
	}
	if description == "" {
		return nil, errors.New("expense description is required")
	}
	return &Expense{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		BranchID:       branchID,
		ShiftID:        shiftID,
		Description:    description,
		Amount:         amount,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
