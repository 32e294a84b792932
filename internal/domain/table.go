package domain

import (
	"errors"

	"github.com/google/uuid"
)

type TableStatus string

const (
	TableFree     TableStatus = "free"
	TableOccupied TableStatus = "occupied"
)

// Table is a physical table in the branch floor plan.
type Table struct {
	ID             string
	OrganizationID string
	BranchID       string
	Name           string
	Status         TableStatus
	Synced         bool
}

func NewTable(orgID, branchID, name string) (*Table, error) {
	if name == "" {
		return nil, errors.New("table name is required")
	}
	return &Table{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		BranchID:       branchID,
		Name:           name,
		Status:         TableFree,
	}, nil
}
