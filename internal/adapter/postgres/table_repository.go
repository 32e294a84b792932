package postgres

import (
	"context"
	"fmt"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type tableRepository struct {
	db DB
}

func NewTableRepository(db DB) interfaces.TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *domain.Table) error {
	query := `
		INSERT INTO tables (id, organization_id, branch_id, name, status, synced)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, table.ID, table.OrganizationID, table.BranchID,
		table.Name, table.Status, table.Synced)
	if err != nil {
		return fmt.Errorf("failed to insert table: %w", err)
	}
	return nil
}

func (r *tableRepository) FindByID(ctx context.Context, id string) (*domain.Table, error) {
	query := `SELECT id, organization_id, branch_id, name, status, synced FROM tables WHERE id = $1`
	var t domain.Table
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.OrganizationID, &t.BranchID, &t.Name, &t.Status, &t.Synced)
	if err != nil {
		return nil, domain.ErrTableNotFound
	}
	return &t, nil
}

func (r *tableRepository) List(ctx context.Context, branchID string) ([]*domain.Table, error) {
	query := `
		SELECT id, organization_id, branch_id, name, status, synced
		FROM tables
		WHERE branch_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []*domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.OrganizationID, &t.BranchID, &t.Name, &t.Status, &t.Synced); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, &t)
	}

	return tables, nil
}

func (r *tableRepository) UpdateStatus(ctx context.Context, id string, status domain.TableStatus) error {
	query := `UPDATE tables SET status = $1, synced = false WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update table status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTableNotFound
	}
	return nil
}
