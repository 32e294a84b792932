package postgres

import (
	"context"
	"fmt"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type syncRepository struct {
	db DB
}

func NewSyncRepository(db DB) interfaces.SyncRepository {
	return &syncRepository{db: db}
}

// UnsyncedCount only ever queries tables in the closed SyncTables set,
// so the identifier interpolation below cannot receive caller input.
func (r *syncRepository) UnsyncedCount(ctx context.Context, table domain.SyncTable) (int, error) {
	known := false
	for _, t := range domain.SyncTables {
		if t == table {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("unknown sync table %q", table)
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE synced = false`, table)
	var count int
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unsynced rows in %s: %w", table, err)
	}
	return count, nil
}

type userRepository struct {
	db DB
}

func NewUserRepository(db DB) interfaces.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) OrganizationOf(ctx context.Context, userID string) (string, error) {
	var org string
	err := r.db.QueryRow(ctx, `SELECT organization_id FROM users WHERE id = $1`, userID).Scan(&org)
	if err != nil {
		return "", fmt.Errorf("user %s not found: %w", userID, err)
	}
	return org, nil
}
