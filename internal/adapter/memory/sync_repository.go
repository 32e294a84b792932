package memory

import (
	"context"
	"fmt"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type syncRepository struct {
	s *Store
}

func NewSyncRepository(s *Store) interfaces.SyncRepository {
	return &syncRepository{s: s}
}

func (r *syncRepository) UnsyncedCount(ctx context.Context, table domain.SyncTable) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	switch table {
	case domain.TableSales:
		for _, v := range r.s.sales {
			if !v.Synced {
				count++
			}
		}
	case domain.TableOrders:
		for _, v := range r.s.orders {
			if !v.Synced {
				count++
			}
		}
	case domain.TableShifts:
		for _, v := range r.s.shifts {
			if !v.Synced {
				count++
			}
		}
	case domain.TableExpenses:
		for _, v := range r.s.expenses {
			if !v.Synced {
				count++
			}
		}
	case domain.TableTipDistributions:
		for _, v := range r.s.tips {
			if !v.Synced {
				count++
			}
		}
	case domain.TableTables:
		for _, v := range r.s.tables {
			if !v.Synced {
				count++
			}
		}
	default:
		return 0, fmt.Errorf("unknown sync table %q", table)
	}
	return count, nil
}

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) interfaces.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) OrganizationOf(ctx context.Context, userID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	org, ok := r.s.userOrgs[userID]
	if !ok || org == "" {
		return "", fmt.Errorf("user %s not found", userID)
	}
	return org, nil
}
