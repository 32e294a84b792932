package memory

import (
	"context"
	"sort"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type shiftRepository struct {
	s *Store
}

func NewShiftRepository(s *Store) interfaces.ShiftRepository {
	return &shiftRepository{s: s}
}

func (r *shiftRepository) Open(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.shifts {
		if existing.UserID == shift.UserID && existing.BranchID == shift.BranchID && existing.Status == domain.ShiftOpen {
			c := *existing
			return &c, nil
		}
	}

	c := *shift
	r.s.shifts[shift.ID] = &c
	return shift, nil
}

func (r *shiftRepository) FindByID(ctx context.Context, id string) (*domain.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	shift, ok := r.s.shifts[id]
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	c := *shift
	return &c, nil
}

func (r *shiftRepository) FindOpen(ctx context.Context, userID, branchID string) (*domain.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, shift := range r.s.shifts {
		if shift.UserID == userID && shift.BranchID == branchID && shift.Status == domain.ShiftOpen {
			c := *shift
			return &c, nil
		}
	}
	return nil, domain.ErrShiftNotFound
}

func (r *shiftRepository) Close(ctx context.Context, id string, finalCash, expectedCash int64, end time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	shift, ok := r.s.shifts[id]
	if !ok {
		return domain.ErrShiftNotFound
	}
	if shift.Status != domain.ShiftOpen {
		return domain.ErrShiftClosed
	}
	shift.Status = domain.ShiftClosed
	shift.EndTime = &end
	shift.FinalCash = &finalCash
	shift.ExpectedCash = &expectedCash
	shift.Synced = false
	return nil
}

func (r *shiftRepository) AddExpense(ctx context.Context, expense *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *expense
	r.s.expenses[expense.ID] = &c
	return nil
}

func (r *shiftRepository) ListExpenses(ctx context.Context, shiftID string) ([]*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var expenses []*domain.Expense
	for _, e := range r.s.expenses {
		if e.ShiftID == shiftID {
			c := *e
			expenses = append(expenses, &c)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].CreatedAt.Before(expenses[j].CreatedAt) })
	return expenses, nil
}

func (r *shiftRepository) SaveTipDistributions(ctx context.Context, dists []*domain.TipDistribution, payouts []*domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range dists {
		c := *d
		r.s.tips[d.ID] = &c
	}
	for _, e := range payouts {
		c := *e
		r.s.expenses[e.ID] = &c
	}
	return nil
}

func (r *shiftRepository) ListTipDistributions(ctx context.Context, shiftID string) ([]*domain.TipDistribution, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var dists []*domain.TipDistribution
	for _, d := range r.s.tips {
		if d.ShiftID == shiftID {
			c := *d
			dists = append(dists, &c)
		}
	}
	sort.Slice(dists, func(i, j int) bool { return dists[i].Recipient < dists[j].Recipient })
	return dists, nil
}

func (r *shiftRepository) LastTransferredTips(ctx context.Context, branchID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var last *domain.Shift
	for _, shift := range r.s.shifts {
		if shift.BranchID != branchID || shift.Status != domain.ShiftClosed || shift.EndTime == nil {
			continue
		}
		if last == nil || shift.EndTime.After(*last.EndTime) {
			last = shift
		}
	}
	if last == nil {
		return 0, nil
	}

	var total int64
	for _, d := range r.s.tips {
		if d.ShiftID == last.ID && d.Decision == domain.TipTransfer {
			total += d.Amount
		}
	}
	return total, nil
}
