// Package shift drives the cashier session lifecycle: idempotent open,
// expense recording, the tip waterfall and the reconciled close with
// its denomination count and dual-ledger consolidation.
package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type Service struct {
	shifts    interfaces.ShiftRepository
	sales     interfaces.SaleRepository
	users     interfaces.UserRepository
	publisher interfaces.MutationPublisher
	logger    logger.Logger
}

func NewService(
	shifts interfaces.ShiftRepository,
	sales interfaces.SaleRepository,
	users interfaces.UserRepository,
	publisher interfaces.MutationPublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		shifts:    shifts,
		sales:     sales,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// Open starts a shift for the session's user, seeding pending tips
// from the previous close. Opening twice is idempotent: the existing
// open shift comes back instead of a duplicate.
func (s *Service) Open(ctx context.Context, sess domain.Session, cmd interfaces.OpenShiftCommand) (*domain.Shift, error) {
	pendingTips, err := s.shifts.LastTransferredTips(ctx, sess.BranchID)
	if err != nil {
		s.logger.Error("pending_tips_lookup_failed", "Failed to look up carried tips", "", nil, err)
		return nil, err
	}

	shift, err := domain.NewShift(s.resolveOrganization(ctx, sess), sess.BranchID, sess.UserID, cmd.InitialCash, domain.TurnType(cmd.TurnType), pendingTips)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	opened, err := s.shifts.Open(ctx, shift)
	if err != nil {
		s.logger.Error("shift_open_failed", "Failed to open shift", shift.ID, nil, err)
		return nil, err
	}

	if opened.ID == shift.ID {
		s.announce(ctx, domain.TableShifts, opened.ID, sess.BranchID)
		s.logger.Info("shift_opened", "Shift opened", opened.ID, map[string]interface{}{
			"initial_cash": opened.InitialCash,
			"turn_type":    opened.TurnType,
			"pending_tips": opened.PendingTips,
		})
	} else {
		s.logger.Info("shift_already_open", "Returning existing open shift", opened.ID, nil)
	}

	return opened, nil
}

// Current returns the session user's open shift, or ErrShiftNotFound
// when none is open.
func (s *Service) Current(ctx context.Context, sess domain.Session) (*domain.Shift, error) {
	return s.shifts.FindOpen(ctx, sess.UserID, sess.BranchID)
}

// Summarize is a pure read over the shift's ledger rows.
func (s *Service) Summarize(ctx context.Context, shiftID string) (*domain.ShiftSummary, error) {
	if _, err := s.shifts.FindByID(ctx, shiftID); err != nil {
		return nil, err
	}
	return s.sales.SummarizeShift(ctx, shiftID)
}

func (s *Service) AddExpense(ctx context.Context, sess domain.Session, cmd interfaces.AddExpenseCommand) (*domain.Expense, error) {
	shift, err := s.shifts.FindByID(ctx, cmd.ShiftID)
	if err != nil {
		return nil, err
	}
	if !shift.IsOpen() {
		return nil, domain.ErrShiftNotOpen
	}

	expense, err := domain.NewExpense(shift.OrganizationID, shift.BranchID, shift.ID, cmd.Description, cmd.Amount)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.shifts.AddExpense(ctx, expense); err != nil {
		s.logger.Error("expense_create_failed", "Failed to record expense", shift.ID, nil, err)
		return nil, err
	}

	s.announce(ctx, domain.TableExpenses, expense.ID, sess.BranchID)
	return expense, nil
}

func (s *Service) ListExpenses(ctx context.Context, shiftID string) ([]*domain.Expense, error) {
	if _, err := s.shifts.FindByID(ctx, shiftID); err != nil {
		return nil, err
	}
	return s.shifts.ListExpenses(ctx, shiftID)
}

// ResolveTips runs the waterfall: total = shift tips + carried pending,
// split evenly with the remainder on the first recipient, then each
// share is delivered (an expense is written now) or transferred into
// the next shift.
func (s *Service) ResolveTips(ctx context.Context, sess domain.Session, cmd interfaces.ResolveTipsCommand) (*interfaces.TipResolution, error) {
	shift, err := s.shifts.FindByID(ctx, cmd.ShiftID)
	if err != nil {
		return nil, err
	}
	if !shift.IsOpen() {
		return nil, domain.ErrShiftNotOpen
	}

	// A retried resolution would write a second set of distributions
	// and payout expenses, corrupting the drawer expectation.
	existing, err := s.shifts.ListTipDistributions(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, domain.ErrTipsAlreadyResolved
	}

	summary, err := s.sales.SummarizeShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	total := summary.TotalTips + shift.PendingTips

	shares, err := domain.SplitTips(total, cmd.Recipients)
	if err != nil {
		return nil, err
	}

	dists, err := domain.ResolveTipShares(shift.ID, shares, cmd.Decisions)
	if err != nil {
		return nil, err
	}

	var payouts []*domain.Expense
	var delivered, transferred int64
	for _, d := range dists {
		switch d.Decision {
		case domain.TipDeliver:
			delivered += d.Amount
			if d.Amount > 0 {
				payout, err := domain.NewExpense(shift.OrganizationID, shift.BranchID, shift.ID,
					fmt.Sprintf("tip payout: %s", d.Recipient), d.Amount)
				if err != nil {
					return nil, err
				}
				payouts = append(payouts, payout)
			}
		case domain.TipTransfer:
			transferred += d.Amount
		}
	}

	if err := s.shifts.SaveTipDistributions(ctx, dists, payouts); err != nil {
		s.logger.Error("tip_distribution_failed", "Failed to save tip distributions", shift.ID, nil, err)
		return nil, err
	}

	s.announce(ctx, domain.TableTipDistributions, shift.ID, sess.BranchID)
	s.logger.Info("tips_resolved", "Tip distribution resolved", shift.ID, map[string]interface{}{
		"total":       total,
		"delivered":   delivered,
		"transferred": transferred,
		"recipients":  len(cmd.Recipients),
	})

	return &interfaces.TipResolution{
		ShiftID:       shift.ID,
		TotalTips:     total,
		Distributions: dists,
		Delivered:     delivered,
		Transferred:   transferred,
	}, nil
}

// Close reconciles the drawer and ends the shift. Preconditions: the
// shift is open, tips (if any) are resolved, and the counted cash
// matches the expected amount unless a supervisor authorized the
// difference. Close is terminal.
func (s *Service) Close(ctx context.Context, sess domain.Session, cmd interfaces.CloseShiftCommand) (*interfaces.CloseShiftResult, error) {
	shift, err := s.shifts.FindByID(ctx, cmd.ShiftID)
	if err != nil {
		return nil, err
	}
	if !shift.IsOpen() {
		return nil, domain.ErrShiftClosed
	}

	summary, err := s.sales.SummarizeShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	dists, err := s.shifts.ListTipDistributions(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	if summary.TotalTips+shift.PendingTips > 0 && len(dists) == 0 {
		return nil, domain.ErrTipsUnresolved
	}

	arqueo := domain.ReconcileCash(cmd.Count, shift.InitialCash, summary.CashSales, summary.TotalExpenses)
	if arqueo.Difference != 0 && cmd.AuthorizedBy == nil {
		s.logger.Info("cash_difference_blocked", "Close blocked by cash difference", shift.ID, map[string]interface{}{
			"counted":  arqueo.Counted,
			"expected": arqueo.Expected,
		})
		return nil, domain.ErrCashDifference
	}

	// Tip payouts are stored as expenses; split them back out so the
	// consolidation does not subtract them twice.
	var tipsPaid int64
	for _, d := range dists {
		if d.Decision == domain.TipDeliver {
			tipsPaid += d.Amount
		}
	}
	internal := domain.LedgerTotals{
		Base:     shift.InitialCash,
		Cash:     summary.CashSales,
		Card:     summary.CardSales,
		Transfer: summary.TransferSales,
		Expenses: summary.TotalExpenses - tipsPaid,
		Counted:  arqueo.Counted,
	}
	consolidation := domain.Consolidate(internal, cmd.External, tipsPaid)

	now := time.Now().UTC()
	if err := s.shifts.Close(ctx, shift.ID, arqueo.Counted, arqueo.Expected, now); err != nil {
		s.logger.Error("shift_close_failed", "Failed to close shift", shift.ID, nil, err)
		return nil, err
	}

	closed, err := s.shifts.FindByID(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	s.announce(ctx, domain.TableShifts, shift.ID, sess.BranchID)
	s.logger.Info("shift_closed", "Shift closed", shift.ID, map[string]interface{}{
		"counted":    arqueo.Counted,
		"expected":   arqueo.Expected,
		"difference": arqueo.Difference,
		"authorized": cmd.AuthorizedBy != nil,
		"handover":   consolidation.Handover,
	})

	return &interfaces.CloseShiftResult{
		Shift:         closed,
		Summary:       summary,
		Arqueo:        arqueo,
		Consolidation: consolidation,
	}, nil
}

func (s *Service) resolveOrganization(ctx context.Context, sess domain.Session) string {
	if sess.OrganizationID != "" {
		return sess.OrganizationID
	}
	org, err := s.users.OrganizationOf(ctx, sess.UserID)
	if err != nil || org == "" {
		return domain.LegacyOrganizationID
	}
	return org
}

func (s *Service) announce(ctx context.Context, table domain.SyncTable, entityID, branchID string) {
	msg := interfaces.MutationMessage{
		Table:      table,
		EntityID:   entityID,
		Op:         "upsert",
		BranchID:   branchID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishMutation(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("mutation_publish_failed", "Failed to publish mutation event", entityID, map[string]interface{}{
			"table": table,
		}, err)
	}
}

var _ interfaces.ShiftService = (*Service)(nil)
