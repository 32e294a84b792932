package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type shiftRepository struct {
	db DB
}

func NewShiftRepository(db DB) interfaces.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `id, organization_id, branch_id, user_id, start_time, end_time,
	initial_cash, final_cash, expected_cash, status, turn_type, pending_tips, synced`

func scanShift(row Row) (*domain.Shift, error) {
	var shift domain.Shift
	err := row.Scan(
		&shift.ID, &shift.OrganizationID, &shift.BranchID, &shift.UserID,
		&shift.StartTime, &shift.EndTime, &shift.InitialCash, &shift.FinalCash,
		&shift.ExpectedCash, &shift.Status, &shift.TurnType, &shift.PendingTips, &shift.Synced,
	)
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// Open returns the existing open shift for (user, branch) when there
// is one, otherwise inserts. The check-then-insert alone cannot stop
// two concurrent opens (FOR UPDATE locks nothing when zero rows
// match); the partial unique index idx_shifts_open is what enforces
// at-most-one-open, and a loser of that race re-reads the winner.
func (r *shiftRepository) Open(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	existingQuery := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE user_id = $1 AND branch_id = $2 AND status = $3
		FOR UPDATE
	`
	existing, err := scanShift(tx.QueryRow(ctx, existingQuery, shift.UserID, shift.BranchID, domain.ShiftOpen))
	if err == nil {
		if commitErr := tx.Commit(ctx); commitErr != nil {
			return nil, commitErr
		}
		return existing, nil
	}

	insertQuery := `
		INSERT INTO shifts (id, organization_id, branch_id, user_id, start_time,
		                    initial_cash, status, turn_type, pending_tips, synced)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, insertQuery,
		shift.ID, shift.OrganizationID, shift.BranchID, shift.UserID, shift.StartTime,
		shift.InitialCash, shift.Status, shift.TurnType, shift.PendingTips, shift.Synced,
	)
	if err != nil {
		if isUniqueViolation(err) {
			_ = tx.Rollback(ctx)
			return r.FindOpen(ctx, shift.UserID, shift.BranchID)
		}
		return nil, fmt.Errorf("failed to insert shift: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return shift, nil
}

func (r *shiftRepository) FindByID(ctx context.Context, id string) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`
	shift, err := scanShift(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, domain.ErrShiftNotFound
	}
	return shift, nil
}

func (r *shiftRepository) FindOpen(ctx context.Context, userID, branchID string) (*domain.Shift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE user_id = $1 AND branch_id = $2 AND status = $3
	`
	shift, err := scanShift(r.db.QueryRow(ctx, query, userID, branchID, domain.ShiftOpen))
	if err != nil {
		return nil, domain.ErrShiftNotFound
	}
	return shift, nil
}

func (r *shiftRepository) Close(ctx context.Context, id string, finalCash, expectedCash int64, end time.Time) error {
	query := `
		UPDATE shifts
		SET status = $1, end_time = $2, final_cash = $3, expected_cash = $4, synced = false
		WHERE id = $5 AND status = $6
	`
	tag, err := r.db.Exec(ctx, query, domain.ShiftClosed, end, finalCash, expectedCash, id, domain.ShiftOpen)
	if err != nil {
		return fmt.Errorf("failed to close shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return domain.ErrShiftClosed
	}
	return nil
}

func (r *shiftRepository) AddExpense(ctx context.Context, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, organization_id, branch_id, shift_id, description, amount, created_at, synced)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		expense.ID, expense.OrganizationID, expense.BranchID, expense.ShiftID,
		expense.Description, expense.Amount, expense.CreatedAt, expense.Synced,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func (r *shiftRepository) ListExpenses(ctx context.Context, shiftID string) ([]*domain.Expense, error) {
	query := `
		SELECT id, organization_id, branch_id, shift_id, description, amount, created_at, synced
		FROM expenses
		WHERE shift_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.BranchID, &e.ShiftID,
			&e.Description, &e.Amount, &e.CreatedAt, &e.Synced); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, &e)
	}

	return expenses, nil
}

func (r *shiftRepository) SaveTipDistributions(ctx context.Context, dists []*domain.TipDistribution, payouts []*domain.Expense) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range dists {
		query := `
			INSERT INTO tip_distributions (id, shift_id, recipient, amount, decision, created_at, synced)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(ctx, query, d.ID, d.ShiftID, d.Recipient, d.Amount, d.Decision, d.CreatedAt, d.Synced); err != nil {
			return fmt.Errorf("failed to insert tip distribution: %w", err)
		}
	}

	for _, e := range payouts {
		query := `
			INSERT INTO expenses (id, organization_id, branch_id, shift_id, description, amount, created_at, synced)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		if _, err := tx.Exec(ctx, query, e.ID, e.OrganizationID, e.BranchID, e.ShiftID,
			e.Description, e.Amount, e.CreatedAt, e.Synced); err != nil {
			return fmt.Errorf("failed to insert tip payout expense: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *shiftRepository) ListTipDistributions(ctx context.Context, shiftID string) ([]*domain.TipDistribution, error) {
	query := `
		SELECT id, shift_id, recipient, amount, decision, created_at, synced
		FROM tip_distributions
		WHERE shift_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tip distributions: %w", err)
	}
	defer rows.Close()

	var dists []*domain.TipDistribution
	for rows.Next() {
		var d domain.TipDistribution
		if err := rows.Scan(&d.ID, &d.ShiftID, &d.Recipient, &d.Amount, &d.Decision, &d.CreatedAt, &d.Synced); err != nil {
			return nil, fmt.Errorf("failed to scan tip distribution: %w", err)
		}
		dists = append(dists, &d)
	}

	return dists, nil
}

func (r *shiftRepository) LastTransferredTips(ctx context.Context, branchID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(td.amount), 0)
		FROM tip_distributions td
		WHERE td.decision = $1
		  AND td.shift_id = (
			SELECT id FROM shifts
			WHERE branch_id = $2 AND status = $3
			ORDER BY end_time DESC
			LIMIT 1
		  )
	`
	var total int64
	if err := r.db.QueryRow(ctx, query, domain.TipTransfer, branchID, domain.ShiftClosed).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum transferred tips: %w", err)
	}
	return total, nil
}
