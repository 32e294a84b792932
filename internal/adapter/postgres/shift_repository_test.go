package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
)

type stubRow struct {
	shift *domain.Shift
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	s := r.shift
	*dest[0].(*string) = s.ID
	*dest[1].(*string) = s.OrganizationID
	*dest[2].(*string) = s.BranchID
	*dest[3].(*string) = s.UserID
	*dest[4].(*time.Time) = s.StartTime
	*dest[5].(**time.Time) = s.EndTime
	*dest[6].(*int64) = s.InitialCash
	*dest[7].(**int64) = s.FinalCash
	*dest[8].(**int64) = s.ExpectedCash
	*dest[9].(*domain.ShiftStatus) = s.Status
	*dest[10].(*domain.TurnType) = s.TurnType
	*dest[11].(*int64) = s.PendingTips
	*dest[12].(*bool) = s.Synced
	return nil
}

// raceDB plays the losing side of two concurrent opens: the in-tx
// existence check sees no open shift, the insert then hits the partial
// unique index, and the follow-up read returns the winner's row.
type raceDB struct {
	winner  *domain.Shift
	inserts int
}

func (d *raceDB) Query(context.Context, string, ...any) (Rows, error) {
	return nil, errors.New("unexpected query")
}

func (d *raceDB) QueryRow(context.Context, string, ...any) Row {
	return stubRow{shift: d.winner}
}

func (d *raceDB) Exec(context.Context, string, ...any) (CommandTag, error) {
	return nil, errors.New("unexpected exec")
}

func (d *raceDB) Begin(context.Context) (Tx, error) {
	return &raceTx{db: d}, nil
}

func (d *raceDB) Close() {}

type raceTx struct {
	db *raceDB
}

func (t *raceTx) Query(context.Context, string, ...any) (Rows, error) {
	return nil, errors.New("unexpected query")
}

func (t *raceTx) QueryRow(context.Context, string, ...any) Row {
	return stubRow{err: pgx.ErrNoRows}
}

func (t *raceTx) Exec(context.Context, string, ...any) (CommandTag, error) {
	t.db.inserts++
	return nil, &pgconn.PgError{Code: "23505", ConstraintName: "idx_shifts_open"}
}

func (t *raceTx) Commit(context.Context) error   { return nil }
func (t *raceTx) Rollback(context.Context) error { return nil }

func TestOpenReturnsWinnerAfterLosingInsertRace(t *testing.T) {
	winner, err := domain.NewShift("org-1", "branch-1", "user-1", 100000, domain.TurnMorning, 0)
	require.NoError(t, err)

	db := &raceDB{winner: winner}
	repo := NewShiftRepository(db)

	loser, err := domain.NewShift("org-1", "branch-1", "user-1", 50000, domain.TurnMorning, 0)
	require.NoError(t, err)

	opened, err := repo.Open(context.Background(), loser)
	require.NoError(t, err)

	assert.Equal(t, winner.ID, opened.ID, "the race loser must come back with the existing open shift")
	assert.Equal(t, int64(100000), opened.InitialCash)
	assert.Equal(t, 1, db.inserts)
}

func TestOpenPropagatesNonUniqueInsertErrors(t *testing.T) {
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
}
