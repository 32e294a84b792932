package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountedCash(t *testing.T) {
	tests := []struct {
		name  string
		lines []DenominationCount
		want  int64
	}{
		{
			name: "mixed denominations",
			lines: []DenominationCount{
				{Denomination: 50000, Count: 2},
				{Denomination: 20000, Count: 1},
				{Denomination: 500, Count: 4},
			},
			want: 122000,
		},
		{
			name:  "empty count",
			lines: nil,
			want:  0,
		},
		{
			name: "zero count lines ignored",
			lines: []DenominationCount{
				{Denomination: 100000, Count: 0},
				{Denomination: 1000, Count: 3},
			},
			want: 3000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountedCash(tt.lines))
		})
	}
}

func TestReconcileCash(t *testing.T) {
	// expected = initial + cash sales - expenses
	lines := []DenominationCount{
		{Denomination: 100000, Count: 1},
		{Denomination: 20000, Count: 2},
	}

	arqueo := ReconcileCash(lines, 100000, 50000, 10000)

	assert.Equal(t, int64(140000), arqueo.Counted)
	assert.Equal(t, int64(140000), arqueo.Expected)
	assert.Equal(t, int64(0), arqueo.Difference)
}

func TestReconcileCashShortDrawer(t *testing.T) {
	lines := []DenominationCount{{Denomination: 100000, Count: 1}}

	arqueo := ReconcileCash(lines, 100000, 50000, 10000)

	assert.Equal(t, int64(100000), arqueo.Counted)
	assert.Equal(t, int64(140000), arqueo.Expected)
	assert.Equal(t, int64(-40000), arqueo.Difference)
}

func TestConsolidate(t *testing.T) {
	internal := LedgerTotals{
		Base:     100000,
		Cash:     50000,
		Card:     30000,
		Transfer: 20000,
		Expenses: 10000,
		Counted:  150000,
	}
	external := LedgerTotals{
		Base:     50000,
		Cash:     25000,
		Expenses: 5000,
		Counted:  70000,
	}

	c := Consolidate(internal, external, 8000)

	// 100000+50000 + 50000+25000 + 30000 + 20000 - 10000 - 5000 - 8000
	require.Equal(t, int64(252000), c.Expected)
	assert.Equal(t, int64(220000), c.Actual)
	assert.Equal(t, int64(-32000), c.Difference)
	assert.Equal(t, int64(220000), c.Handover)
}
