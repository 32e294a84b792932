package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTips(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		recipients []string
		want       []int64
	}{
		{
			name:       "even split",
			total:      9000,
			recipients: []string{"ana", "luis", "sofia"},
			want:       []int64{3000, 3000, 3000},
		},
		{
			name:       "remainder goes to first recipient",
			total:      10000,
			recipients: []string{"ana", "luis", "sofia"},
			want:       []int64{3334, 3333, 3333},
		},
		{
			name:       "single recipient takes all",
			total:      7500,
			recipients: []string{"ana"},
			want:       []int64{7500},
		},
		{
			name:       "zero total still decides every recipient",
			total:      0,
			recipients: []string{"ana", "luis"},
			want:       []int64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := SplitTips(tt.total, tt.recipients)
			require.NoError(t, err)
			require.Len(t, shares, len(tt.want))

			var sum int64
			for i, share := range shares {
				assert.Equal(t, tt.recipients[i], share.Recipient)
				assert.Equal(t, tt.want[i], share.Amount)
				sum += share.Amount
			}
			assert.Equal(t, tt.total, sum, "shares must sum exactly to the total")
		})
	}
}

func TestSplitTipsNoRecipients(t *testing.T) {
	_, err := SplitTips(5000, nil)
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestResolveTipShares(t *testing.T) {
	shares := []TipShare{
		{Recipient: "ana", Amount: 4000},
		{Recipient: "luis", Amount: 3000},
	}
	decisions := map[string]TipDecision{
		"ana":  TipDeliver,
		"luis": TipTransfer,
	}

	dists, err := ResolveTipShares("shift-1", shares, decisions)
	require.NoError(t, err)
	require.Len(t, dists, 2)

	assert.Equal(t, TipDeliver, dists[0].Decision)
	assert.Equal(t, int64(4000), dists[0].Amount)
	assert.Equal(t, TipTransfer, dists[1].Decision)
	assert.Equal(t, "shift-1", dists[1].ShiftID)
	assert.NotEmpty(t, dists[0].ID)
}

func TestResolveTipSharesMissingDecision(t *testing.T) {
	shares := []TipShare{
		{Recipient: "ana", Amount: 4000},
		{Recipient: "luis", Amount: 3000},
	}

	_, err := ResolveTipShares("shift-1", shares, map[string]TipDecision{"ana": TipDeliver})
	assert.ErrorIs(t, err, ErrDecisionMissing)

	_, err = ResolveTipShares("shift-1", shares, map[string]TipDecision{
		"ana":  TipDeliver,
		"luis": TipDecision("keep"),
	})
	assert.ErrorIs(t, err, ErrDecisionMissing)
}
