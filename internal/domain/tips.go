package domain

import (
	"time"

	"github.com/google/uuid"
)

type TipDecision string

const (
	// TipDeliver pays the share out now; an Expense is recorded for it.
	TipDeliver TipDecision = "deliver"
	// TipTransfer rolls the share into the next shift's pending tips.
	TipTransfer TipDecision = "transfer"
)

// TipDistribution is one recipient's resolved share of a shift's tips.
// Append-only once written.
type TipDistribution struct {
	ID        string
	ShiftID   string
	Recipient string
	Amount    int64
	Decision  TipDecision
	CreatedAt time.Time
	Synced    bool
}

type TipShare struct {
	Recipient string
	Amount    int64
}

// SplitTips divides total evenly across recipients. The integer
// remainder goes to the first recipient, so shares always sum exactly
// to total.
func SplitTips(total int64, recipients []string) ([]TipShare, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	n := int64(len(recipients))
	base := total / n
	remainder := total % n

	shares := make([]TipShare, len(recipients))
	for i, r := range recipients {
		amount := base
		if i == 0 {
			amount += remainder
		}
		shares[i] = TipShare{Recipient: r, Amount: amount}
	}
	return shares, nil
}

// ResolveTipShares pairs each computed share with its decision. Every
// recipient must be decided; a missing decision fails the whole
// resolution.
func ResolveTipShares(shiftID string, shares []TipShare, decisions map[string]TipDecision) ([]*TipDistribution, error) {
	now := time.Now().UTC()
	dists := make([]*TipDistribution, 0, len(shares))
	for _, share := range shares {
		decision, ok := decisions[share.Recipient]
		if !ok {
			return nil, ErrDecisionMissing
		}
		if decision != TipDeliver && decision != TipTransfer {
			return nil, ErrDecisionMissing
		}
		dists = append(dists, &TipDistribution{
			ID:        uuid.NewString(),
			ShiftID:   shiftID,
			Recipient: share.Recipient,
			Amount:    share.Amount,
			Decision:  decision,
			CreatedAt: now,
		})
	}
	return dists, nil
}
