package domain

import "errors"

var (
	ErrShiftNotFound   = errors.New("shift not found")
	ErrShiftNotOpen    = errors.New("shift is not open")
	ErrShiftClosed     = errors.New("shift already closed")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderCompleted  = errors.New("order already completed")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrProductNotFound = errors.New("product not found")
	ErrTableNotFound   = errors.New("table not found")

	// ErrCashDifference blocks a close whose counted cash deviates from
	// the expected drawer amount without supervisor authorization.
	ErrCashDifference = errors.New("cash count differs from expected amount")

	// ErrTipsUnresolved blocks a close while any tip recipient's share
	// is still undecided.
	ErrTipsUnresolved = errors.New("tip distribution not resolved")

	// ErrTipsAlreadyResolved rejects a second resolution; the payout
	// expenses are already written and must not double.
	ErrTipsAlreadyResolved = errors.New("tip distribution already resolved")

	ErrNoRecipients    = errors.New("tip distribution requires at least one recipient")
	ErrDecisionMissing = errors.New("every tip recipient needs a deliver or transfer decision")
)
