package domain

// Denominations circulating at the tills, largest first. Used by the
// UI to render the arqueo form; the math below accepts any line set.
var Denominations = []int64{100000, 50000, 20000, 10000, 5000, 2000, 1000, 500, 200, 100, 50}

// DenominationCount is one line of a physical cash count (arqueo).
type DenominationCount struct {
	Denomination int64 `json:"denomination"`
	Count        int   `json:"count"`
}

// CountedCash sums a denomination breakdown into the drawer total.
func CountedCash(lines []DenominationCount) int64 {
	var total int64
	for _, l := range lines {
		total += l.Denomination * int64(l.Count)
	}
	return total
}

// ExpectedCash is the drawer amount the ledger predicts: the opening
// float plus cash sales minus expenses paid from the drawer.
func ExpectedCash(initialCash, cashSales, totalExpenses int64) int64 {
	return initialCash + cashSales - totalExpenses
}

// Arqueo is the outcome of reconciling a physical count against the
// ledger. A nonzero Difference blocks the close until a supervisor
// authorizes it.
type Arqueo struct {
	Counted    int64 `json:"counted"`
	Expected   int64 `json:"expected"`
	Difference int64 `json:"difference"`
}

func ReconcileCash(lines []DenominationCount, initialCash, cashSales, totalExpenses int64) Arqueo {
	counted := CountedCash(lines)
	expected := ExpectedCash(initialCash, cashSales, totalExpenses)
	return Arqueo{
		Counted:    counted,
		Expected:   expected,
		Difference: counted - expected,
	}
}

// LedgerTotals is one ledger's contribution to the end-of-shift
// consolidation. The business runs an internal and an external ledger
// per shift; the internal one is aggregated from the local store, the
// external one is entered at close. Counted is that ledger's physical
// cash count.
type LedgerTotals struct {
	Base     int64 `json:"base"`
	Cash     int64 `json:"cash"`
	Card     int64 `json:"card"`
	Transfer int64 `json:"transfer"`
	Expenses int64 `json:"expenses"`
	Counted  int64 `json:"counted"`
}

// Consolidation is the final aggregation across both ledgers: one
// expected/actual/difference used as the handover amount.
type Consolidation struct {
	Expected   int64 `json:"expected"`
	Actual     int64 `json:"actual"`
	Difference int64 `json:"difference"`
	Handover   int64 `json:"handover"`
}

// Consolidate sums both ledgers' base/cash/card/transfer totals,
// subtracts combined expenses and tips already paid out, and compares
// against the combined physical counts.
func Consolidate(internal, external LedgerTotals, tipsPaid int64) Consolidation {
	expected := internal.Base + external.Base +
		internal.Cash + external.Cash +
		internal.Card + external.Card +
		internal.Transfer + external.Transfer -
		internal.Expenses - external.Expenses -
		tipsPaid
	actual := internal.Counted + external.Counted
	return Consolidation{
		Expected:   expected,
		Actual:     actual,
		Difference: actual - expected,
		Handover:   actual,
	}
}
