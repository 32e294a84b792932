package domain

// SyncTable names a local table whose rows carry a synced flag. The
// set is closed: the sync connector only ever reasons about these.
type SyncTable string

const (
	TableSales            SyncTable = "sales"
	TableOrders           SyncTable = "orders"
	TableShifts           SyncTable = "shifts"
	TableExpenses         SyncTable = "expenses"
	TableTipDistributions SyncTable = "tip_distributions"
	TableTables           SyncTable = "tables"
)

// SyncTables lists every syncable table in upload-priority order.
// Sales are the only table wired into graph sync today; the rest are
// reported as deferred, never dropped.
var SyncTables = []SyncTable{
	TableSales,
	TableOrders,
	TableShifts,
	TableExpenses,
	TableTipDistributions,
	TableTables,
}

// TableOutcome is the tagged result of considering one table during an
// upload run, so deferral is observable instead of a side-effecting
// log line.
type TableOutcome struct {
	Table    SyncTable `json:"table"`
	Handled  bool      `json:"handled"`
	Uploaded int       `json:"uploaded"`
	Pending  int       `json:"pending"`
}

// Deferred reports whether the table still has rows waiting on a
// future connector.
func (o TableOutcome) Deferred() bool {
	return !o.Handled && o.Pending > 0
}
