package interfaces

import (
	"context"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
)

// Service contracts (business logic).

type CheckoutService interface {
	RecordSale(ctx context.Context, sess domain.Session, cmd RecordSaleCommand) (*domain.Sale, error)
}

type OrderService interface {
	OpenOrder(ctx context.Context, sess domain.Session, cmd OpenOrderCommand) (*domain.Order, error)
	AddItem(ctx context.Context, sess domain.Session, orderID string, cmd OrderItemCommand) (*domain.Order, error)
	UpdateItem(ctx context.Context, sess domain.Session, orderID, itemID string, cmd OrderItemCommand) (*domain.Order, error)
	RemoveItem(ctx context.Context, sess domain.Session, orderID, itemID string) (*domain.Order, error)
	CompleteOrder(ctx context.Context, sess domain.Session, orderID string, shiftID *string) (*domain.Order, error)
	CancelOrder(ctx context.Context, sess domain.Session, orderID string) error
	OrdersForTable(ctx context.Context, tableID string) ([]*domain.Order, error)
	// Holds lists the live stock holds backing the ticket.
	Holds(ctx context.Context, orderID string) ([]*domain.StockReservation, error)
}

type ShiftService interface {
	Open(ctx context.Context, sess domain.Session, cmd OpenShiftCommand) (*domain.Shift, error)
	// Current returns the session user's open shift, if any.
	Current(ctx context.Context, sess domain.Session) (*domain.Shift, error)
	Summarize(ctx context.Context, shiftID string) (*domain.ShiftSummary, error)
	AddExpense(ctx context.Context, sess domain.Session, cmd AddExpenseCommand) (*domain.Expense, error)
	ListExpenses(ctx context.Context, shiftID string) ([]*domain.Expense, error)
	ResolveTips(ctx context.Context, sess domain.Session, cmd ResolveTipsCommand) (*TipResolution, error)
	Close(ctx context.Context, sess domain.Session, cmd CloseShiftCommand) (*CloseShiftResult, error)
}

type ReservationService interface {
	Reserve(ctx context.Context, productID string, qty int, sourceType domain.ReservationSource, sourceID string) (*domain.StockReservation, error)
	ReserveMany(ctx context.Context, lines []ReserveLine, sourceType domain.ReservationSource, sourceID string) ([]*domain.StockReservation, error)
	Confirm(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error
	Release(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error
	// ReleaseProduct drops just one product's holds within a source,
	// for single-line ticket edits.
	ReleaseProduct(ctx context.Context, sourceType domain.ReservationSource, sourceID, productID string) error
	Holds(ctx context.Context, sourceType domain.ReservationSource, sourceID string) ([]*domain.StockReservation, error)
	Available(ctx context.Context, productID string) (int, error)
	SweepExpired(ctx context.Context, maxAge time.Duration) (int64, error)
}

type SyncService interface {
	// Run uploads one batch of unsynced sales and reports a tagged
	// outcome per syncable table.
	Run(ctx context.Context) (*UploadReport, error)
	PullProducts(ctx context.Context) (int, error)
}

// Commands and results.

type RecordSaleCommand struct {
	ShiftID       string
	PaymentMethod string
	Tip           int64
	Discount      int64
	Items         []SaleItemCommand
	// OrderID links the sale to the completed order whose stock holds
	// it confirms, if checkout settles a table ticket.
	OrderID *string
}

type SaleItemCommand struct {
	ProductID string
	Qty       int
	UnitPrice int64
}

type OpenOrderCommand struct {
	TableID *string
	Diners  int
	Items   []OrderItemCommand
}

type OrderItemCommand struct {
	ProductID string
	Qty       int
	UnitPrice int64
}

type ReserveLine struct {
	ProductID string
	Qty       int
}

type OpenShiftCommand struct {
	InitialCash int64
	TurnType    string
}

type AddExpenseCommand struct {
	ShiftID     string
	Description string
	Amount      int64
}

type ResolveTipsCommand struct {
	ShiftID    string
	Recipients []string
	Decisions  map[string]domain.TipDecision
}

type TipResolution struct {
	ShiftID       string                    `json:"shift_id"`
	TotalTips     int64                     `json:"total_tips"`
	Distributions []*domain.TipDistribution `json:"distributions"`
	Delivered     int64                     `json:"delivered"`
	Transferred   int64                     `json:"transferred"`
}

type CloseShiftCommand struct {
	ShiftID string
	Count   []domain.DenominationCount
	// External is the second ledger's totals, entered at close.
	External domain.LedgerTotals
	// AuthorizedBy names the supervisor who signed off a nonzero
	// difference. Nil means no authorization was given.
	AuthorizedBy *string
}

type CloseShiftResult struct {
	Shift         *domain.Shift        `json:"shift"`
	Summary       *domain.ShiftSummary `json:"summary"`
	Arqueo        domain.Arqueo        `json:"arqueo"`
	Consolidation domain.Consolidation `json:"consolidation"`
}

type UploadReport struct {
	UploadedSales int                  `json:"uploaded_sales"`
	Outcomes      []domain.TableOutcome `json:"outcomes"`
}

// DeferredTables lists the tables still waiting on a future connector.
func (r *UploadReport) DeferredTables() []domain.SyncTable {
	var deferred []domain.SyncTable
	for _, o := range r.Outcomes {
		if o.Deferred() {
			deferred = append(deferred, o.Table)
		}
	}
	return deferred
}
