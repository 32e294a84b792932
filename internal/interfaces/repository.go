package interfaces

import (
	"context"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
)

// Repository contracts (adapter/postgres, adapter/memory). Multi-row
// writes execute inside a single transaction in every implementation.

type SaleRepository interface {
	// Create writes the sale and its items atomically.
	Create(ctx context.Context, sale *domain.Sale) error
	FindByID(ctx context.Context, id string) (*domain.Sale, error)
	// ListUnsynced returns the oldest unsynced sales with their items.
	ListUnsynced(ctx context.Context, limit int) ([]*domain.Sale, error)
	// MarkSynced flips the synced flag for all ids in one transaction.
	MarkSynced(ctx context.Context, ids []string) error
	SummarizeShift(ctx context.Context, shiftID string) (*domain.ShiftSummary, error)
	ProductTrend(ctx context.Context, branchID string, from, to time.Time) ([]domain.ProductTrend, error)
}

type OrderRepository interface {
	// Create writes the order and its items atomically.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// Item mutations apply only while the order is pending and return
	// domain.ErrOrderCompleted otherwise.
	AddItem(ctx context.Context, orderID string, item domain.OrderItem) error
	UpdateItem(ctx context.Context, orderID string, item domain.OrderItem) error
	RemoveItem(ctx context.Context, orderID, itemID string) error
	// Complete is terminal and binds the settling shift.
	Complete(ctx context.Context, orderID string, shiftID *string) error
	// Delete removes a cancelled pending order with its items.
	Delete(ctx context.Context, orderID string) error
	ListByTable(ctx context.Context, tableID string, status domain.OrderStatus) ([]*domain.Order, error)
}

type ShiftRepository interface {
	// Open inserts the shift unless one is already open for the same
	// (user, branch); the check and insert are one transaction and the
	// existing open shift is returned instead of a duplicate.
	Open(ctx context.Context, shift *domain.Shift) (*domain.Shift, error)
	FindByID(ctx context.Context, id string) (*domain.Shift, error)
	FindOpen(ctx context.Context, userID, branchID string) (*domain.Shift, error)
	Close(ctx context.Context, id string, finalCash, expectedCash int64, end time.Time) error
	AddExpense(ctx context.Context, expense *domain.Expense) error
	ListExpenses(ctx context.Context, shiftID string) ([]*domain.Expense, error)
	// SaveTipDistributions writes the resolved shares and any payout
	// expenses in one transaction.
	SaveTipDistributions(ctx context.Context, dists []*domain.TipDistribution, payouts []*domain.Expense) error
	ListTipDistributions(ctx context.Context, shiftID string) ([]*domain.TipDistribution, error)
	// LastTransferredTips sums the transfer-decided shares of the most
	// recently closed shift in the branch.
	LastTransferredTips(ctx context.Context, branchID string) (int64, error)
}

type ReservationRepository interface {
	CreateMany(ctx context.Context, reservations []*domain.StockReservation) error
	ListBySource(ctx context.Context, sourceType domain.ReservationSource, sourceID string) ([]*domain.StockReservation, error)
	ConfirmBySource(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error
	DeleteBySource(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error
	DeleteByProduct(ctx context.Context, sourceType domain.ReservationSource, sourceID, productID string) error
	ClearConfirmed(ctx context.Context, sourceType domain.ReservationSource, sourceID string) error
	// ReservedQty sums pending plus confirmed holds for the product.
	ReservedQty(ctx context.Context, productID string) (int, error)
	// DeleteExpiredPending removes pending rows strictly older than the
	// cutoff. Confirmed rows are never touched.
	DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error)
}

type ProductRepository interface {
	Paginate(ctx context.Context, query domain.ProductQuery) (*domain.ProductPage, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, product *domain.Product) error
}

type TableRepository interface {
	Create(ctx context.Context, table *domain.Table) error
	FindByID(ctx context.Context, id string) (*domain.Table, error)
	List(ctx context.Context, branchID string) ([]*domain.Table, error)
	UpdateStatus(ctx context.Context, id string, status domain.TableStatus) error
}

// UserRepository resolves locally mirrored user accounts; the sale
// path uses it to recover a missing organization id.
type UserRepository interface {
	OrganizationOf(ctx context.Context, userID string) (string, error)
}

// SyncRepository exposes the change-feed counters the connector uses
// to report deferred tables.
type SyncRepository interface {
	UnsyncedCount(ctx context.Context, table domain.SyncTable) (int, error)
}
