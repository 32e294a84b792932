package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/memory"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type fakeGateway struct {
	uploads  [][]*domain.Sale
	failNext bool
	products []*domain.Product
}

func (g *fakeGateway) ExchangeToken(context.Context, string) (*interfaces.Token, error) {
	return &interfaces.Token{AccessToken: "token"}, nil
}

func (g *fakeGateway) UploadSales(_ context.Context, _ string, sales []*domain.Sale) error {
	if g.failNext {
		return assert.AnError
	}
	g.uploads = append(g.uploads, sales)
	return nil
}

func (g *fakeGateway) FetchProducts(context.Context, string) ([]*domain.Product, error) {
	return g.products, nil
}

type fixture struct {
	service      *Service
	store        *memory.Store
	sales        interfaces.SaleRepository
	orders       interfaces.OrderRepository
	reservations interfaces.ReservationRepository
	gateway      *fakeGateway
}

func newFixture(t *testing.T, batchSize int) *fixture {
	t.Helper()
	store := memory.NewStore()
	gateway := &fakeGateway{}
	sales := memory.NewSaleRepository(store)
	reservations := memory.NewReservationRepository(store)

	svc := NewService(sales, memory.NewSyncRepository(store), memory.NewProductRepository(store),
		reservations, gateway, "branch-1", batchSize, logger.New("test", "till-1"))
	return &fixture{
		service:      svc,
		store:        store,
		sales:        sales,
		orders:       memory.NewOrderRepository(store),
		reservations: reservations,
		gateway:      gateway,
	}
}

func (f *fixture) addSale(t *testing.T, amount int64) *domain.Sale {
	t.Helper()
	sale, err := domain.NewSale("org-1", "branch-1", nil, domain.PaymentCash, 0, 0,
		[]domain.SaleItem{{ProductID: "p1", Qty: 1, UnitPrice: amount}})
	require.NoError(t, err)
	require.NoError(t, f.sales.Create(context.Background(), sale))
	return sale
}

func TestRunUploadsAndMarksSynced(t *testing.T) {
	f := newFixture(t, 50)
	ctx := context.Background()

	first := f.addSale(t, 5000)
	second := f.addSale(t, 7000)

	report, err := f.service.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.UploadedSales)

	require.Len(t, f.gateway.uploads, 1)
	assert.Len(t, f.gateway.uploads[0], 2)

	for _, id := range []string{first.ID, second.ID} {
		sale, err := f.sales.FindByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, sale.Synced)
	}

	// An acknowledged row never re-uploads.
	report, err = f.service.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.UploadedSales)
	assert.Len(t, f.gateway.uploads, 1)
}

func TestRunClearsConfirmedHoldsAfterUpload(t *testing.T) {
	f := newFixture(t, 50)
	ctx := context.Background()

	hold, err := domain.NewStockReservation("p1", 2, domain.SourceOrder, "order-1")
	require.NoError(t, err)
	hold.Status = domain.ReservationConfirmed
	openTicket, err := domain.NewStockReservation("p1", 1, domain.SourceOrder, "order-2")
	require.NoError(t, err)
	require.NoError(t, f.reservations.CreateMany(ctx, []*domain.StockReservation{hold, openTicket}))

	sale, err := domain.NewSale("org-1", "branch-1", nil, domain.PaymentCash, 0, 0,
		[]domain.SaleItem{{ProductID: "p1", Qty: 2, UnitPrice: 5000}})
	require.NoError(t, err)
	orderID := "order-1"
	sale.OrderID = &orderID
	require.NoError(t, f.sales.Create(ctx, sale))

	// Until the remote acknowledges the sale, its holds keep pricing
	// the stock out of availability.
	held, err := f.reservations.ReservedQty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, held)

	report, err := f.service.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UploadedSales)

	held, err = f.reservations.ReservedQty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, held, "only the settled ticket's holds are released")
}

func TestRunFailureKeepsConfirmedHolds(t *testing.T) {
	f := newFixture(t, 50)
	ctx := context.Background()

	hold, err := domain.NewStockReservation("p1", 3, domain.SourceOrder, "order-1")
	require.NoError(t, err)
	hold.Status = domain.ReservationConfirmed
	require.NoError(t, f.reservations.CreateMany(ctx, []*domain.StockReservation{hold}))

	sale, err := domain.NewSale("org-1", "branch-1", nil, domain.PaymentCash, 0, 0,
		[]domain.SaleItem{{ProductID: "p1", Qty: 3, UnitPrice: 1000}})
	require.NoError(t, err)
	orderID := "order-1"
	sale.OrderID = &orderID
	require.NoError(t, f.sales.Create(ctx, sale))

	f.gateway.failNext = true
	_, err = f.service.Run(ctx)
	require.Error(t, err)

	held, err := f.reservations.ReservedQty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, held, "a failed upload must not free the stock")
}

func TestRunBatchesOldestFirst(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Minute)
	mkSale := func(offset time.Duration) *domain.Sale {
		sale, err := domain.NewSale("org-1", "branch-1", nil, domain.PaymentCash, 0, 0,
			[]domain.SaleItem{{ProductID: "p1", Qty: 1, UnitPrice: 1000}})
		require.NoError(t, err)
		sale.CreatedAt = base.Add(offset)
		require.NoError(t, f.sales.Create(ctx, sale))
		return sale
	}

	first := mkSale(0)
	second := mkSale(time.Second)
	third := mkSale(2 * time.Second)

	report, err := f.service.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.UploadedSales)

	require.Len(t, f.gateway.uploads, 1)
	batch := f.gateway.uploads[0]
	assert.Equal(t, first.ID, batch[0].ID)
	assert.Equal(t, second.ID, batch[1].ID)

	sale, err := f.sales.FindByID(ctx, third.ID)
	require.NoError(t, err)
	assert.False(t, sale.Synced, "the third sale waits for the next run")
}

func TestRunFailureLeavesRowsUnsynced(t *testing.T) {
	f := newFixture(t, 50)
	ctx := context.Background()

	sale := f.addSale(t, 5000)
	f.gateway.failNext = true

	_, err := f.service.Run(ctx)
	require.Error(t, err)

	stored, err := f.sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.False(t, stored.Synced)

	// The next trigger retries the same batch.
	f.gateway.failNext = false
	report, err := f.service.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UploadedSales)
}

func TestRunReportsDeferredTables(t *testing.T) {
	f := newFixture(t, 50)
	ctx := context.Background()

	order, err := domain.NewOrder("org-1", "branch-1", nil, 1, []domain.OrderItem{
		{ProductID: "p1", Qty: 1, UnitPrice: 1000},
	})
	require.NoError(t, err)
	require.NoError(t, f.orders.Create(ctx, order))

	report, err := f.service.Run(ctx)
	require.NoError(t, err)

	deferred := report.DeferredTables()
	assert.Contains(t, deferred, domain.TableOrders)
	assert.NotContains(t, deferred, domain.TableSales)

	for _, outcome := range report.Outcomes {
		if outcome.Table == domain.TableOrders {
			assert.False(t, outcome.Handled)
			assert.Equal(t, 1, outcome.Pending)
		}
		if outcome.Table == domain.TableSales {
			assert.True(t, outcome.Handled)
		}
	}
}

func TestPullProducts(t *testing.T) {
	f := newFixture(t, 50)
	ctx := context.Background()

	f.gateway.products = []*domain.Product{
		{ID: "p1", BranchID: "branch-1", Name: "pan", Price: 2000, Stock: 10},
		{ID: "p2", BranchID: "branch-1", Name: "cafe", Price: 3000, Stock: 5},
	}

	n, err := f.service.PullProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	products := memory.NewProductRepository(f.store)
	stored, err := products.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "pan", stored.Name)
	assert.Equal(t, 10, stored.Stock)
}
