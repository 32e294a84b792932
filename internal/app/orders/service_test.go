package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/memory"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/app/stockhold"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type fixture struct {
	service      *Service
	tables       interfaces.TableRepository
	reservations interfaces.ReservationRepository
	sess         domain.Session
	table        *domain.Table
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	lgr := logger.New("test", "till-1")

	tables := memory.NewTableRepository(store)
	reservations := memory.NewReservationRepository(store)
	holds := stockhold.NewService(reservations, memory.NewProductRepository(store), lgr)

	table, err := domain.NewTable("org-1", "branch-1", "mesa 1")
	require.NoError(t, err)
	require.NoError(t, tables.Create(context.Background(), table))

	svc := NewService(memory.NewOrderRepository(store), tables, memory.NewUserRepository(store), holds, lgr)
	return &fixture{
		service:      svc,
		tables:       tables,
		reservations: reservations,
		sess:         domain.Session{OrganizationID: "org-1", BranchID: "branch-1", UserID: "user-1"},
		table:        table,
	}
}

func (f *fixture) openOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := f.service.OpenOrder(context.Background(), f.sess, interfaces.OpenOrderCommand{
		TableID: &f.table.ID,
		Diners:  2,
		Items: []interfaces.OrderItemCommand{
			{ProductID: "pan", Qty: 2, UnitPrice: 5000},
			{ProductID: "cafe", Qty: 1, UnitPrice: 3000},
		},
	})
	require.NoError(t, err)
	return order
}

func TestOpenOrderHoldsStockAndOccupiesTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.openOrder(t)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, int64(13000), order.Total)

	held, err := f.reservations.ReservedQty(ctx, "pan")
	require.NoError(t, err)
	assert.Equal(t, 2, held)

	table, err := f.tables.FindByID(ctx, f.table.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableOccupied, table.Status)
}

func TestAddAndRemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.openOrder(t)

	updated, err := f.service.AddItem(ctx, f.sess, order.ID, interfaces.OrderItemCommand{
		ProductID: "jugo", Qty: 2, UnitPrice: 4000,
	})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 3)
	assert.Equal(t, int64(21000), updated.Total)

	var jugoItem string
	for _, item := range updated.Items {
		if item.ProductID == "jugo" {
			jugoItem = item.ID
		}
	}
	require.NotEmpty(t, jugoItem)

	updated, err = f.service.RemoveItem(ctx, f.sess, order.ID, jugoItem)
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)
	assert.Equal(t, int64(13000), updated.Total)

	held, err := f.reservations.ReservedQty(ctx, "jugo")
	require.NoError(t, err)
	assert.Equal(t, 0, held, "removing the item drops its hold")
}

func TestUpdateItemAdjustsHolds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.openOrder(t)

	updated, err := f.service.UpdateItem(ctx, f.sess, order.ID, order.Items[0].ID, interfaces.OrderItemCommand{
		Qty: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Items[0].Qty)
	assert.Equal(t, int64(28000), updated.Total)

	held, err := f.reservations.ReservedQty(ctx, order.Items[0].ProductID)
	require.NoError(t, err)
	assert.Equal(t, 5, held)
}

func TestHoldsListTicketReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.openOrder(t)
	holds, err := f.service.Holds(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, holds, 2)
	for _, hold := range holds {
		assert.Equal(t, domain.ReservationPending, hold.Status)
		assert.Equal(t, order.ID, hold.SourceID)
	}

	_, err = f.service.Holds(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCompleteOrderIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.openOrder(t)

	shiftID := "shift-1"
	completed, err := f.service.CompleteOrder(ctx, f.sess, order.ID, &shiftID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, completed.Status)
	require.NotNil(t, completed.ShiftID)
	assert.Equal(t, shiftID, *completed.ShiftID)

	// Holds moved to confirmed.
	holds, err := f.reservations.ListBySource(ctx, domain.SourceOrder, order.ID)
	require.NoError(t, err)
	for _, hold := range holds {
		assert.Equal(t, domain.ReservationConfirmed, hold.Status)
	}

	// The table frees once nothing pending remains on it.
	table, err := f.tables.FindByID(ctx, f.table.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableFree, table.Status)

	// A completed order rejects every mutation.
	_, err = f.service.AddItem(ctx, f.sess, order.ID, interfaces.OrderItemCommand{ProductID: "pan", Qty: 1, UnitPrice: 1000})
	assert.ErrorIs(t, err, domain.ErrOrderCompleted)
	err = f.service.CancelOrder(ctx, f.sess, order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderCompleted)
}

func TestCancelOrderReleasesHolds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.openOrder(t)

	require.NoError(t, f.service.CancelOrder(ctx, f.sess, order.ID))

	_, err := f.service.CompleteOrder(ctx, f.sess, order.ID, nil)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	held, err := f.reservations.ReservedQty(ctx, "pan")
	require.NoError(t, err)
	assert.Equal(t, 0, held)

	table, err := f.tables.FindByID(ctx, f.table.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableFree, table.Status)
}

func TestTableKeepsOccupiedWhileOtherOrdersPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.openOrder(t)
	_ = f.openOrder(t)

	_, err := f.service.CompleteOrder(ctx, f.sess, first.ID, nil)
	require.NoError(t, err)

	table, err := f.tables.FindByID(ctx, f.table.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableOccupied, table.Status)
}

func TestOrdersForTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.openOrder(t)
	second := f.openOrder(t)
	_, err := f.service.CompleteOrder(ctx, f.sess, first.ID, nil)
	require.NoError(t, err)

	pending, err := f.service.OrdersForTable(ctx, f.table.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
