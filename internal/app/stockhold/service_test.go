package stockhold

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

func newService(t *testing.T) (*Service, interfaces.ReservationRepository, interfaces.ProductRepository) {
	t.Helper()
	store := memory.NewStore()
	reservations := memory.NewReservationRepository(store)
	products := memory.NewProductRepository(store)
	return NewService(reservations, products, logger.New("test", "till-1")), reservations, products
}

func seedProduct(t *testing.T, products interfaces.ProductRepository, id string, stock int) {
	t.Helper()
	require.NoError(t, products.Upsert(context.Background(), &domain.Product{
		ID:       id,
		BranchID: "branch-1",
		Name:     id,
		Price:    1000,
		Stock:    stock,
	}))
}

func TestReserveAndAvailable(t *testing.T) {
	svc, _, products := newService(t)
	ctx := context.Background()
	seedProduct(t, products, "pan", 10)

	res, err := svc.Reserve(ctx, "pan", 3, domain.SourceOrder, "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, res.Status)

	available, err := svc.Available(ctx, "pan")
	require.NoError(t, err)
	assert.Equal(t, 7, available)
}

func TestAvailableCountsConfirmedHolds(t *testing.T) {
	svc, _, products := newService(t)
	ctx := context.Background()
	seedProduct(t, products, "pan", 10)

	_, err := svc.Reserve(ctx, "pan", 4, domain.SourceOrder, "order-1")
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, domain.SourceOrder, "order-1"))

	available, err := svc.Available(ctx, "pan")
	require.NoError(t, err)
	assert.Equal(t, 6, available, "confirmed holds still count against availability")
}

func TestReserveManyRejectsInvalidLine(t *testing.T) {
	svc, reservations, products := newService(t)
	ctx := context.Background()
	seedProduct(t, products, "pan", 10)

	_, err := svc.ReserveMany(ctx, []interfaces.ReserveLine{
		{ProductID: "pan", Qty: 2},
		{ProductID: "pan", Qty: 0},
	}, domain.SourceOrder, "order-1")
	require.Error(t, err)

	// Nothing was written for the partially invalid set.
	held, err := reservations.ReservedQty(ctx, "pan")
	require.NoError(t, err)
	assert.Equal(t, 0, held)
}

func TestReleaseDropsAllHolds(t *testing.T) {
	svc, _, products := newService(t)
	ctx := context.Background()
	seedProduct(t, products, "pan", 10)

	_, err := svc.Reserve(ctx, "pan", 2, domain.SourceOrder, "order-1")
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, domain.SourceOrder, "order-1"))
	_, err = svc.Reserve(ctx, "pan", 1, domain.SourceOrder, "order-1")
	require.NoError(t, err)

	require.NoError(t, svc.Release(ctx, domain.SourceOrder, "order-1"))

	available, err := svc.Available(ctx, "pan")
	require.NoError(t, err)
	assert.Equal(t, 10, available)
}

func TestSweepExpiredTouchesOnlyStalePending(t *testing.T) {
	svc, reservations, products := newService(t)
	ctx := context.Background()
	seedProduct(t, products, "pan", 20)

	stalePending, err := domain.NewStockReservation("pan", 2, domain.SourceOrder, "order-old")
	require.NoError(t, err)
	stalePending.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)

	staleConfirmed, err := domain.NewStockReservation("pan", 3, domain.SourceDelivery, "delivery-old")
	require.NoError(t, err)
	staleConfirmed.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	staleConfirmed.Status = domain.ReservationConfirmed

	fresh, err := domain.NewStockReservation("pan", 4, domain.SourceOrder, "order-new")
	require.NoError(t, err)

	require.NoError(t, reservations.CreateMany(ctx, []*domain.StockReservation{stalePending, staleConfirmed, fresh}))

	swept, err := svc.SweepExpired(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	held, err := reservations.ReservedQty(ctx, "pan")
	require.NoError(t, err)
	assert.Equal(t, 7, held, "confirmed and fresh holds survive the sweep")
}
