package checkout

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

type fakePublisher struct {
	messages []interfaces.MutationMessage
	fail     bool
}

func (p *fakePublisher) PublishMutation(_ context.Context, msg interfaces.MutationMessage) error {
	if p.fail {
		return assert.AnError
	}
	p.messages = append(p.messages, msg)
	return nil
}

type fixture struct {
	service      *Service
	store        *memory.Store
	sales        interfaces.SaleRepository
	shifts       interfaces.ShiftRepository
	reservations interfaces.ReservationRepository
	publisher    *fakePublisher
	sess         domain.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	lgr := logger.New("test", "till-1")
	publisher := &fakePublisher{}

	sales := memory.NewSaleRepository(store)
	shifts := memory.NewShiftRepository(store)
	reservations := memory.NewReservationRepository(store)
	holds := stockhold.NewService(reservations, memory.NewProductRepository(store), lgr)

	svc := NewService(sales, shifts, memory.NewUserRepository(store), holds, publisher, lgr)
	return &fixture{
		service:      svc,
		store:        store,
		sales:        sales,
		shifts:       shifts,
		reservations: reservations,
		publisher:    publisher,
		sess:         domain.Session{OrganizationID: "org-1", BranchID: "branch-1", UserID: "user-1"},
	}
}

func (f *fixture) openShift(t *testing.T) *domain.Shift {
	t.Helper()
	shift, err := domain.NewShift("org-1", "branch-1", "user-1", 100000, domain.TurnMorning, 0)
	require.NoError(t, err)
	opened, err := f.shifts.Open(context.Background(), shift)
	require.NoError(t, err)
	return opened
}

func saleCmd(shiftID string) interfaces.RecordSaleCommand {
	return interfaces.RecordSaleCommand{
		ShiftID:       shiftID,
		PaymentMethod: string(domain.PaymentCash),
		Items: []interfaces.SaleItemCommand{
			{ProductID: "pan", Qty: 2, UnitPrice: 5000},
		},
	}
}

func TestRecordSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shift := f.openShift(t)

	sale, err := f.service.RecordSale(ctx, f.sess, saleCmd(shift.ID))
	require.NoError(t, err)

	assert.Equal(t, int64(10000), sale.Total)
	assert.Equal(t, "org-1", sale.OrganizationID)
	require.NotNil(t, sale.ShiftID)
	assert.Equal(t, shift.ID, *sale.ShiftID)
	assert.False(t, sale.Synced)

	stored, err := f.sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)

	require.Len(t, f.publisher.messages, 1)
	assert.Equal(t, domain.TableSales, f.publisher.messages[0].Table)
	assert.Equal(t, sale.ID, f.publisher.messages[0].EntityID)
}

func TestRecordSaleRejectsClosedShift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shift := f.openShift(t)
	require.NoError(t, f.shifts.Close(ctx, shift.ID, 100000, 100000, shift.StartTime))

	_, err := f.service.RecordSale(ctx, f.sess, saleCmd(shift.ID))
	assert.ErrorIs(t, err, domain.ErrShiftNotOpen)
}

func TestRecordSaleWithoutShift(t *testing.T) {
	f := newFixture(t)

	sale, err := f.service.RecordSale(context.Background(), f.sess, saleCmd(""))
	require.NoError(t, err)
	assert.Nil(t, sale.ShiftID)
}

func TestRecordSaleOrganizationFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := domain.Session{BranchID: "branch-1", UserID: "user-2"}

	// Unknown user falls back to the legacy sentinel org.
	sale, err := f.service.RecordSale(ctx, sess, saleCmd(""))
	require.NoError(t, err)
	assert.Equal(t, domain.LegacyOrganizationID, sale.OrganizationID)

	// A locally mirrored user resolves to their organization.
	f.store.SeedUser("user-2", "org-mirror")
	sale, err = f.service.RecordSale(ctx, sess, saleCmd(""))
	require.NoError(t, err)
	assert.Equal(t, "org-mirror", sale.OrganizationID)
}

func TestRecordSaleConfirmsOrderHolds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hold, err := domain.NewStockReservation("pan", 2, domain.SourceOrder, "order-1")
	require.NoError(t, err)
	require.NoError(t, f.reservations.CreateMany(ctx, []*domain.StockReservation{hold}))

	cmd := saleCmd("")
	orderID := "order-1"
	cmd.OrderID = &orderID

	sale, err := f.service.RecordSale(ctx, f.sess, cmd)
	require.NoError(t, err)
	require.NotNil(t, sale.OrderID)
	assert.Equal(t, orderID, *sale.OrderID)

	// The holds confirm but stay in place: until the remote
	// acknowledges the sale, available stock must keep pricing it in.
	holds, err := f.reservations.ListBySource(ctx, domain.SourceOrder, orderID)
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, domain.ReservationConfirmed, holds[0].Status)

	held, err := f.reservations.ReservedQty(ctx, "pan")
	require.NoError(t, err)
	assert.Equal(t, 2, held, "confirmed holds still count against availability")
}

type failingHolds struct {
	interfaces.ReservationService
}

func (failingHolds) Confirm(context.Context, domain.ReservationSource, string) error {
	return assert.AnError
}

func TestRecordSaleConfirmFailureBubbles(t *testing.T) {
	f := newFixture(t)
	f.service.reservations = failingHolds{}

	cmd := saleCmd("")
	orderID := "order-1"
	cmd.OrderID = &orderID

	_, err := f.service.RecordSale(context.Background(), f.sess, cmd)
	assert.ErrorIs(t, err, assert.AnError, "an inventory storage error must not be swallowed")
}

func TestRecordSaleSurvivesBrokerOutage(t *testing.T) {
	f := newFixture(t)
	f.publisher.fail = true

	sale, err := f.service.RecordSale(context.Background(), f.sess, saleCmd(""))
	require.NoError(t, err, "a down broker must not lose the sale")

	stored, err := f.sales.FindByID(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.False(t, stored.Synced, "the periodic sync tick picks the row up later")
}

func TestRecordSaleValidation(t *testing.T) {
	f := newFixture(t)

	cmd := saleCmd("")
	cmd.Items = nil
	_, err := f.service.RecordSale(context.Background(), f.sess, cmd)
	assert.Error(t, err)

	cmd = saleCmd("")
	cmd.PaymentMethod = "barter"
	_, err = f.service.RecordSale(context.Background(), f.sess, cmd)
	assert.Error(t, err)
}
