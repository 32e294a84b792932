// Package checkout records sales into the local ledger. A sale is the
// terminal, append-only record of a payment; once written it only ever
// changes by gaining the synced flag.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type Service struct {
	sales        interfaces.SaleRepository
	shifts       interfaces.ShiftRepository
	users        interfaces.UserRepository
	reservations interfaces.ReservationService
	publisher    interfaces.MutationPublisher
	logger       logger.Logger
}

func NewService(
	sales interfaces.SaleRepository,
	shifts interfaces.ShiftRepository,
	users interfaces.UserRepository,
	reservations interfaces.ReservationService,
	publisher interfaces.MutationPublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		sales:        sales,
		shifts:       shifts,
		users:        users,
		reservations: reservations,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *Service) RecordSale(ctx context.Context, sess domain.Session, cmd interfaces.RecordSaleCommand) (*domain.Sale, error) {
	// 1. The referenced shift must exist and be open.
	var shiftID *string
	if cmd.ShiftID != "" {
		shift, err := s.shifts.FindByID(ctx, cmd.ShiftID)
		if err != nil {
			return nil, err
		}
		if !shift.IsOpen() {
			return nil, domain.ErrShiftNotOpen
		}
		shiftID = &shift.ID
	}

	// 2. Resolve the organization; a sale is never dropped for a
	// missing org.
	orgID := s.resolveOrganization(ctx, sess)

	// 3. Build and validate the domain entity.
	items := make([]domain.SaleItem, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = domain.SaleItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
		}
	}

	sale, err := domain.NewSale(orgID, sess.BranchID, shiftID, domain.PaymentMethod(cmd.PaymentMethod), cmd.Tip, cmd.Discount, items)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	sale.OrderID = cmd.OrderID

	// 4. Persist sale + items in one transaction.
	if err := s.sales.Create(ctx, sale); err != nil {
		s.logger.Error("sale_create_failed", "Failed to record sale", sale.ID, nil, err)
		return nil, err
	}

	if !sale.TotalsConsistent() {
		s.logger.Info("sale_totals_inconsistent", "Sale item totals do not add up to the sale total", sale.ID, map[string]interface{}{
			"total":    sale.Total,
			"discount": sale.Discount,
		})
	}

	// 5. The sale settles a table ticket: its holds confirm here and
	// stay in place until the remote acknowledges the sale, so local
	// availability keeps pricing the stock in. The sync pass clears
	// them after the upload.
	if cmd.OrderID != nil {
		if err := s.reservations.Confirm(ctx, domain.SourceOrder, *cmd.OrderID); err != nil {
			return nil, err
		}
	}

	// 6. Announce the mutation. The sale is already durable; if the
	// broker is down the periodic sync tick picks the row up instead.
	s.announce(ctx, domain.TableSales, sale.ID, sess.BranchID)

	s.logger.Debug("sale_recorded", "Sale recorded in local ledger", sale.ID, map[string]interface{}{
		"total":          sale.Total,
		"payment_method": sale.PaymentMethod,
	})

	return sale, nil
}

func (s *Service) resolveOrganization(ctx context.Context, sess domain.Session) string {
	if sess.OrganizationID != "" {
		return sess.OrganizationID
	}

	org, err := s.users.OrganizationOf(ctx, sess.UserID)
	if err != nil || org == "" {
		s.logger.Info("organization_fallback", "Falling back to legacy organization", "", map[string]interface{}{
			"user_id": sess.UserID,
		})
		return domain.LegacyOrganizationID
	}
	return org
}

func (s *Service) announce(ctx context.Context, table domain.SyncTable, entityID, branchID string) {
	msg := interfaces.MutationMessage{
		Table:      table,
		EntityID:   entityID,
		Op:         "insert",
		BranchID:   branchID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishMutation(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("mutation_publish_failed", "Failed to publish mutation event", entityID, map[string]interface{}{
			"table": table,
		}, err)
	}
}

var _ interfaces.CheckoutService = (*Service)(nil)
