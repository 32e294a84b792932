// Package sync moves locally committed rows to the central system of
// record. Sales are the only table wired into graph upload; the other
// syncable tables are reported as deferred on every run so their
// backlog stays visible.
package sync

import (
	"context"
	"fmt"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type Service struct {
	sales        interfaces.SaleRepository
	counts       interfaces.SyncRepository
	products     interfaces.ProductRepository
	reservations interfaces.ReservationRepository
	remote       interfaces.RemoteGateway
	branchID     string
	batchSize    int
	logger       logger.Logger
}

func NewService(
	sales interfaces.SaleRepository,
	counts interfaces.SyncRepository,
	products interfaces.ProductRepository,
	reservations interfaces.ReservationRepository,
	remote interfaces.RemoteGateway,
	branchID string,
	batchSize int,
	logger logger.Logger,
) *Service {
	return &Service{
		sales:        sales,
		counts:       counts,
		products:     products,
		reservations: reservations,
		remote:       remote,
		branchID:     branchID,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Run performs one upload pass. The trigger only says "something
// changed"; the batch is re-read from the store so a lost or duplicate
// trigger never loses or duplicates data. Upload errors propagate so
// the next trigger retries; the remote upserts by id.
func (s *Service) Run(ctx context.Context) (*interfaces.UploadReport, error) {
	batch, err := s.sales.ListUnsynced(ctx, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read unsynced sales: %w", err)
	}

	uploaded := 0
	if len(batch) > 0 {
		if err := s.remote.UploadSales(ctx, s.branchID, batch); err != nil {
			s.logger.Error("sales_upload_failed", "Graph upload failed, will retry on next trigger", "", map[string]interface{}{
				"batch": len(batch),
			}, err)
			return nil, err
		}

		ids := make([]string, len(batch))
		for i, sale := range batch {
			ids[i] = sale.ID
		}
		if err := s.sales.MarkSynced(ctx, ids); err != nil {
			// The remote already has the batch; re-upload converges, so
			// surface the error and let the next trigger retry the mark.
			return nil, fmt.Errorf("failed to mark sales synced: %w", err)
		}
		uploaded = len(batch)

		// The remote now owns the stock decrement for these sales, so
		// the confirmed holds backing them can go. A failed clear only
		// leaves availability conservative until the sweep or retry.
		for _, sale := range batch {
			if sale.OrderID == nil {
				continue
			}
			if err := s.reservations.ClearConfirmed(ctx, domain.SourceOrder, *sale.OrderID); err != nil {
				s.logger.Error("reservation_clear_failed", "Failed to clear confirmed holds", sale.ID, map[string]interface{}{
					"order_id": *sale.OrderID,
				}, err)
			}
		}

		s.logger.Info("sales_uploaded", fmt.Sprintf("Uploaded %d sales", uploaded), "", map[string]interface{}{
			"uploaded": uploaded,
		})
	}

	report := &interfaces.UploadReport{UploadedSales: uploaded}
	for _, table := range domain.SyncTables {
		pending, err := s.counts.UnsyncedCount(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to count pending rows: %w", err)
		}
		outcome := domain.TableOutcome{
			Table:    table,
			Handled:  table == domain.TableSales,
			Uploaded: 0,
			Pending:  pending,
		}
		if table == domain.TableSales {
			outcome.Uploaded = uploaded
		}
		report.Outcomes = append(report.Outcomes, outcome)

		if outcome.Deferred() {
			s.logger.Info("table_deferred", fmt.Sprintf("Table %s has %d rows awaiting a future connector", table, pending), "", map[string]interface{}{
				"table":   table,
				"pending": pending,
			})
		}
	}

	return report, nil
}

// PullProducts refreshes the local catalog from the remote source of
// truth, upserting by id.
func (s *Service) PullProducts(ctx context.Context) (int, error) {
	products, err := s.remote.FetchProducts(ctx, s.branchID)
	if err != nil {
		return 0, err
	}

	for _, product := range products {
		if err := s.products.Upsert(ctx, product); err != nil {
			return 0, fmt.Errorf("failed to upsert product %s: %w", product.ID, err)
		}
	}

	if len(products) > 0 {
		s.logger.Debug("catalog_pulled", fmt.Sprintf("Pulled %d products", len(products)), "", nil)
	}
	return len(products), nil
}

var _ interfaces.SyncService = (*Service)(nil)
