package sync

import (
	"context"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

// Worker ties the upload service to its two triggers: mutation events
// from the queue and a periodic tick. The tick is the safety net: a
// lost event can delay an upload but never strand unsynced rows.
type Worker struct {
	service  *Service
	consumer interfaces.MutationConsumer
	handler  interfaces.MutationHandler
	interval time.Duration
	logger   logger.Logger
}

func NewWorker(service *Service, consumer interfaces.MutationConsumer, handler interfaces.MutationHandler, interval time.Duration, logger logger.Logger) *Worker {
	return &Worker{
		service:  service,
		consumer: consumer,
		handler:  handler,
		interval: interval,
		logger:   logger,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("sync_worker_started", "Sync worker started", "", map[string]interface{}{
		"interval": w.interval.String(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.consumer.ConsumeMutations(ctx, w.handler)
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sync_worker_stopped", "Sync worker stopped", "", nil)
			return ctx.Err()

		case err := <-errCh:
			return err

		case <-ticker.C:
			if _, err := w.service.Run(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("sync_tick_failed", "Periodic sync failed, will retry", "", nil, err)
			}
		}
	}
}
