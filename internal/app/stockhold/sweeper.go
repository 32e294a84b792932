package stockhold

import (
	"context"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
)

// Sweeper runs the expiry sweep on a ticker. One sweep failure is
// logged and the next tick retries; the loop only stops with ctx.
type Sweeper struct {
	service  *Service
	interval time.Duration
	maxAge   time.Duration
	logger   logger.Logger
}

func NewSweeper(service *Service, interval, maxAge time.Duration, logger logger.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger,
	}
}

func (w *Sweeper) Run(ctx context.Context) error {
	w.logger.Info("sweeper_started", "Reservation sweeper started", "", map[string]interface{}{
		"interval": w.interval.String(),
		"max_age":  w.maxAge.String(),
	})

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweeper_stopped", "Reservation sweeper stopped", "", nil)
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.service.SweepExpired(ctx, w.maxAge); err != nil && ctx.Err() == nil {
				w.logger.Error("sweep_tick_failed", "Sweep failed, will retry next tick", "", nil, err)
			}
		}
	}
}
