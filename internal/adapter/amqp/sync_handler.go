package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

// SyncHandler turns a mutation event into one upload run. The message
// payload is only a trigger; the service re-reads the store, so a
// malformed or stale message can at worst cause a no-op run.
type SyncHandler struct {
	service interfaces.SyncService
	logger  logger.Logger
}

func NewSyncHandler(service interfaces.SyncService, logger logger.Logger) *SyncHandler {
	return &SyncHandler{
		service: service,
		logger:  logger,
	}
}

func (h *SyncHandler) HandleMutation(ctx context.Context, body []byte) error {
	var msg interfaces.MutationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse mutation message", "", nil, err)
		return err
	}

	h.logger.Debug("mutation_received", fmt.Sprintf("Mutation on %s", msg.Table), msg.EntityID, map[string]interface{}{
		"table": msg.Table,
		"op":    msg.Op,
	})

	report, err := h.service.Run(ctx)
	if err != nil {
		return err
	}

	if deferred := report.DeferredTables(); len(deferred) > 0 {
		h.logger.Debug("tables_deferred", fmt.Sprintf("%d tables awaiting a future connector", len(deferred)), "", map[string]interface{}{
			"tables": deferred,
		})
	}

	return nil
}
