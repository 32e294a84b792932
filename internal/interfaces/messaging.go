package interfaces

import (
	"context"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
)

// MutationMessage announces a locally committed syncable row. The sync
// worker treats it purely as a trigger: it re-reads current unsynced
// rows from the store rather than trusting the message payload.
type MutationMessage struct {
	Table      domain.SyncTable `json:"table"`
	EntityID   string           `json:"entity_id"`
	Op         string           `json:"op"`
	BranchID   string           `json:"branch_id"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type MutationPublisher interface {
	PublishMutation(ctx context.Context, msg MutationMessage) error
}

type MutationConsumer interface {
	ConsumeMutations(ctx context.Context, handler MutationHandler) error
}

type MutationHandler func(ctx context.Context, body []byte) error
