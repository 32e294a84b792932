package interfaces

import (
	"context"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
)

// Token is the credential pair the remote system returns for a session
// token. The access token authorizes graph sync and catalog calls.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RemoteGateway is the HTTP surface of the central system of record.
// Every call is context-bounded; timeouts surface as ordinary errors
// the caller retries on the next trigger.
type RemoteGateway interface {
	ExchangeToken(ctx context.Context, sessionToken string) (*Token, error)
	// UploadSales posts a batch for idempotent upsert-by-id. Partial
	// application on the remote side is tolerated because re-upload
	// converges.
	UploadSales(ctx context.Context, branchID string, sales []*domain.Sale) error
	FetchProducts(ctx context.Context, branchID string) ([]*domain.Product, error)
}
