package cart

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/storefront"
)

// Repository persists cart snapshots per shopper session. Load returns a nil
// snapshot when the session has no cart yet.
type Repository interface {
	Load(ctx context.Context, sessionID string) (*Snapshot, error)
	Save(ctx context.Context, sessionID string, snapshot Snapshot) error
	Delete(ctx context.Context, sessionID string) error
}

// ProductLoader resolves catalog data so prices are never taken from the client.
type ProductLoader interface {
	GetProduct(ctx context.Context, productID string) (*storefront.Product, error)
}

type mutationRecorder interface {
	IncMutation(op string)
}
