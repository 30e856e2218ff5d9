package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/storefront"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists the submission log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, submission *models.OrderSubmission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderSubmission, error)
	MarkFinished(ctx context.Context, id uuid.UUID, outcome Outcome) error
	ListBySession(ctx context.Context, sessionID string, params pagination.Params) ([]models.OrderSubmission, int64, error)
	AbandonPendingBefore(ctx context.Context, cutoff, now time.Time) (int64, error)
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Outcome is the terminal state written once the backend has answered.
type Outcome struct {
	Status          enums.SubmissionStatus
	UpstreamOrderID string
	UpstreamMessage string
	ErrorMessage    string
	FinishedAt      time.Time
}

type cartStore interface {
	GetCart(ctx context.Context, sessionID string) (*cart.View, error)
	ClearAll(ctx context.Context, sessionID string) (*cart.View, error)
	FeeTable() cart.FeeTable
}

type orderGateway interface {
	CreateOrder(ctx context.Context, order storefront.OrderRequest) (*storefront.OrderResult, error)
	GetProduct(ctx context.Context, productID string) (*storefront.Product, error)
}

type inFlightGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	InFlightKey(sessionID string) string
}

type submissionRecorder interface {
	IncSubmission(kind, outcome string)
	ObserveUpstream(kind string, d time.Duration)
}
