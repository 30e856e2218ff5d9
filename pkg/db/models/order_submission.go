package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// OrderSubmission records one attempt to hand an order to the backend. The
// backend owns the order itself; this row only tracks what the storefront sent
// and how the backend answered.
type OrderSubmission struct {
	ID              uuid.UUID              `gorm:"column:id;type:varchar(36);primaryKey"`
	SessionID       string                 `gorm:"column:session_id;not null"`
	Kind            enums.SubmissionKind   `gorm:"column:kind;not null"`
	Status          enums.SubmissionStatus `gorm:"column:status;not null"`
	District        string                 `gorm:"column:district;not null;default:''"`
	ItemCount       int                    `gorm:"column:item_count;not null;default:0"`
	Subtotal        decimal.Decimal        `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee     decimal.Decimal        `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal        `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Payload         string                 `gorm:"column:payload;type:text;not null"`
	UpstreamOrderID *string                `gorm:"column:upstream_order_id"`
	UpstreamMessage *string                `gorm:"column:upstream_message"`
	ErrorMessage    *string                `gorm:"column:error_message"`
	CreatedAt       time.Time              `gorm:"column:created_at"`
	UpdatedAt       time.Time              `gorm:"column:updated_at"`
	FinishedAt      *time.Time             `gorm:"column:finished_at"`
}

func (OrderSubmission) TableName() string {
	return "order_submissions"
}
