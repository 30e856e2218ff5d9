package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a submission log repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, submission *models.OrderSubmission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderSubmission, error) {
	var submission models.OrderSubmission
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// MarkFinished moves a pending submission to its terminal status. Rows that
// already left pending are not touched, so a late cron abandonment and a slow
// backend answer cannot overwrite each other.
func (r *repository) MarkFinished(ctx context.Context, id uuid.UUID, outcome Outcome) error {
	finishedAt := outcome.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}
	updates := map[string]any{
		"status":            outcome.Status,
		"upstream_order_id": nullable(outcome.UpstreamOrderID),
		"upstream_message":  nullable(outcome.UpstreamMessage),
		"error_message":     nullable(outcome.ErrorMessage),
		"finished_at":       finishedAt,
		"updated_at":        finishedAt,
	}
	res := r.db.WithContext(ctx).
		Model(&models.OrderSubmission{}).
		Where("id = ? AND status = ?", id.String(), enums.SubmissionStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID string, params pagination.Params) ([]models.OrderSubmission, int64, error) {
	params = pagination.Normalize(params)
	scoped := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.OrderSubmission{}).Where("session_id = ?", sessionID)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderSubmission
	err := scoped().
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) AbandonPendingBefore(ctx context.Context, cutoff, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OrderSubmission{}).
		Where("status = ? AND created_at < ?", enums.SubmissionStatusPending, cutoff).
		Updates(map[string]any{
			"status":      enums.SubmissionStatusAbandoned,
			"finished_at": now,
			"updated_at":  now,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status <> ? AND finished_at IS NOT NULL AND finished_at < ?", enums.SubmissionStatusPending, cutoff).
		Delete(&models.OrderSubmission{})
	return res.RowsAffected, res.Error
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
