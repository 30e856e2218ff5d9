package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/pkg/logger"
	"go.uber.org/multierr"
)

const (
	defaultPendingCutoff       = 15 * time.Minute
	defaultSubmissionRetention = 90 * 24 * time.Hour
)

// SubmissionRetentionJobParams configures the submission log sweep.
type SubmissionRetentionJobParams struct {
	Logger        *logger.Logger
	Repository    submissionLog
	PendingCutoff time.Duration
	Retention     time.Duration
}

type submissionLog interface {
	AbandonPendingBefore(ctx context.Context, cutoff, now time.Time) (int64, error)
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewSubmissionRetentionJob builds the job that closes out stuck pending
// submissions and purges finished ones past the retention window.
func NewSubmissionRetentionJob(params SubmissionRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("submission repository required")
	}
	pendingCutoff := params.PendingCutoff
	if pendingCutoff <= 0 {
		pendingCutoff = defaultPendingCutoff
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultSubmissionRetention
	}
	return &submissionRetentionJob{
		logg:          params.Logger,
		repo:          params.Repository,
		pendingCutoff: pendingCutoff,
		retention:     retention,
		now:           time.Now,
	}, nil
}

type submissionRetentionJob struct {
	logg          *logger.Logger
	repo          submissionLog
	pendingCutoff time.Duration
	retention     time.Duration
	now           func() time.Time
}

func (j *submissionRetentionJob) Name() string { return "submission-retention" }

// Run abandons first so rows closed in this pass are kept until the next
// retention window expires.
func (j *submissionRetentionJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	abandonBefore := now.Add(-j.pendingCutoff)
	deleteBefore := now.Add(-j.retention)

	var errs error
	abandoned, err := j.repo.AbandonPendingBefore(ctx, abandonBefore, now)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("abandon pending submissions: %w", err))
	}
	deleted, err := j.repo.DeleteFinishedBefore(ctx, deleteBefore)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("delete finished submissions: %w", err))
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"abandon_before": abandonBefore,
		"delete_before":  deleteBefore,
		"rows_abandoned": abandoned,
		"rows_deleted":   deleted,
	})
	if errs != nil {
		j.logg.Warn(logCtx, "submission retention finished with errors")
		return errs
	}
	j.logg.Info(logCtx, "submission retention complete")
	return nil
}
