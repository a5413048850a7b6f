package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
)

type Service interface {
	// Track is idempotent; created reports whether a new row was
	// inserted or one already existed.
	Track(ctx context.Context, userID, metricID snowflake.ID) (created bool, err error)
	// Untrack reports false, not an error, when no subscription existed.
	Untrack(ctx context.Context, userID, metricID snowflake.ID) (removed bool, err error)
	IsTracking(ctx context.Context, userID, metricID snowflake.ID) (bool, error)
	HasAnyTracker(ctx context.Context, metricID snowflake.ID) (bool, error)
	ListTrackedByUser(ctx context.Context, userID snowflake.ID) ([]catalogdomain.Metric, error)
	ListTrackingUsers(ctx context.Context) ([]snowflake.ID, error)
}

var ErrMetricNotFound = errors.New("metric_not_found")
