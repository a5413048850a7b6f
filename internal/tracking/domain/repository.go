package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, t *Trackable) error
	Delete(ctx context.Context, db *gorm.DB, userID, metricID snowflake.ID) (bool, error)
	Exists(ctx context.Context, db *gorm.DB, userID, metricID snowflake.ID) (bool, error)
	// HasAnyTracker is the poller's gating predicate; it runs once per
	// metric per tick and must stay an indexed point lookup.
	HasAnyTracker(ctx context.Context, db *gorm.DB, metricID snowflake.ID) (bool, error)
	ListMetricsByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]catalogdomain.Metric, error)
	ListTrackingUserIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error)
}
