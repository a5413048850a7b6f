package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	trackingdomain "github.com/pulseboard/pulseboard/internal/tracking/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() trackingdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, t *trackingdomain.Trackable) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO trackables (id, user_id, metric_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		t.ID,
		t.UserID,
		t.MetricID,
		t.CreatedAt,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID, metricID snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`DELETE FROM trackables WHERE user_id = ? AND metric_id = ?`,
		userID,
		metricID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, userID, metricID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM trackables WHERE user_id = ? AND metric_id = ?`,
		userID,
		metricID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) HasAnyTracker(ctx context.Context, db *gorm.DB, metricID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM trackables WHERE metric_id = ? LIMIT 1`,
		metricID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) ListMetricsByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]catalogdomain.Metric, error) {
	var metrics []catalogdomain.Metric
	err := db.WithContext(ctx).Raw(
		`SELECT m.id, m.name, m.source_query, m.created_at, m.updated_at
		 FROM metrics m
		 JOIN trackables t ON t.metric_id = m.id
		 WHERE t.user_id = ?
		 ORDER BY m.name ASC`,
		userID,
	).Scan(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *repo) ListTrackingUserIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT DISTINCT user_id FROM trackables ORDER BY user_id`,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
