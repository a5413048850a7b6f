package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() sampledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, s *sampledomain.Sample) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO metric_values (id, metric_id, value, created_at)
		 VALUES (?, ?, ?, ?)`,
		s.ID,
		s.MetricID,
		s.Value,
		s.CreatedAt,
	).Error
}

func (r *repo) Query(ctx context.Context, db *gorm.DB, metricID snowflake.ID, opts sampledomain.QueryOptions) ([]sampledomain.Sample, error) {
	query := `SELECT id, metric_id, value, created_at FROM metric_values WHERE metric_id = ?`
	args := []any{metricID}

	if opts.From != nil {
		query += ` AND created_at >= ?`
		args = append(args, opts.From.UTC())
	}
	if opts.To != nil {
		query += ` AND created_at <= ?`
		args = append(args, opts.To.UTC())
	}

	// Values are stored as decimal strings; sorting by value has to
	// compare numerically, not lexicographically.
	switch opts.SortBy {
	case sampledomain.SortByValue:
		query += ` ORDER BY CAST(value AS DECIMAL(24, 8))`
	default:
		query += ` ORDER BY created_at`
	}
	if opts.Order == sampledomain.OrderDesc {
		query += ` DESC`
	} else {
		query += ` ASC`
	}
	query += `, id ASC`

	var samples []sampledomain.Sample
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&samples).Error; err != nil {
		return nil, err
	}
	return samples, nil
}
