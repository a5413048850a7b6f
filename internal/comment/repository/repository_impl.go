package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	commentdomain "github.com/pulseboard/pulseboard/internal/comment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() commentdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *commentdomain.Comment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO comments (id, metric_id, user_id, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.MetricID,
		c.UserID,
		c.Body,
		c.CreatedAt,
		c.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*commentdomain.Comment, error) {
	var comment commentdomain.Comment
	err := db.WithContext(ctx).Raw(
		`SELECT id, metric_id, user_id, body, created_at, updated_at
		 FROM comments WHERE id = ?`,
		id,
	).Scan(&comment).Error
	if err != nil {
		return nil, err
	}
	if comment.ID == 0 {
		return nil, nil
	}
	return &comment, nil
}

func (r *repo) ListByMetric(ctx context.Context, db *gorm.DB, metricID snowflake.ID) ([]commentdomain.Comment, error) {
	var comments []commentdomain.Comment
	err := db.WithContext(ctx).Raw(
		`SELECT id, metric_id, user_id, body, created_at, updated_at
		 FROM comments WHERE metric_id = ?
		 ORDER BY created_at ASC, id ASC`,
		metricID,
	).Scan(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, c *commentdomain.Comment) error {
	return db.WithContext(ctx).Exec(
		`UPDATE comments SET body = ?, updated_at = ? WHERE id = ?`,
		c.Body,
		c.UpdatedAt,
		c.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(`DELETE FROM comments WHERE id = ?`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
