package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	tagdomain "github.com/pulseboard/pulseboard/internal/tag/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() tagdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tag *tagdomain.Tag) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tags (id, name, created_at) VALUES (?, ?, ?)`,
		tag.ID,
		tag.Name,
		tag.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*tagdomain.Tag, error) {
	var tag tagdomain.Tag
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, created_at FROM tags WHERE id = ?`,
		id,
	).Scan(&tag).Error
	if err != nil {
		return nil, err
	}
	if tag.ID == 0 {
		return nil, nil
	}
	return &tag, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, search string) ([]tagdomain.Tag, error) {
	query := `SELECT id, name, created_at FROM tags`
	var args []any

	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE name LIKE ?`
		args = append(args, "%"+s+"%")
	}
	query += ` ORDER BY name ASC`

	var tags []tagdomain.Tag
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM metric_tags WHERE tag_id = ?`,
		id,
	).Error; err != nil {
		return false, err
	}

	result := db.WithContext(ctx).Exec(`DELETE FROM tags WHERE id = ?`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) InsertLink(ctx context.Context, db *gorm.DB, link *tagdomain.MetricTag) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO metric_tags (id, metric_id, tag_id) VALUES (?, ?, ?)`,
		link.ID,
		link.MetricID,
		link.TagID,
	).Error
}

func (r *repo) DeleteLink(ctx context.Context, db *gorm.DB, metricID, tagID snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`DELETE FROM metric_tags WHERE metric_id = ? AND tag_id = ?`,
		metricID,
		tagID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) ListByMetric(ctx context.Context, db *gorm.DB, metricID snowflake.ID) ([]tagdomain.Tag, error) {
	var tags []tagdomain.Tag
	err := db.WithContext(ctx).Raw(
		`SELECT t.id, t.name, t.created_at
		 FROM tags t
		 JOIN metric_tags mt ON mt.tag_id = t.id
		 WHERE mt.metric_id = ?
		 ORDER BY t.name ASC`,
		metricID,
	).Scan(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}
