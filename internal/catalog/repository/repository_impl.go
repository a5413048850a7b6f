package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, m *catalogdomain.Metric) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO metrics (id, name, source_query, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.ID,
		m.Name,
		m.SourceQuery,
		m.CreatedAt,
		m.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.Metric, error) {
	var metric catalogdomain.Metric
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, source_query, created_at, updated_at
		 FROM metrics WHERE id = ?`,
		id,
	).Scan(&metric).Error
	if err != nil {
		return nil, err
	}
	if metric.ID == 0 {
		return nil, nil
	}
	return &metric, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*catalogdomain.Metric, error) {
	var metric catalogdomain.Metric
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, source_query, created_at, updated_at
		 FROM metrics WHERE name = ?`,
		name,
	).Scan(&metric).Error
	if err != nil {
		return nil, err
	}
	if metric.ID == 0 {
		return nil, nil
	}
	return &metric, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter catalogdomain.ListFilter) ([]catalogdomain.Metric, error) {
	query := `SELECT m.id, m.name, m.source_query, m.created_at, m.updated_at FROM metrics m`
	var (
		clauses []string
		args    []any
	)

	if len(filter.TagIDs) > 0 {
		// AND semantics: the metric must carry every requested tag.
		query += ` JOIN metric_tags mt ON mt.metric_id = m.id`
		clauses = append(clauses, `mt.tag_id IN ?`)
		args = append(args, filter.TagIDs)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		clauses = append(clauses, `m.name LIKE ?`)
		args = append(args, "%"+strings.ToUpper(search)+"%")
	}

	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}

	if len(filter.TagIDs) > 0 {
		query += ` GROUP BY m.id, m.name, m.source_query, m.created_at, m.updated_at
		 HAVING COUNT(DISTINCT mt.tag_id) = ?`
		args = append(args, len(filter.TagIDs))
	}

	query += ` ORDER BY m.name ASC`

	var metrics []catalogdomain.Metric
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}
