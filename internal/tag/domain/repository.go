package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tag *Tag) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tag, error)
	List(ctx context.Context, db *gorm.DB, search string) ([]Tag, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)

	InsertLink(ctx context.Context, db *gorm.DB, link *MetricTag) error
	DeleteLink(ctx context.Context, db *gorm.DB, metricID, tagID snowflake.ID) (bool, error)
	ListByMetric(ctx context.Context, db *gorm.DB, metricID snowflake.ID) ([]Tag, error)
}
