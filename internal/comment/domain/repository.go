package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, comment *Comment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Comment, error)
	ListByMetric(ctx context.Context, db *gorm.DB, metricID snowflake.ID) ([]Comment, error)
	Update(ctx context.Context, db *gorm.DB, comment *Comment) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
