package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sample *Sample) error
	Query(ctx context.Context, db *gorm.DB, metricID snowflake.ID, opts QueryOptions) ([]Sample, error)
}
