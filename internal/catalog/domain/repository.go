package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter narrows a catalog listing. Zero values mean "no filter".
type ListFilter struct {
	Search string
	// TagIDs restricts the listing to metrics carrying ALL of the given
	// tags.
	TagIDs []snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, metric *Metric) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Metric, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Metric, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Metric, error)
}
