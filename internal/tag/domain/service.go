package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, name string) (*Tag, error)
	List(ctx context.Context, search string) ([]Tag, error)
	Delete(ctx context.Context, id snowflake.ID) error
	// Attach links the tag to the metric; linking twice is a no-op.
	Attach(ctx context.Context, metricID, tagID snowflake.ID) error
	Detach(ctx context.Context, metricID, tagID snowflake.ID) error
	ListByMetric(ctx context.Context, metricID snowflake.ID) ([]Tag, error)
}

var (
	ErrInvalidName = errors.New("invalid_tag_name")
	ErrTagExists   = errors.New("tag_exists")
	ErrNotFound    = errors.New("tag_not_found")
)
