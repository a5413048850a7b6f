package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Resolve is an idempotent find-or-create: the first call for a name
	// materializes the durable record.
	Resolve(ctx context.Context, name, sourceQuery string) (*Metric, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Metric, error)
	List(ctx context.Context, filter ListFilter) ([]Metric, error)
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrNotFound    = errors.New("not_found")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
