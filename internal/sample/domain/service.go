package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Append records one observed value; samples are never mutated or
	// deleted afterwards.
	Append(ctx context.Context, metricID snowflake.ID, value string, at time.Time) (*Sample, error)
	// Query is the raw, sortable read mode.
	Query(ctx context.Context, metricID snowflake.ID, opts QueryOptions) ([]Sample, error)
	// QueryDeduped is the initial-load read mode: ascending by time with
	// runs of consecutive equal values collapsed to their first sample.
	QueryDeduped(ctx context.Context, metricID snowflake.ID, from, to *time.Time) ([]Sample, error)
}

var ErrInvalidValue = errors.New("invalid_value")
