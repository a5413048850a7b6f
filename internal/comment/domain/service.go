package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create rejects empty or whitespace-only bodies.
	Create(ctx context.Context, metricID, userID snowflake.ID, body string) (*Comment, error)
	ListByMetric(ctx context.Context, metricID snowflake.ID) ([]Comment, error)
	// Update only succeeds for the comment's author.
	Update(ctx context.Context, id, userID snowflake.ID, body string) (*Comment, error)
	// Delete succeeds for the author, or anyone when asAdmin is set.
	Delete(ctx context.Context, id, userID snowflake.ID, asAdmin bool) error
}

var (
	ErrEmptyBody = errors.New("empty_comment_body")
	ErrNotFound  = errors.New("comment_not_found")
	ErrNotOwner  = errors.New("not_comment_owner")
)
