// Package domain contains core types for metric tagging.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tag is an admin-managed label attachable to catalog metrics.
type Tag struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Tag) TableName() string { return "tags" }

// MetricTag links a metric to a tag; a pair exists at most once.
type MetricTag struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	MetricID snowflake.ID `gorm:"column:metric_id;not null;uniqueIndex:ux_metric_tags_pair,priority:1"`
	TagID    snowflake.ID `gorm:"column:tag_id;not null;uniqueIndex:ux_metric_tags_pair,priority:2;index"`
}

// TableName sets the database table name.
func (MetricTag) TableName() string { return "metric_tags" }
