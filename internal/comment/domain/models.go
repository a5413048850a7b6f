// Package domain contains core types for per-metric comment threads.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Comment is one entry in a metric's discussion thread.
type Comment struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	MetricID  snowflake.ID `json:"metric_id" gorm:"column:metric_id;not null;index"`
	UserID    snowflake.ID `json:"user_id" gorm:"column:user_id;not null;index"`
	Body      string       `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Comment) TableName() string { return "comments" }
