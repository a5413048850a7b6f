// Package domain contains core types for durable metric subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Trackable is a user's durable opt-in to one metric. It both grants
// history access and gates whether the poller ever fetches that metric.
// At most one row exists per (user, metric) pair.
type Trackable struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID    snowflake.ID `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:ux_trackables_user_metric,priority:1"`
	MetricID  snowflake.ID `json:"metric_id" gorm:"column:metric_id;not null;uniqueIndex:ux_trackables_user_metric,priority:2;index"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Trackable) TableName() string { return "trackables" }
