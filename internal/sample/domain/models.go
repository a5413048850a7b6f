// Package domain contains core types for the append-only sample log.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Sample is one observed scalar for a metric at a point in time. The value
// keeps the exact decimal string the source returned so nothing is lost to
// a float round-trip; it is parsed only at read time.
type Sample struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	MetricID  snowflake.ID `json:"metric_id" gorm:"column:metric_id;not null;index:ix_samples_metric_created,priority:1"`
	Value     string       `json:"value" gorm:"type:text;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;index:ix_samples_metric_created,priority:2"`
}

// TableName sets the database table name.
func (Sample) TableName() string { return "metric_values" }

type SortField string

type SortOrder string

const (
	SortByDate  SortField = "date"
	SortByValue SortField = "value"

	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// QueryOptions bounds and orders a history read. Nil bounds mean the full
// history; both bounds are inclusive.
type QueryOptions struct {
	From   *time.Time
	To     *time.Time
	SortBy SortField
	Order  SortOrder
}
