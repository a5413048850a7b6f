// Package domain contains core types for the metric catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Metric defines a host telemetry signal and the source expression that
// produces its value.
type Metric struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:text;not null;uniqueIndex"`
	SourceQuery string       `json:"source_query" gorm:"column:source_query;type:text;not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Metric) TableName() string { return "metrics" }

// Definition is one entry of the built-in catalog: a logical name plus the
// query issued against the telemetry source.
type Definition struct {
	Name        string
	SourceQuery string
}
