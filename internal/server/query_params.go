package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
)

const dateOnlyLayout = "2006-01-02"

// parseOptionalTime is permissive: a bound that fails to parse is
// treated as absent rather than rejecting the request.
func parseOptionalTime(value string, endOfDay bool) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		}
		return &parsed
	}
	return nil
}

func parseQueryOptions(from, to, sortBy, order string) sampledomain.QueryOptions {
	opts := sampledomain.QueryOptions{
		From: parseOptionalTime(from, false),
		To:   parseOptionalTime(to, true),
	}

	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "value":
		opts.SortBy = sampledomain.SortByValue
	default:
		opts.SortBy = sampledomain.SortByDate
	}

	switch strings.ToLower(strings.TrimSpace(order)) {
	case "desc":
		opts.Order = sampledomain.OrderDesc
	default:
		opts.Order = sampledomain.OrderAsc
	}

	return opts
}

func parseSnowflakeParam(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, ErrNotFound
	}
	return id, nil
}

// parseTagIDs reads a comma separated tag id list; malformed entries
// are dropped.
func parseTagIDs(value string) []snowflake.ID {
	var ids []snowflake.ID
	for _, raw := range strings.Split(value, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
