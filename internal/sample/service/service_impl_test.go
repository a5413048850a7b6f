package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
	samplerepo "github.com/pulseboard/pulseboard/internal/sample/repository"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	samples  sampledomain.Service
	metricID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sampledomain.Sample{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node, Repo: samplerepo.Provide()})
	return &fixture{samples: svc, metricID: node.Generate()}
}

// append stores one value per entry, one minute apart starting at baseTime.
func (f *fixture) append(t *testing.T, values ...string) {
	t.Helper()
	for i, v := range values {
		_, err := f.samples.Append(context.Background(), f.metricID, v, baseTime.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
}

func values(samples []sampledomain.Sample) []string {
	out := make([]string, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.Value)
	}
	return out
}

func TestAppendRejectsNonNumericValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.samples.Append(ctx, f.metricID, "", baseTime)
	assert.ErrorIs(t, err, sampledomain.ErrInvalidValue)

	_, err = f.samples.Append(ctx, f.metricID, "   ", baseTime)
	assert.ErrorIs(t, err, sampledomain.ErrInvalidValue)

	_, err = f.samples.Append(ctx, f.metricID, "not-a-number", baseTime)
	assert.ErrorIs(t, err, sampledomain.ErrInvalidValue)
}

func TestAppendKeepsExactValueString(t *testing.T) {
	f := newFixture(t)

	s, err := f.samples.Append(context.Background(), f.metricID, "0.30000000000000004", baseTime)
	require.NoError(t, err)
	assert.Equal(t, "0.30000000000000004", s.Value)

	stored, err := f.samples.Query(context.Background(), f.metricID, sampledomain.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "0.30000000000000004", stored[0].Value)
}

func TestQueryBoundsAreInclusive(t *testing.T) {
	f := newFixture(t)
	f.append(t, "1", "2", "3", "4", "5")

	from := baseTime.Add(1 * time.Minute)
	to := baseTime.Add(3 * time.Minute)
	got, err := f.samples.Query(context.Background(), f.metricID, sampledomain.QueryOptions{
		From: &from,
		To:   &to,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "4"}, values(got))
}

func TestQueryDefaultsToDateAscending(t *testing.T) {
	f := newFixture(t)
	f.append(t, "3", "1", "2")

	got, err := f.samples.Query(context.Background(), f.metricID, sampledomain.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "2"}, values(got))

	got, err = f.samples.Query(context.Background(), f.metricID, sampledomain.QueryOptions{
		SortBy: sampledomain.SortByDate,
		Order:  sampledomain.OrderDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", "3"}, values(got))
}

func TestQuerySortsByNumericValue(t *testing.T) {
	f := newFixture(t)
	// Lexicographic order would put "10" before "9".
	f.append(t, "10", "9", "2.5")

	got, err := f.samples.Query(context.Background(), f.metricID, sampledomain.QueryOptions{
		SortBy: sampledomain.SortByValue,
		Order:  sampledomain.OrderAsc,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2.5", "9", "10"}, values(got))
}

func TestQueryScopesToMetric(t *testing.T) {
	f := newFixture(t)
	f.append(t, "1")

	other := snowflake.ID(777)
	got, err := f.samples.Query(context.Background(), other, sampledomain.QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryDedupedCollapsesConsecutiveRuns(t *testing.T) {
	f := newFixture(t)
	f.append(t, "1.0", "1.0", "2.0", "2.0", "2.0", "1.0")

	got, err := f.samples.QueryDeduped(context.Background(), f.metricID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0", "2.0", "1.0"}, values(got))

	// First sample of each run survives.
	assert.WithinDuration(t, baseTime, got[0].CreatedAt, time.Second)
	assert.WithinDuration(t, baseTime.Add(2*time.Minute), got[1].CreatedAt, time.Second)
	assert.WithinDuration(t, baseTime.Add(5*time.Minute), got[2].CreatedAt, time.Second)
}

func TestQueryDedupedCollapsesEquivalentSpellings(t *testing.T) {
	f := newFixture(t)
	f.append(t, "1.0", "1.00", "1")

	got, err := f.samples.QueryDeduped(context.Background(), f.metricID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0"}, values(got))
}
