package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	catalogrepo "github.com/pulseboard/pulseboard/internal/catalog/repository"
	catalogservice "github.com/pulseboard/pulseboard/internal/catalog/service"
	trackingdomain "github.com/pulseboard/pulseboard/internal/tracking/domain"
	trackingrepo "github.com/pulseboard/pulseboard/internal/tracking/repository"
)

type fixture struct {
	tracking trackingdomain.Service
	catalog  catalogdomain.Service
	node     *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogdomain.Metric{}, &trackingdomain.Trackable{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	catalogSvc := catalogservice.New(catalogservice.Params{
		DB: db, Log: log, GenID: node, Repo: catalogrepo.Provide(),
	})
	trackingSvc := New(Params{
		DB: db, Log: log, GenID: node, Repo: trackingrepo.Provide(), Catalog: catalogSvc,
	})

	return &fixture{tracking: trackingSvc, catalog: catalogSvc, node: node}
}

func (f *fixture) metric(t *testing.T, name string) snowflake.ID {
	t.Helper()
	m, err := f.catalog.Resolve(context.Background(), name, "node_load1")
	require.NoError(t, err)
	return m.ID
}

func TestTrackIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.node.Generate()
	metricID := f.metric(t, "LOAD_AVERAGE")

	created, err := f.tracking.Track(ctx, userID, metricID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.tracking.Track(ctx, userID, metricID)
	require.NoError(t, err)
	assert.False(t, created)

	tracking, err := f.tracking.IsTracking(ctx, userID, metricID)
	require.NoError(t, err)
	assert.True(t, tracking)
}

func TestTrackUnknownMetric(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracking.Track(context.Background(), f.node.Generate(), snowflake.ID(999))
	assert.ErrorIs(t, err, trackingdomain.ErrMetricNotFound)
}

func TestUntrackReportsRemoval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.node.Generate()
	metricID := f.metric(t, "LOAD_AVERAGE")

	removed, err := f.tracking.Untrack(ctx, userID, metricID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = f.tracking.Track(ctx, userID, metricID)
	require.NoError(t, err)

	removed, err = f.tracking.Untrack(ctx, userID, metricID)
	require.NoError(t, err)
	assert.True(t, removed)

	tracking, err := f.tracking.IsTracking(ctx, userID, metricID)
	require.NoError(t, err)
	assert.False(t, tracking)
}

func TestHasAnyTrackerFollowsSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	metricID := f.metric(t, "LOAD_AVERAGE")
	alice := f.node.Generate()
	bob := f.node.Generate()

	any, err := f.tracking.HasAnyTracker(ctx, metricID)
	require.NoError(t, err)
	assert.False(t, any)

	_, err = f.tracking.Track(ctx, alice, metricID)
	require.NoError(t, err)
	_, err = f.tracking.Track(ctx, bob, metricID)
	require.NoError(t, err)

	any, err = f.tracking.HasAnyTracker(ctx, metricID)
	require.NoError(t, err)
	assert.True(t, any)

	_, err = f.tracking.Untrack(ctx, alice, metricID)
	require.NoError(t, err)
	any, err = f.tracking.HasAnyTracker(ctx, metricID)
	require.NoError(t, err)
	assert.True(t, any)

	_, err = f.tracking.Untrack(ctx, bob, metricID)
	require.NoError(t, err)
	any, err = f.tracking.HasAnyTracker(ctx, metricID)
	require.NoError(t, err)
	assert.False(t, any)
}

func TestListTrackedByUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.node.Generate()
	load := f.metric(t, "LOAD_AVERAGE")
	procs := f.metric(t, "NODE_PROCESS_COUNT")
	f.metric(t, "NODE_UPTIME")

	_, err := f.tracking.Track(ctx, userID, load)
	require.NoError(t, err)
	_, err = f.tracking.Track(ctx, userID, procs)
	require.NoError(t, err)

	metrics, err := f.tracking.ListTrackedByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	names := []string{metrics[0].Name, metrics[1].Name}
	assert.Contains(t, names, "LOAD_AVERAGE")
	assert.Contains(t, names, "NODE_PROCESS_COUNT")
}

func TestListTrackingUsersIsDistinct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.node.Generate()
	load := f.metric(t, "LOAD_AVERAGE")
	procs := f.metric(t, "NODE_PROCESS_COUNT")

	_, err := f.tracking.Track(ctx, userID, load)
	require.NoError(t, err)
	_, err = f.tracking.Track(ctx, userID, procs)
	require.NoError(t, err)

	users, err := f.tracking.ListTrackingUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{userID}, users)
}
