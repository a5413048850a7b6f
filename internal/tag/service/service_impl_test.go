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
	tagdomain "github.com/pulseboard/pulseboard/internal/tag/domain"
	tagrepo "github.com/pulseboard/pulseboard/internal/tag/repository"
)

type fixture struct {
	tags    tagdomain.Service
	catalog catalogdomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogdomain.Metric{}, &tagdomain.Tag{}, &tagdomain.MetricTag{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	catalogSvc := catalogservice.New(catalogservice.Params{
		DB: db, Log: log, GenID: node, Repo: catalogrepo.Provide(),
	})
	tagSvc := New(Params{
		DB: db, Log: log, GenID: node, Repo: tagrepo.Provide(), Catalog: catalogSvc,
	})

	return &fixture{tags: tagSvc, catalog: catalogSvc}
}

func TestCreateAndListTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tags.Create(ctx, "cpu")
	require.NoError(t, err)
	_, err = f.tags.Create(ctx, "memory")
	require.NoError(t, err)

	_, err = f.tags.Create(ctx, "cpu")
	assert.ErrorIs(t, err, tagdomain.ErrTagExists)

	_, err = f.tags.Create(ctx, "   ")
	assert.ErrorIs(t, err, tagdomain.ErrInvalidName)

	all, err := f.tags.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "cpu", all[0].Name)

	filtered, err := f.tags.List(ctx, "mem")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "memory", filtered[0].Name)
}

func TestAttachDetach(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	metric, err := f.catalog.Resolve(ctx, "LOAD_AVERAGE", "node_load1")
	require.NoError(t, err)
	tag, err := f.tags.Create(ctx, "load")
	require.NoError(t, err)

	require.NoError(t, f.tags.Attach(ctx, metric.ID, tag.ID))
	// The pair is unique; a second attach is a no-op.
	require.NoError(t, f.tags.Attach(ctx, metric.ID, tag.ID))

	linked, err := f.tags.ListByMetric(ctx, metric.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "load", linked[0].Name)

	require.NoError(t, f.tags.Detach(ctx, metric.ID, tag.ID))
	assert.ErrorIs(t, f.tags.Detach(ctx, metric.ID, tag.ID), tagdomain.ErrNotFound)
}

func TestAttachUnknownMetricOrTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	metric, err := f.catalog.Resolve(ctx, "NODE_UPTIME", "time() - node_boot_time_seconds")
	require.NoError(t, err)
	tag, err := f.tags.Create(ctx, "host")
	require.NoError(t, err)

	assert.ErrorIs(t, f.tags.Attach(ctx, snowflake.ID(999), tag.ID), catalogdomain.ErrNotFound)
	assert.ErrorIs(t, f.tags.Attach(ctx, metric.ID, snowflake.ID(999)), tagdomain.ErrNotFound)
}

func TestDeleteTagRemovesLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	metric, err := f.catalog.Resolve(ctx, "LOAD_AVERAGE", "node_load1")
	require.NoError(t, err)
	tag, err := f.tags.Create(ctx, "stale")
	require.NoError(t, err)
	require.NoError(t, f.tags.Attach(ctx, metric.ID, tag.ID))

	require.NoError(t, f.tags.Delete(ctx, tag.ID))
	assert.ErrorIs(t, f.tags.Delete(ctx, tag.ID), tagdomain.ErrNotFound)

	linked, err := f.tags.ListByMetric(ctx, metric.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)
}

func TestCatalogListFiltersByAllTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	load, err := f.catalog.Resolve(ctx, "LOAD_AVERAGE", "node_load1")
	require.NoError(t, err)
	uptime, err := f.catalog.Resolve(ctx, "NODE_UPTIME", "time() - node_boot_time_seconds")
	require.NoError(t, err)

	host, err := f.tags.Create(ctx, "host")
	require.NoError(t, err)
	perf, err := f.tags.Create(ctx, "perf")
	require.NoError(t, err)

	require.NoError(t, f.tags.Attach(ctx, load.ID, host.ID))
	require.NoError(t, f.tags.Attach(ctx, load.ID, perf.ID))
	require.NoError(t, f.tags.Attach(ctx, uptime.ID, host.ID))

	// Both tags required: only the metric carrying both qualifies.
	metrics, err := f.catalog.List(ctx, catalogdomain.ListFilter{TagIDs: []snowflake.ID{host.ID, perf.ID}})
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, "LOAD_AVERAGE", metrics[0].Name)

	metrics, err = f.catalog.List(ctx, catalogdomain.ListFilter{TagIDs: []snowflake.ID{host.ID}})
	require.NoError(t, err)
	assert.Len(t, metrics, 2)
}
