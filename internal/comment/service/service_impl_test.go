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
	commentdomain "github.com/pulseboard/pulseboard/internal/comment/domain"
	commentrepo "github.com/pulseboard/pulseboard/internal/comment/repository"
)

func newService(t *testing.T) (commentdomain.Service, snowflake.ID, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogdomain.Metric{}, &commentdomain.Comment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	catalogSvc := catalogservice.New(catalogservice.Params{
		DB: db, Log: log, GenID: node, Repo: catalogrepo.Provide(),
	})
	svc := New(Params{
		DB: db, Log: log, GenID: node, Repo: commentrepo.Provide(), Catalog: catalogSvc,
	})

	metric, err := catalogSvc.Resolve(context.Background(), "LOAD_AVERAGE", "node_load1")
	require.NoError(t, err)

	return svc, metric.ID, node
}

func TestCreateAndListComments(t *testing.T) {
	svc, metricID, node := newService(t)
	ctx := context.Background()
	userID := node.Generate()

	first, err := svc.Create(ctx, metricID, userID, "load spiked during deploy")
	require.NoError(t, err)
	_, err = svc.Create(ctx, metricID, userID, "back to normal")
	require.NoError(t, err)

	thread, err := svc.ListByMetric(ctx, metricID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, first.ID, thread[0].ID)
}

func TestCreateRejectsEmptyBody(t *testing.T) {
	svc, metricID, node := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, metricID, node.Generate(), "   ")
	assert.ErrorIs(t, err, commentdomain.ErrEmptyBody)

	_, err = svc.Create(ctx, snowflake.ID(999), node.Generate(), "orphan")
	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
}

func TestUpdateOwnershipEnforced(t *testing.T) {
	svc, metricID, node := newService(t)
	ctx := context.Background()
	author := node.Generate()
	other := node.Generate()

	comment, err := svc.Create(ctx, metricID, author, "original")
	require.NoError(t, err)

	_, err = svc.Update(ctx, comment.ID, other, "hijacked")
	assert.ErrorIs(t, err, commentdomain.ErrNotOwner)

	updated, err := svc.Update(ctx, comment.ID, author, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body)

	_, err = svc.Update(ctx, comment.ID, author, "")
	assert.ErrorIs(t, err, commentdomain.ErrEmptyBody)
}

func TestDeleteOwnerOrAdmin(t *testing.T) {
	svc, metricID, node := newService(t)
	ctx := context.Background()
	author := node.Generate()
	other := node.Generate()

	comment, err := svc.Create(ctx, metricID, author, "to be removed")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, comment.ID, other, false), commentdomain.ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, comment.ID, other, true))
	assert.ErrorIs(t, svc.Delete(ctx, comment.ID, author, false), commentdomain.ErrNotFound)
}
