package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/pulseboard/pulseboard/internal/auth/domain"
	authrepo "github.com/pulseboard/pulseboard/internal/auth/repository"
	authservice "github.com/pulseboard/pulseboard/internal/auth/service"
	"github.com/pulseboard/pulseboard/internal/auth/session"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	catalogrepo "github.com/pulseboard/pulseboard/internal/catalog/repository"
	catalogservice "github.com/pulseboard/pulseboard/internal/catalog/service"
	commentdomain "github.com/pulseboard/pulseboard/internal/comment/domain"
	commentrepo "github.com/pulseboard/pulseboard/internal/comment/repository"
	commentservice "github.com/pulseboard/pulseboard/internal/comment/service"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/live"
	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
	samplerepo "github.com/pulseboard/pulseboard/internal/sample/repository"
	sampleservice "github.com/pulseboard/pulseboard/internal/sample/service"
	tagdomain "github.com/pulseboard/pulseboard/internal/tag/domain"
	tagrepo "github.com/pulseboard/pulseboard/internal/tag/repository"
	tagservice "github.com/pulseboard/pulseboard/internal/tag/service"
	trackingdomain "github.com/pulseboard/pulseboard/internal/tracking/domain"
	trackingrepo "github.com/pulseboard/pulseboard/internal/tracking/repository"
	trackingservice "github.com/pulseboard/pulseboard/internal/tracking/service"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	server   *Server
	catalog  catalogdomain.Service
	tracking trackingdomain.Service
	samples  sampledomain.Service
	auth     authdomain.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&authdomain.User{}, &authdomain.Session{},
		&catalogdomain.Metric{}, &trackingdomain.Trackable{},
		&sampledomain.Sample{},
		&tagdomain.Tag{}, &tagdomain.MetricTag{},
		&commentdomain.Comment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	cfg := config.Config{FetchTimeout: time.Second}

	userRepo, sessionRepo := authrepo.New(db)
	authSvc := authservice.New(authservice.Params{
		Log: log, GenID: node, Repo: userRepo, SessionRepo: sessionRepo,
	})
	catalogSvc := catalogservice.New(catalogservice.Params{
		DB: db, Log: log, GenID: node, Repo: catalogrepo.Provide(),
	})
	trackingSvc := trackingservice.New(trackingservice.Params{
		DB: db, Log: log, GenID: node, Repo: trackingrepo.Provide(), Catalog: catalogSvc,
	})
	sampleSvc := sampleservice.New(sampleservice.Params{
		DB: db, Log: log, GenID: node, Repo: samplerepo.Provide(),
	})
	tagSvc := tagservice.New(tagservice.Params{
		DB: db, Log: log, GenID: node, Repo: tagrepo.Provide(), Catalog: catalogSvc,
	})
	commentSvc := commentservice.New(commentservice.Params{
		DB: db, Log: log, GenID: node, Repo: commentrepo.Provide(), Catalog: catalogSvc,
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:         engine,
		Cfg:         cfg,
		Log:         log,
		Authsvc:     authSvc,
		Sessions:    session.NewManager(cfg),
		CatalogSvc:  catalogSvc,
		TrackingSvc: trackingSvc,
		SampleSvc:   sampleSvc,
		TagSvc:      tagSvc,
		CommentSvc:  commentSvc,
		Hub:         live.NewHub(),
	})

	return &harness{
		server:   srv,
		catalog:  catalogSvc,
		tracking: trackingSvc,
		samples:  sampleSvc,
		auth:     authSvc,
	}
}

func (h *harness) user(t *testing.T, username string) (*authdomain.User, string) {
	t.Helper()
	res, err := h.auth.Register(context.Background(), authdomain.RegisterRequest{
		Username: username,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return res.User, res.RawToken
}

func (h *harness) metric(t *testing.T, name string) snowflake.ID {
	t.Helper()
	m, err := h.catalog.Resolve(context.Background(), name, "node_load1")
	require.NoError(t, err)
	return m.ID
}

func (h *harness) get(token, path string) *httptest.ResponseRecorder {
	return h.do(http.MethodGet, token, path)
}

func (h *harness) do(method, token, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	h.server.engine.ServeHTTP(rec, req)
	return rec
}

func TestHistoryRequiresAuthentication(t *testing.T) {
	h := newHarness(t)
	metricID := h.metric(t, "LOAD_AVERAGE")

	rec := h.get("", fmt.Sprintf("/api/metrics/%s/values", metricID))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHistoryUnknownMetric(t *testing.T) {
	h := newHarness(t)
	_, token := h.user(t, "alice")

	rec := h.get(token, "/api/metrics/12345/values")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryForbiddenForNonTrackers(t *testing.T) {
	h := newHarness(t)
	_, token := h.user(t, "alice")
	metricID := h.metric(t, "LOAD_AVERAGE")

	rec := h.get(token, fmt.Sprintf("/api/metrics/%s/values", metricID))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The permissive legacy route still serves it.
	rec = h.get(token, fmt.Sprintf("/api/metrics/%s/values/all", metricID))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHistoryReturnsParsedValues(t *testing.T) {
	h := newHarness(t)
	user, token := h.user(t, "alice")
	metricID := h.metric(t, "LOAD_AVERAGE")
	ctx := context.Background()

	_, err := h.tracking.Track(ctx, user.ID, metricID)
	require.NoError(t, err)
	_, err = h.samples.Append(ctx, metricID, "0.42", baseTime)
	require.NoError(t, err)

	rec := h.get(token, fmt.Sprintf("/api/metrics/%s/values", metricID))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []struct {
		Value float64   `json:"value"`
		Date  time.Time `json:"date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 0.42, got[0].Value)
	assert.WithinDuration(t, baseTime, got[0].Date, time.Second)
}

func TestHistoryDedupedCollapsesRuns(t *testing.T) {
	h := newHarness(t)
	user, token := h.user(t, "alice")
	metricID := h.metric(t, "LOAD_AVERAGE")
	ctx := context.Background()

	_, err := h.tracking.Track(ctx, user.ID, metricID)
	require.NoError(t, err)
	for i, v := range []string{"1.0", "1.0", "2.0", "2.0", "2.0", "1.0"} {
		_, err = h.samples.Append(ctx, metricID, v, baseTime.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	rec := h.get(token, fmt.Sprintf("/api/metrics/%s/values/deduped", metricID))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []struct {
		Value float64 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got[0].Value)
	assert.Equal(t, 2.0, got[1].Value)
	assert.Equal(t, 1.0, got[2].Value)
}

func TestTrackEndpointStatusCodes(t *testing.T) {
	h := newHarness(t)
	_, token := h.user(t, "alice")
	metricID := h.metric(t, "LOAD_AVERAGE")
	path := fmt.Sprintf("/api/metrics/%s/track", metricID)

	rec := h.do(http.MethodPost, token, path)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(http.MethodPost, token, path)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodDelete, token, path)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodDelete, token, path)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	h := newHarness(t)
	_, token := h.user(t, "alice")

	rec := h.get(token, "/admin/tags")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
