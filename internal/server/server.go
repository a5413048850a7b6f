// Package server is the HTTP edge: gin engine, middleware stack, and the
// handlers that expose the catalog, tracking, history, live channel, and
// admin surfaces.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	authdomain "github.com/pulseboard/pulseboard/internal/auth/domain"
	"github.com/pulseboard/pulseboard/internal/auth/session"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	commentdomain "github.com/pulseboard/pulseboard/internal/comment/domain"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/live"
	obsmiddleware "github.com/pulseboard/pulseboard/internal/observability/logger"
	obsmetrics "github.com/pulseboard/pulseboard/internal/observability/metrics"
	"github.com/pulseboard/pulseboard/internal/poller"
	"github.com/pulseboard/pulseboard/internal/report"
	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
	tagdomain "github.com/pulseboard/pulseboard/internal/tag/domain"
	trackingdomain "github.com/pulseboard/pulseboard/internal/tracking/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	authsvc     authdomain.Service
	sessions    *session.Manager
	catalogSvc  catalogdomain.Service
	trackingSvc trackingdomain.Service
	sampleSvc   sampledomain.Service
	tagSvc      tagdomain.Service
	commentSvc  commentdomain.Service
	hub         *live.Hub
	source      poller.Source
	reports     *report.Worker
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	Authsvc     authdomain.Service
	Sessions    *session.Manager
	CatalogSvc  catalogdomain.Service
	TrackingSvc trackingdomain.Service
	SampleSvc   sampledomain.Service
	TagSvc      tagdomain.Service
	CommentSvc  commentdomain.Service
	Hub         *live.Hub
	Source      poller.Source
	Reports     *report.Worker
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		authsvc:     p.Authsvc,
		sessions:    p.Sessions,
		catalogSvc:  p.CatalogSvc,
		trackingSvc: p.TrackingSvc,
		sampleSvc:   p.SampleSvc,
		tagSvc:      p.TagSvc,
		commentSvc:  p.CommentSvc,
		hub:         p.Hub,
		source:      p.Source,
		reports:     p.Reports,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) registerAuthRoutes() {
	group := s.engine.Group("/auth")
	group.POST("/register", s.Register)
	group.POST("/login", s.Login)
	group.POST("/logout", s.Logout)

	authed := group.Group("", s.AuthRequired())
	authed.GET("/me", s.Me)
	authed.PUT("/settings", s.UpdateSettings)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	api.GET("/metrics", s.ListMetrics)
	api.GET("/metrics/tracked", s.ListTrackedMetrics)
	api.GET("/metrics/:id/current", s.CurrentValue)
	api.POST("/metrics/:id/track", s.TrackMetric)
	api.DELETE("/metrics/:id/track", s.UntrackMetric)

	api.GET("/metrics/:id/values", s.MetricValues)
	api.GET("/metrics/:id/values/deduped", s.MetricValuesDeduped)
	api.GET("/metrics/:id/values/all", s.MetricValuesAll)

	api.GET("/metrics/:id/comments", s.ListComments)
	api.POST("/metrics/:id/comments", s.CreateComment)
	api.PUT("/comments/:id", s.UpdateComment)
	api.DELETE("/comments/:id", s.DeleteComment)

	api.GET("/live", s.LiveEvents)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin", s.AuthRequired(), s.RequireAdmin())

	admin.GET("/tags", s.ListTags)
	admin.POST("/tags", s.CreateTag)
	admin.DELETE("/tags/:id", s.DeleteTag)
	admin.POST("/metrics/:id/tags/:tagId", s.AttachTag)
	admin.DELETE("/metrics/:id/tags/:tagId", s.DetachTag)

	admin.GET("/users", s.ListUsers)
	admin.DELETE("/users/:id", s.DeleteUser)

	admin.POST("/reports/run", s.RunReports)
}
