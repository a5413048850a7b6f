package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	trackingdomain "github.com/pulseboard/pulseboard/internal/tracking/domain"
	"github.com/pulseboard/pulseboard/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    trackingdomain.Repository
	Catalog catalogdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    trackingdomain.Repository
	catalog catalogdomain.Service
	genID   *snowflake.Node
}

func New(p Params) trackingdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("tracking.service"),
		repo:    p.Repo,
		catalog: p.Catalog,
		genID:   p.GenID,
	}
}

func (s *Service) Track(ctx context.Context, userID, metricID snowflake.ID) (bool, error) {
	if _, err := s.catalog.GetByID(ctx, metricID); err != nil {
		if err == catalogdomain.ErrNotFound {
			return false, trackingdomain.ErrMetricNotFound
		}
		return false, err
	}

	exists, err := s.repo.Exists(ctx, s.db, userID, metricID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	t := &trackingdomain.Trackable{
		ID:        s.genID.Generate(),
		UserID:    userID,
		MetricID:  metricID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, t); err != nil {
		// Two concurrent track calls for the same pair: the unique
		// index makes the loser equivalent to "already tracked".
		if db.IsDuplicateKeyErr(err) {
			return false, nil
		}
		return false, err
	}

	s.log.Info("metric tracked",
		zap.String("user_id", userID.String()),
		zap.String("metric_id", metricID.String()),
	)
	return true, nil
}

func (s *Service) Untrack(ctx context.Context, userID, metricID snowflake.ID) (bool, error) {
	removed, err := s.repo.Delete(ctx, s.db, userID, metricID)
	if err != nil {
		return false, err
	}
	if removed {
		s.log.Info("metric untracked",
			zap.String("user_id", userID.String()),
			zap.String("metric_id", metricID.String()),
		)
	}
	return removed, nil
}

func (s *Service) IsTracking(ctx context.Context, userID, metricID snowflake.ID) (bool, error) {
	return s.repo.Exists(ctx, s.db, userID, metricID)
}

func (s *Service) HasAnyTracker(ctx context.Context, metricID snowflake.ID) (bool, error) {
	return s.repo.HasAnyTracker(ctx, s.db, metricID)
}

func (s *Service) ListTrackedByUser(ctx context.Context, userID snowflake.ID) ([]catalogdomain.Metric, error) {
	return s.repo.ListMetricsByUser(ctx, s.db, userID)
}

func (s *Service) ListTrackingUsers(ctx context.Context) ([]snowflake.ID, error) {
	return s.repo.ListTrackingUserIDs(ctx, s.db)
}
