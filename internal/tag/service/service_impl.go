package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	tagdomain "github.com/pulseboard/pulseboard/internal/tag/domain"
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
	Repo    tagdomain.Repository
	Catalog catalogdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    tagdomain.Repository
	catalog catalogdomain.Service
	genID   *snowflake.Node
}

func New(p Params) tagdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("tag.service"),
		repo:    p.Repo,
		catalog: p.Catalog,
		genID:   p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, name string) (*tagdomain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, tagdomain.ErrInvalidName
	}

	tag := &tagdomain.Tag{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, tag); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, tagdomain.ErrTagExists
		}
		return nil, err
	}

	s.log.Info("tag created", zap.String("name", name))
	return tag, nil
}

func (s *Service) List(ctx context.Context, search string) ([]tagdomain.Tag, error) {
	return s.repo.List(ctx, s.db, search)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	removed, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !removed {
		return tagdomain.ErrNotFound
	}
	return nil
}

func (s *Service) Attach(ctx context.Context, metricID, tagID snowflake.ID) error {
	if _, err := s.catalog.GetByID(ctx, metricID); err != nil {
		return err
	}
	tag, err := s.repo.FindByID(ctx, s.db, tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return tagdomain.ErrNotFound
	}

	link := &tagdomain.MetricTag{
		ID:       s.genID.Generate(),
		MetricID: metricID,
		TagID:    tagID,
	}
	if err := s.repo.InsertLink(ctx, s.db, link); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) Detach(ctx context.Context, metricID, tagID snowflake.ID) error {
	removed, err := s.repo.DeleteLink(ctx, s.db, metricID, tagID)
	if err != nil {
		return err
	}
	if !removed {
		return tagdomain.ErrNotFound
	}
	return nil
}

func (s *Service) ListByMetric(ctx context.Context, metricID snowflake.ID) ([]tagdomain.Tag, error) {
	return s.repo.ListByMetric(ctx, s.db, metricID)
}
