package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	"github.com/pulseboard/pulseboard/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  catalogdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  catalogdomain.Repository
	genID *snowflake.Node
}

func New(p Params) catalogdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Resolve(ctx context.Context, name, sourceQuery string) (*catalogdomain.Metric, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}

	existing, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	m := &catalogdomain.Metric{
		ID:          s.genID.Generate(),
		Name:        name,
		SourceQuery: strings.TrimSpace(sourceQuery),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, m); err != nil {
		// A concurrent Resolve may have won the insert.
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindByName(ctx, s.db, name)
		}
		return nil, err
	}

	s.log.Info("metric definition created", zap.String("name", name))
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*catalogdomain.Metric, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, catalogdomain.ErrNotFound
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter catalogdomain.ListFilter) ([]catalogdomain.Metric, error) {
	return s.repo.List(ctx, s.db, filter)
}
