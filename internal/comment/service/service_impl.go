package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	commentdomain "github.com/pulseboard/pulseboard/internal/comment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    commentdomain.Repository
	Catalog catalogdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    commentdomain.Repository
	catalog catalogdomain.Service
	genID   *snowflake.Node
}

func New(p Params) commentdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("comment.service"),
		repo:    p.Repo,
		catalog: p.Catalog,
		genID:   p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, metricID, userID snowflake.ID, body string) (*commentdomain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, commentdomain.ErrEmptyBody
	}
	if _, err := s.catalog.GetByID(ctx, metricID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &commentdomain.Comment{
		ID:        s.genID.Generate(),
		MetricID:  metricID,
		UserID:    userID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) ListByMetric(ctx context.Context, metricID snowflake.ID) ([]commentdomain.Comment, error) {
	if _, err := s.catalog.GetByID(ctx, metricID); err != nil {
		return nil, err
	}
	return s.repo.ListByMetric(ctx, s.db, metricID)
}

func (s *Service) Update(ctx context.Context, id, userID snowflake.ID, body string) (*commentdomain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, commentdomain.ErrEmptyBody
	}

	comment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, commentdomain.ErrNotFound
	}
	if comment.UserID != userID {
		return nil, commentdomain.ErrNotOwner
	}

	comment.Body = body
	comment.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) Delete(ctx context.Context, id, userID snowflake.ID, asAdmin bool) error {
	comment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return commentdomain.ErrNotFound
	}
	if comment.UserID != userID && !asAdmin {
		return commentdomain.ErrNotOwner
	}

	removed, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !removed {
		return commentdomain.ErrNotFound
	}
	return nil
}
