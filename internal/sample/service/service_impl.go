package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  sampledomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  sampledomain.Repository
	genID *snowflake.Node
}

func New(p Params) sampledomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("sample.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Append(ctx context.Context, metricID snowflake.ID, value string, at time.Time) (*sampledomain.Sample, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, sampledomain.ErrInvalidValue
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return nil, sampledomain.ErrInvalidValue
	}

	sample := &sampledomain.Sample{
		ID:        s.genID.Generate(),
		MetricID:  metricID,
		Value:     value,
		CreatedAt: at.UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, sample); err != nil {
		return nil, err
	}
	return sample, nil
}

func (s *Service) Query(ctx context.Context, metricID snowflake.ID, opts sampledomain.QueryOptions) ([]sampledomain.Sample, error) {
	opts = normalize(opts)
	return s.repo.Query(ctx, s.db, metricID, opts)
}

func (s *Service) QueryDeduped(ctx context.Context, metricID snowflake.ID, from, to *time.Time) ([]sampledomain.Sample, error) {
	raw, err := s.repo.Query(ctx, s.db, metricID, sampledomain.QueryOptions{
		From:   from,
		To:     to,
		SortBy: sampledomain.SortByDate,
		Order:  sampledomain.OrderAsc,
	})
	if err != nil {
		return nil, err
	}
	return collapseConsecutive(raw), nil
}

// collapseConsecutive keeps the first sample of every run of equal values.
// Equality is on the parsed number, so "1.0" and "1.00" collapse; samples
// that fail to parse never match anything and are passed through.
func collapseConsecutive(samples []sampledomain.Sample) []sampledomain.Sample {
	if len(samples) == 0 {
		return samples
	}

	out := samples[:1]
	prev, prevOK := parseValue(samples[0].Value)
	for _, sample := range samples[1:] {
		cur, curOK := parseValue(sample.Value)
		if prevOK && curOK && cur == prev {
			continue
		}
		out = append(out, sample)
		prev, prevOK = cur, curOK
	}
	return out
}

func parseValue(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	return v, err == nil
}

func normalize(opts sampledomain.QueryOptions) sampledomain.QueryOptions {
	switch opts.SortBy {
	case sampledomain.SortByDate, sampledomain.SortByValue:
	default:
		opts.SortBy = sampledomain.SortByDate
	}
	switch opts.Order {
	case sampledomain.OrderAsc, sampledomain.OrderDesc:
	default:
		opts.Order = sampledomain.OrderAsc
	}
	return opts
}
