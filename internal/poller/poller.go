// Package poller runs the collection loop: once per tick it walks the
// built-in catalog, fetches each tracked metric from the telemetry
// source, appends the sample, and hands it to the broadcast hub.
package poller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/catalog"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	"github.com/pulseboard/pulseboard/internal/clock"
	"github.com/pulseboard/pulseboard/internal/live"
	"github.com/pulseboard/pulseboard/internal/observability/metrics"
	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
	"github.com/pulseboard/pulseboard/internal/source"
	trackingdomain "github.com/pulseboard/pulseboard/internal/tracking/domain"
)

// Source is the read side of the telemetry backend.
type Source interface {
	Query(ctx context.Context, expr string) (source.Result, error)
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Catalog  catalogdomain.Service
	Tracking trackingdomain.Service
	Samples  sampledomain.Service
	Hub      *live.Hub
	Source   Source
	Locker   *Locker `optional:"true"`
	Config   Config  `optional:"true"`
}

type Poller struct {
	log      *zap.Logger
	clock    clock.Clock
	catalog  catalogdomain.Service
	tracking trackingdomain.Service
	samples  sampledomain.Service
	hub      *live.Hub
	source   Source
	locker   *Locker
	cfg      Config
	metrics  *metrics.PollerMetrics

	defs []catalogdomain.Definition

	mu  sync.Mutex
	ids map[string]snowflake.ID
}

func New(p Params) *Poller {
	return &Poller{
		log:      p.Log.Named("poller"),
		clock:    p.Clock,
		catalog:  p.Catalog,
		tracking: p.Tracking,
		samples:  p.Samples,
		hub:      p.Hub,
		source:   p.Source,
		locker:   p.Locker,
		cfg:      p.Config.withDefaults(),
		metrics:  metrics.Poller(),
		defs:     catalog.BuiltinDefinitions(),
		ids:      make(map[string]snowflake.ID),
	}
}

func (p *Poller) RunForever(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := p.RunOnce(ctx); err != nil {
			p.log.Warn("poll tick failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce executes a single tick. With a locker configured, the tick
// only runs on the instance that wins the leader lock.
func (p *Poller) RunOnce(ctx context.Context) error {
	if p.locker != nil {
		token, ok, err := p.locker.TryLock(ctx, p.cfg.LeaderKey, p.cfg.PollInterval)
		if err != nil {
			return fmt.Errorf("leader lock: %w", err)
		}
		if !ok {
			p.log.Debug("tick skipped, another instance holds the lock")
			return nil
		}
		defer func() {
			if err := p.locker.Release(ctx, p.cfg.LeaderKey, token); err != nil {
				p.log.Warn("leader lock release failed", zap.Error(err))
			}
		}()
	}

	started := time.Now()
	p.tick(ctx)
	p.metrics.IncTick()
	p.metrics.ObserveTick(time.Since(started))
	return nil
}

// tick collects every catalog entry, bounded by MaxConcurrent. A
// failure on one metric never touches the others.
func (p *Poller) tick(ctx context.Context) {
	sem := make(chan struct{}, p.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	for _, def := range p.defs {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(def catalogdomain.Definition) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := p.collect(ctx, def); err != nil {
				p.log.Warn("metric collection failed",
					zap.String("metric", def.Name),
					zap.Error(err),
				)
			}
		}(def)
	}

	wg.Wait()
}

// collect handles one metric for one tick: gate on trackers, fetch,
// store, then publish. The append always completes before the live
// event goes out.
func (p *Poller) collect(ctx context.Context, def catalogdomain.Definition) error {
	metricID, err := p.metricID(ctx, def)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	tracked, err := p.tracking.HasAnyTracker(ctx, metricID)
	if err != nil {
		return fmt.Errorf("tracker gate: %w", err)
	}
	if !tracked {
		p.metrics.IncGatedSkip(def.Name)
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	res, err := p.source.Query(fetchCtx, def.SourceQuery)
	cancel()
	p.metrics.IncFetch(def.Name)
	if err != nil {
		p.metrics.IncFetchFailure(def.Name)
		if errors.Is(err, source.ErrNoData) {
			p.log.Debug("source returned no data", zap.String("metric", def.Name))
			return nil
		}
		return fmt.Errorf("fetch: %w", err)
	}

	at := p.clock.Now()
	if _, err := p.samples.Append(ctx, metricID, res.Value, at); err != nil {
		p.metrics.IncStoreFailure(def.Name)
		p.log.Error("sample append failed",
			zap.String("metric", def.Name),
			zap.String("value", res.Value),
			zap.Error(err),
		)
		return fmt.Errorf("store: %w", err)
	}
	p.metrics.IncSampleStored(def.Name)

	value, err := strconv.ParseFloat(res.Value, 64)
	if err != nil {
		return fmt.Errorf("parse stored value %q: %w", res.Value, err)
	}

	p.hub.Publish(live.Event{MetricID: metricID, Value: value, Date: at})
	p.metrics.IncEventPublished(def.Name)
	return nil
}

// metricID resolves a catalog definition to its durable record once and
// memoizes the ID for later ticks.
func (p *Poller) metricID(ctx context.Context, def catalogdomain.Definition) (snowflake.ID, error) {
	p.mu.Lock()
	id, ok := p.ids[def.Name]
	p.mu.Unlock()
	if ok {
		return id, nil
	}

	metric, err := p.catalog.Resolve(ctx, def.Name, def.SourceQuery)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	p.ids[def.Name] = metric.ID
	p.mu.Unlock()
	return metric.ID, nil
}
