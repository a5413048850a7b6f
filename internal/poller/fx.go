package poller

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/source"
	"go.uber.org/fx"
)

var Module = fx.Module("poller",
	fx.Provide(NewConfig),
	fx.Provide(NewLocker),
	fx.Provide(func(c *source.Client) Source { return c }),
	fx.Provide(New),
	fx.Invoke(runPoller),
)

func runPoller(lc fx.Lifecycle, p *Poller) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go p.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
