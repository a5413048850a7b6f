package report

import (
	"context"

	appconfig "github.com/pulseboard/pulseboard/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("report",
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, cfg appconfig.Config, worker *Worker) {
	if !cfg.Report.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go worker.RunForever(ctx)

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
