package observability

import (
	"github.com/pulseboard/pulseboard/internal/observability/logger"
	"github.com/pulseboard/pulseboard/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		logger.New,
		metrics.NewHTTPMetrics,
	),
)
