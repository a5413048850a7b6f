package tracking

import (
	"github.com/pulseboard/pulseboard/internal/tracking/repository"
	"github.com/pulseboard/pulseboard/internal/tracking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tracking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
