package tag

import (
	"github.com/pulseboard/pulseboard/internal/tag/repository"
	"github.com/pulseboard/pulseboard/internal/tag/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tag.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
