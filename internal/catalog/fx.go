package catalog

import (
	"github.com/pulseboard/pulseboard/internal/catalog/repository"
	"github.com/pulseboard/pulseboard/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
