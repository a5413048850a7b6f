package sample

import (
	"github.com/pulseboard/pulseboard/internal/sample/repository"
	"github.com/pulseboard/pulseboard/internal/sample/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sample.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
