package comment

import (
	"github.com/pulseboard/pulseboard/internal/comment/repository"
	"github.com/pulseboard/pulseboard/internal/comment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("comment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
