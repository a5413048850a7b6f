// Package seed bootstraps a fresh installation: the built-in metric
// catalog and, when configured, the admin account. Every step is
// idempotent so repeated startups are safe.
package seed

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	authdomain "github.com/pulseboard/pulseboard/internal/auth/domain"
	"github.com/pulseboard/pulseboard/internal/catalog"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	"github.com/pulseboard/pulseboard/internal/config"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Config  config.Config
	Catalog catalogdomain.Service
	Auth    authdomain.Service
}

func Run(p Params) error {
	ctx := context.Background()
	log := p.Log.Named("seed")

	for _, def := range catalog.BuiltinDefinitions() {
		if _, err := p.Catalog.Resolve(ctx, def.Name, def.SourceQuery); err != nil {
			return err
		}
	}
	log.Info("metric catalog seeded", zap.Int("definitions", len(catalog.BuiltinDefinitions())))

	if p.Config.AdminPassword != "" {
		if err := p.Auth.EnsureAdmin(ctx, p.Config.AdminUsername, p.Config.AdminPassword); err != nil {
			return err
		}
	}

	return nil
}

var Module = fx.Module("seed",
	fx.Invoke(Run),
)
