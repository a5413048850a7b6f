package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pulseboard/pulseboard/internal/auth"
	"github.com/pulseboard/pulseboard/internal/catalog"
	"github.com/pulseboard/pulseboard/internal/clock"
	"github.com/pulseboard/pulseboard/internal/comment"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/live"
	"github.com/pulseboard/pulseboard/internal/migration"
	"github.com/pulseboard/pulseboard/internal/observability"
	"github.com/pulseboard/pulseboard/internal/poller"
	"github.com/pulseboard/pulseboard/internal/providers"
	"github.com/pulseboard/pulseboard/internal/report"
	"github.com/pulseboard/pulseboard/internal/sample"
	"github.com/pulseboard/pulseboard/internal/seed"
	"github.com/pulseboard/pulseboard/internal/server"
	"github.com/pulseboard/pulseboard/internal/source"
	"github.com/pulseboard/pulseboard/internal/tag"
	"github.com/pulseboard/pulseboard/internal/tracking"
	"github.com/pulseboard/pulseboard/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure.
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains.
		catalog.Module,
		tracking.Module,
		sample.Module,
		tag.Module,
		comment.Module,
		auth.Module,
		live.Module,

		// Collection and delivery.
		source.Module,
		providers.Module,
		poller.Module,
		report.Module,

		seed.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
