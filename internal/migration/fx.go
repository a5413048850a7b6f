package migration

import (
	authdomain "github.com/pulseboard/pulseboard/internal/auth/domain"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	commentdomain "github.com/pulseboard/pulseboard/internal/comment/domain"
	"github.com/pulseboard/pulseboard/internal/config"
	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
	tagdomain "github.com/pulseboard/pulseboard/internal/tag/domain"
	trackingdomain "github.com/pulseboard/pulseboard/internal/tracking/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Versioned SQL migrations target postgres; the sqlite and
			// mysql paths build the schema from the models.
			return conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&catalogdomain.Metric{},
				&sampledomain.Sample{},
				&trackingdomain.Trackable{},
				&tagdomain.Tag{},
				&tagdomain.MetricTag{},
				&commentdomain.Comment{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
