package migration

import (
	"github.com/saquib05/valentine-site/internal/config"
	"github.com/saquib05/valentine-site/internal/proposal/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Versioned migrations target postgres; other dialects are for
			// local development and tests where AutoMigrate is sufficient.
			return conn.AutoMigrate(&domain.Proposal{})
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
