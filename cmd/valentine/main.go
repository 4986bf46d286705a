package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/saquib05/valentine-site/internal/clock"
	"github.com/saquib05/valentine-site/internal/config"
	"github.com/saquib05/valentine-site/internal/migration"
	"github.com/saquib05/valentine-site/internal/notification"
	"github.com/saquib05/valentine-site/internal/observability"
	"github.com/saquib05/valentine-site/internal/proposal"
	"github.com/saquib05/valentine-site/internal/providers/email"
	"github.com/saquib05/valentine-site/internal/ratelimit"
	"github.com/saquib05/valentine-site/internal/server"
	"github.com/saquib05/valentine-site/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		proposal.Module,
		email.Module,
		notification.Module,
		ratelimit.Module,
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
