package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/clock"
	"github.com/smallbiznis/taxrail/internal/config"
	"github.com/smallbiznis/taxrail/internal/logger"
	"github.com/smallbiznis/taxrail/internal/migration"
	"github.com/smallbiznis/taxrail/internal/observability/metrics"
	"github.com/smallbiznis/taxrail/internal/seed"
	"github.com/smallbiznis/taxrail/internal/server"
	"github.com/smallbiznis/taxrail/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		metrics.Module,

		migration.Module,
		seed.Module,

		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
