package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/picksmart/storesync/internal/config"
	"github.com/picksmart/storesync/internal/migration"
	"github.com/picksmart/storesync/internal/observability"
	"github.com/picksmart/storesync/internal/server"
	"github.com/picksmart/storesync/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
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
