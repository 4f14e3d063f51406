// Command migrate applies the embedded database migrations.
//
//	migrate -config_folder config up
//	migrate -config_folder config down
//	migrate -config_folder config status
package main

import (
	"context"
	"flag"
	"os"

	"github.com/pressly/goose/v3"

	"github.com/itchan-dev/bloghub/backend/internal/storage/pg"
	"github.com/itchan-dev/bloghub/shared/config"
	"github.com/itchan-dev/bloghub/shared/logger"
	sharedpg "github.com/itchan-dev/bloghub/shared/storage/pg"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)
	ctx := context.Background()

	db, err := sharedpg.Connect(ctx, cfg, sharedpg.LightweightConnectionConfig())
	if err != nil {
		logger.Log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	goose.SetBaseFS(pg.Migrations())
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Log.Error("failed to set dialect", "error", err)
		os.Exit(1)
	}

	if err := goose.RunContext(ctx, command, db, pg.MigrationsDir, flag.Args()[min(1, flag.NArg()):]...); err != nil {
		logger.Log.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
	logger.Log.Info("migration finished", "command", command)
}
