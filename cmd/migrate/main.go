// Command migrate manages the database schema with goose. The create and
// validate subcommands work on files alone; everything else connects to the
// configured database first.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/calderapos/caldera-backend/pkg/config"
	"github.com/calderapos/caldera-backend/pkg/db"
	"github.com/calderapos/caldera-backend/pkg/logger"
	"github.com/calderapos/caldera-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	if done := runFileCommand(*cmd, *dir, *name); done {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		fatal("connect database", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		fatal("acquire sql handle", err)
	}

	switch *cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			fatal("goose "+*cmd, err)
		}
	case "version":
		if *version == "" {
			fatal("version", fmt.Errorf("missing -version"))
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			fatal("goose migrate to version", err)
		}
	default:
		fatal("parse flags", fmt.Errorf("unknown -cmd value %q", *cmd))
	}
	logg.Info(ctx, "migration command complete")
}

// runFileCommand handles the subcommands that never touch the database and
// reports whether it consumed the command.
func runFileCommand(cmd, dir, name string) bool {
	switch cmd {
	case "create":
		if name == "" {
			fatal("create", fmt.Errorf("missing -name"))
		}
		path, err := migrate.CreateSQLMigration(dir, name)
		if err != nil {
			fatal("create migration", err)
		}
		fmt.Println("created migration:", path)
		return true
	case "validate":
		if err := migrate.ValidateDir(dir); err != nil {
			fatal("validate migrations", err)
		}
		fmt.Println("migration validation passed")
		return true
	}
	return false
}

func fatal(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
