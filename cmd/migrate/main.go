package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/dukahub/backend/internal/infrastructure/config"
	"github.com/dukahub/backend/internal/infrastructure/logger"
	"github.com/dukahub/backend/internal/infrastructure/migration"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

const defaultMigrationsPath = "migrations"

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up            apply all pending migrations
  down          roll back all migrations
  steps <n>     apply n migrations (negative rolls back)
  version       print the current schema version
  force <v>     set the schema version without migrating (repairs dirty state)

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	path := flag.String("path", defaultMigrationsPath, "directory containing migration files")
	databaseURL := flag.String("database", "", "database URL (defaults to the configured database)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	defer func() { _ = log.Sync() }()

	url := *databaseURL
	if url == "" {
		url = cfg.Database.DSN()
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	migrator, err := migration.New(db, *path, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() { _ = migrator.Close() }()

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "steps":
		if flag.NArg() < 2 {
			log.Fatal("steps requires a count")
		}
		var n int
		n, err = strconv.Atoi(flag.Arg(1))
		if err != nil {
			log.Fatal("steps count must be an integer", zap.String("arg", flag.Arg(1)))
		}
		err = migrator.Steps(n)
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = migrator.Version()
		if err == nil {
			log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	case "force":
		if flag.NArg() < 2 {
			log.Fatal("force requires a version")
		}
		var v int
		v, err = strconv.Atoi(flag.Arg(1))
		if err != nil {
			log.Fatal("force version must be an integer", zap.String("arg", flag.Arg(1)))
		}
		err = migrator.Force(v)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
	}
}
