// Package main applies or rolls back the Postgres schema for the character
// and fitting stores.
package main

import (
	"errors"
	"flag"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/markwingerd/dft-old/internal/config"
	"github.com/markwingerd/dft-old/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dir := flag.String("migrations", "migrations", "directory holding the migration files")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	m, err := migrate.New("file://"+*dir, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("creating migrator", zap.Error(err))
	}
	defer m.Close()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	default:
		logger.Fatal("invalid direction, must be up or down", zap.String("direction", *direction))
	}

	noChange := errors.Is(err, migrate.ErrNoChange)
	if err != nil && !noChange {
		logger.Fatal("migration failed", zap.String("direction", *direction), zap.Error(err))
	}

	version, dirty, _ := m.Version()
	logger.Info("migrations applied",
		zap.String("direction", *direction),
		zap.Bool("changed", !noChange),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Duration("elapsed", time.Since(start)),
	)
}
