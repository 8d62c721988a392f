package main

// Run database migrations:
//   go run ./cmd/migrate
//   go run ./cmd/migrate -down

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"resume-maker/internal/shared/config"
	"resume-maker/internal/shared/storage/db"
	"resume-maker/internal/shared/telemetry"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()
	log := telemetry.L()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Error("failed to connect database", zap.Error(err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	if *down {
		err = db.RollbackMigration(ctx, sqlDB)
	} else {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		log.Error("migration failed", zap.Bool("down", *down), zap.Error(err))
		os.Exit(1)
	}
	log.Info("migrations applied", zap.Bool("down", *down))
}
