// @title Virtual Anatomy Quiz API
// @version 1.0
// @description Backend for the virtual anatomy quiz platform: quiz authoring,
// @description attempt ingestion from the 3D client, and per-question result
// @description aggregation.

// @host localhost:8080
// @BasePath /api
package main

import (
	"flag"
	"log"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/app"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/config"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/configwatcher"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migration and exit")
	migrate := flag.Bool("migrate", false, "force database migration on startup")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration completed, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
