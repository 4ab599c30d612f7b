package main

import (
	"os"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/config"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/migration"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName + "-migrate")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DATABASE_URL env var is missing")
	}

	if err := migration.MigrateCommand(dbURL).Execute(); err != nil {
		utils.Logger.WithError(err).Fatal("Migration failed")
	}
}
