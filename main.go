package main

import (
	"log"

	"github.com/aj9599/zaptec-sync/config"
	"github.com/aj9599/zaptec-sync/database"
)

func main() {
	log.Println("Starting Zaptec charge-history sync...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := NewApp(cfg, db).Run(); err != nil {
		log.Fatalf("Sync failed: %v", err)
	}
}
