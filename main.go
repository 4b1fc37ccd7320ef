package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Local development keeps the access token in a .env file; missing file
	// is fine, the config chain falls through to the environment.
	_ = godotenv.Load()

	cfg := LoadConfig()

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init snapshot database: %v", err)
	}
	defer db.Close()

	src := NewDataSource(cfg, db)

	StartRefreshScheduler(cfg, src)

	log.Printf("Starting EM Score Dashboard for %s/%s/%s...", cfg.GitHubOwner, cfg.GitHubRepo, cfg.FolderPath)
	if err := StartDashboardServer(cfg, src); err != nil {
		log.Fatalf("Dashboard server error: %v", err)
	}
}
