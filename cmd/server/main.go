package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/pemira_backend/internal/config"
	"github.com/zaqqye/pemira_backend/internal/database"
	"github.com/zaqqye/pemira_backend/internal/mailer"
	"github.com/zaqqye/pemira_backend/internal/routes"
	"github.com/zaqqye/pemira_backend/internal/storage"
	"github.com/zaqqye/pemira_backend/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	if err := database.SeedAdmin(db, cfg); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}

	if err := database.SeedPrograms(db); err != nil {
		log.Fatalf("program seed failed: %v", err)
	}

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalf("upload dir init failed: %v", err)
	}

	hub := ws.NewResultsHub()
	go hub.Run()

	r := gin.Default()
	routes.Register(r, db, cfg, hub, store, mailer.FromConfig(cfg))

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Println("server exited with error:", err)
		os.Exit(1)
	}
}
