// server/cmd/api/main.go
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"foodbridge-api-server/config"
	"foodbridge-api-server/internal/ai"
	"foodbridge-api-server/internal/api/routes"
	"foodbridge-api-server/internal/auth"
	"foodbridge-api-server/internal/database"
	"foodbridge-api-server/internal/notify"
	"foodbridge-api-server/internal/socket"
	"foodbridge-api-server/internal/storage"
)

func main() {
	// 1. Load .env (optional) and configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	auth.Configure(cfg.JWT)

	// 2. Connect MongoDB
	client, db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	if err := database.SeedAdmin(db); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	store := database.NewMongoStore(client, db)

	// 3. Media storage
	uploader, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// 4. Freshness analyzer, WebSocket hub and notifier
	analyzer := ai.New(cfg.AI)
	wsHub := socket.NewHub()
	notifier := notify.New(store, wsHub)

	// 5. Router
	router := routes.SetupRouter(cfg, store, notifier, analyzer, uploader, wsHub)

	// 6. Start server
	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
