package main

import (
	"context"
	"net/http"
	"os"

	"quickshare/config/database"
	"quickshare/pkg/logger"
	"quickshare/router"

	"github.com/joho/godotenv"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}

	db := database.Connect()
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		logger.Sugar.Fatalf("Migration failed: %v", err)
	}

	handler, hub := router.Setup(db)
	go hub.Run()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	logger.Sugar.Infof("QuickShare gateway listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
