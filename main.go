// school-erp/main.go
package main

import (
	"log/slog"
	"os"

	"school-erp/config"
	"school-erp/internal/handlers"
	"school-erp/internal/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.Migrate(config.DB); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}
	if err := config.Seed(config.DB); err != nil {
		slog.Error("Database seeding failed", "error", err)
		os.Exit(1)
	}

	go handlers.GlobalHub.Run()

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
