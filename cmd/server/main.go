package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rgault/splitpot/internal/api"
	"github.com/rgault/splitpot/internal/auth"
	"github.com/rgault/splitpot/internal/service"
	"github.com/rgault/splitpot/internal/storage/sqlite"
	"github.com/rgault/splitpot/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// Setup structured logging (level from LOG_LEVEL)
	logging.Setup()

	// Get configuration from env or use defaults
	dbPath := getEnv("DB_PATH", "./data/splitpot.db")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)

	handler := api.NewHandler(
		service.NewIdentityService(store),
		service.NewProjectService(store),
		service.NewMembershipService(store),
		service.NewLedgerService(store),
		jwtManager,
	)

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, handler.Router()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
