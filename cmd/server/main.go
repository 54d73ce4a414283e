package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Ashraf7ussein/RoscaBackend/internal/api"
	"github.com/Ashraf7ussein/RoscaBackend/internal/auth"
	"github.com/Ashraf7ussein/RoscaBackend/internal/config"
	"github.com/Ashraf7ussein/RoscaBackend/internal/service"
	"github.com/Ashraf7ussein/RoscaBackend/internal/storage/sqlite"
	"github.com/Ashraf7ussein/RoscaBackend/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	groupService := service.NewGroupService(store)
	authService := service.NewAuthService(authenticator, jwtManager)

	handler := api.New(groupService, authService, jwtManager).Handler()

	// h2c allows HTTP/2 without TLS behind a terminating proxy.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting", "address", cfg.BindAddr)
	if err := http.ListenAndServe(cfg.BindAddr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
