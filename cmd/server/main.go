package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event_calendar/internal/api"
	"event_calendar/internal/app/service"
	"event_calendar/internal/common/security"
	"event_calendar/internal/domain/repository"
	"event_calendar/internal/platform/config"
	"event_calendar/internal/platform/database"

	"github.com/rs/zerolog"
)

func main() {
	// 1. Load Configuration
	config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Info().Str("environment", config.AppConfig.Environment).Msg("configuration loaded")

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	// 4. Run Migrations
	if err := database.MigrateUp(config.AppConfig.DBConnURL, config.AppConfig.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}
	logger.Info().Msg("database migrated")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB, config.AppConfig.QueryTimeout)
	eventRepo := repository.NewPgEventRepository(database.DB, config.AppConfig.QueryTimeout)

	// 6. Initialize Services
	adminSeed := service.AdminSeed{
		Username: config.AppConfig.AdminUsername,
		Email:    config.AppConfig.AdminEmail,
		Password: config.AppConfig.AdminPassword,
	}
	authService := service.NewAuthService(userRepo, adminSeed, logger)
	eventService := service.NewEventService(eventRepo, logger)

	// 7. Seed the admin identity (idempotent)
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := authService.SeedAdmin(seedCtx); err != nil {
		logger.Error().Err(err).Msg("admin seed failed")
	}
	seedCancel()

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, eventService, logger)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", config.AppConfig.APIPort).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}

	logger.Info().Msg("server stopped gracefully")
}
