package api

import (
	"net/http"
	"time"

	"event_calendar/internal/api/handler"
	apimiddleware "event_calendar/internal/api/middleware"
	"event_calendar/internal/app/service"
	"event_calendar/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog"
)

func NewRouter(
	authService *service.AuthService,
	eventService *service.EventService,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(apimiddleware.RequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses "Authorization: Bearer T" and puts claims in context.
	// Enforcement happens in the Authenticator gate on protected groups.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(authService)
	r.Route("/api/auth", authHandler.RegisterRoutes)

	// Event routes (all require a valid session)
	eventHandler := handler.NewEventHandler(eventService)
	r.Route("/api/events", func(events chi.Router) {
		events.Use(apimiddleware.Authenticator)
		eventHandler.RegisterRoutes(events)
	})

	return r
}
