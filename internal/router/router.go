package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"synergy-backend/internal/handlers"
	"synergy-backend/internal/middleware"
	"synergy-backend/internal/websocket"
)

func New(
	chatHandler *handlers.ChatHandler,
	quoteHandler *handlers.QuoteHandler,
	healthHandler *handlers.HealthHandler,
	wsHub *websocket.Hub,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	// Answers preflight for every path before routing.
	r.Use(middleware.CORS)

	r.Get("/health", healthHandler.Health)

	// Quote generation is unauthenticated and costs a model call per request.
	quoteLimiter := middleware.NewRateLimiter(5, time.Minute)

	// The mobile app calls the function-style paths; /api/v1 mirrors them.
	mount := func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.With(quoteLimiter.Middleware).Post("/motivational-quotes", quoteHandler.Generate)
		r.Get("/motivational-quotes", quoteHandler.List)
		r.Get("/ws", wsHub.HandleWebSocket)
	}
	mount(r)
	r.Route("/api/v1", mount)

	return r
}
