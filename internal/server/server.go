package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/campusmatch/campusmatch/internal/app"
	"github.com/campusmatch/campusmatch/internal/auth"
	"github.com/campusmatch/campusmatch/internal/config"
	"github.com/campusmatch/campusmatch/internal/repository"
	"github.com/campusmatch/campusmatch/internal/service/chat"
	"github.com/campusmatch/campusmatch/internal/service/discover"
	"github.com/campusmatch/campusmatch/internal/service/swipe"
)

// Server wires the HTTP surface over the core services.
type Server struct {
	appCtx      *app.AppContext
	tokens      *auth.TokenManager
	discover    *discover.Service
	swipes      *swipe.Service
	chat        *chat.Service
	profileRepo *repository.ProfileRepository
}

// New builds the server and its services from AppContext and config.
func New(appCtx *app.AppContext, cfg *config.Config) *Server {
	return &Server{
		appCtx:      appCtx,
		tokens:      auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		discover:    discover.NewService(appCtx, cfg.Discover.PoolSize),
		swipes:      swipe.NewService(appCtx),
		chat:        chat.NewService(appCtx),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// Routes assembles the chi router with middleware and all endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(s.logRequests)

	mux.Get("/healthz", s.handleHealth)

	mux.Route("/api", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/candidates", s.handleCandidates)
		r.Post("/swipes", s.handleSwipe)
		r.Get("/matches", s.handleMatches)
		r.Get("/matches/{matchID}/messages", s.handleListMessages)
		r.Post("/matches/{matchID}/messages", s.handleSendMessage)
		r.Get("/likes/count", s.handleAdmirerCount)
		r.Get("/profile", s.handleProfile)
		r.Get("/interests", s.handleInterests)
	})

	return mux
}

// Start boots the HTTP server on the configured address.
func Start(cfg *config.Config, handler http.Handler) error {
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return srv.ListenAndServe()
}
