package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Pesokrava/review_moderation/internal/config"
	"github.com/Pesokrava/review_moderation/internal/delivery/http/handler"
	"github.com/Pesokrava/review_moderation/internal/delivery/http/middleware"
	"github.com/Pesokrava/review_moderation/internal/delivery/http/response"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	reviewHandler *handler.ReviewHandler
	statsHandler  *handler.StatsHandler
	adminHandler  *handler.AdminHandler
	tokens        middleware.TokenValidator
	logger        *logger.Logger
	cfg           *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	reviewHandler *handler.ReviewHandler,
	statsHandler *handler.StatsHandler,
	adminHandler *handler.AdminHandler,
	tokens middleware.TokenValidator,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		reviewHandler: reviewHandler,
		statsHandler:  statsHandler,
		adminHandler:  adminHandler,
		tokens:        tokens,
		logger:        log,
		cfg:           cfg,
	}
}

// Setup configures and returns the HTTP router. Every route answers with
// and without a trailing slash.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.Timeout(rt.cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", rt.reviewHandler.List)
			r.Post("/create", rt.reviewHandler.Create)
			r.Get("/stats", rt.statsHandler.Get)
			r.Get("/{id}", rt.reviewHandler.Get)
			r.Post("/{id}/images", rt.reviewHandler.UploadImage)
			r.Get("/{id}/images/{imageID}", rt.reviewHandler.GetImage)
			r.Post("/{id}/vote", rt.reviewHandler.Vote)
		})

		r.Route("/admin/reviews", func(r chi.Router) {
			r.Use(middleware.RequireModerator(rt.tokens, rt.logger))

			r.Get("/", rt.adminHandler.List)
			r.Get("/pending", rt.adminHandler.ListPending)
			r.Patch("/{id}/moderate", rt.adminHandler.Moderate)
			r.Post("/{id}/respond", rt.adminHandler.Respond)
			r.Delete("/{id}", rt.adminHandler.Delete)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
