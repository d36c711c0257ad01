package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tumas_backend/internal/handler"
	"tumas_backend/internal/httputil"
	authmw "tumas_backend/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	ContentHandler   *handler.ContentHandler
	InstagramHandler *handler.InstagramHandler
	MediaHandler     *handler.MediaHandler
	JWTSecret        string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Post("/auth/login", cfg.AuthHandler.Login)

	r.Route("/api", func(r chi.Router) {
		r.Get("/page", cfg.ContentHandler.GetPage)
		r.Post("/contact", cfg.ContentHandler.SubmitContact)
		r.Get("/instagram/posts", cfg.InstagramHandler.GetSection)
		r.Post("/instagram/validate", cfg.InstagramHandler.ValidateURL)
	})

	// Admin routes - require authentication
	r.Route("/admin", func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Route("/instagram", func(r chi.Router) {
			r.Get("/posts", cfg.InstagramHandler.ListPosts)
			r.Post("/posts", cfg.InstagramHandler.CreatePost)
			r.Get("/posts/{id}", cfg.InstagramHandler.GetPost)
			r.Put("/posts/{id}", cfg.InstagramHandler.UpdatePost)
			r.Delete("/posts/{id}", cfg.InstagramHandler.DeletePost)

			r.Post("/quick-add", cfg.InstagramHandler.QuickAdd)
			r.Get("/embed-test", cfg.InstagramHandler.EmbedTest)
			r.Post("/refresh", cfg.InstagramHandler.RefreshPost)
			r.Post("/warm", cfg.InstagramHandler.WarmCache)

			// The config is a singleton: created once, then only read
			// and updated. There is deliberately no delete route.
			r.Get("/config", cfg.InstagramHandler.GetConfig)
			r.Post("/config", cfg.InstagramHandler.CreateConfig)
			r.Put("/config", cfg.InstagramHandler.UpdateConfig)
		})

		r.Put("/content/{section}", cfg.ContentHandler.UpsertSection)
		r.Get("/contact-messages", cfg.ContentHandler.ListContactMessages)
		r.Post("/media/upload", cfg.MediaHandler.Upload)
	})

	return r
}
