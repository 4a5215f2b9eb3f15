package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cargram/internal/handler"
	"cargram/internal/httputil"
	authmw "cargram/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	VehicleHandler  *handler.VehicleHandler
	PostHandler     *handler.PostHandler
	FeedHandler     *handler.FeedHandler
	SettingsHandler *handler.SettingsHandler
	FuelHandler     *handler.FuelHandler
	JWTSecret       string
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
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Public read surface with optional authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

		r.Get("/feed", cfg.FeedHandler.GetFeed)
		r.Get("/feed/stream", cfg.FeedHandler.StreamFeed)
		r.Get("/posts/{id}", cfg.PostHandler.GetByID)
		r.Get("/users/{id}", cfg.UserHandler.GetProfile)
		r.Get("/users/{id}/posts", cfg.FeedHandler.GetUserPosts)
		r.Get("/users/{id}/posts/stream", cfg.FeedHandler.StreamUserPosts)
		r.Get("/images/{name}", cfg.PostHandler.GetImage)
		r.Get("/fuel-prices", cfg.FuelHandler.GetPrices)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user endpoints
		r.Get("/me", cfg.UserHandler.Me)
		r.Put("/me/username", cfg.UserHandler.UpdateUsername)
		r.Get("/me/avatar", cfg.UserHandler.GetAvatar)
		r.Post("/me/avatar", cfg.UserHandler.UploadAvatar)
		r.Get("/me/favorites", cfg.FeedHandler.GetFavorites)
		r.Get("/me/favorites/stream", cfg.FeedHandler.StreamFavorites)

		// Auth actions that require authentication
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Vehicle endpoints
		r.Post("/vehicles/decode", cfg.VehicleHandler.Decode)
		r.Put("/vehicles", cfg.VehicleHandler.Save)
		r.Get("/vehicles/me", cfg.VehicleHandler.GetMine)

		// Post endpoints
		r.Post("/posts", cfg.PostHandler.Create)
		r.Post("/posts/{id}/like", cfg.PostHandler.Like)
		r.Delete("/posts/{id}/like", cfg.PostHandler.Unlike)
		r.Post("/posts/{id}/share", cfg.PostHandler.Share)
		r.Post("/posts/{id}/favorite", cfg.PostHandler.Favorite)
		r.Delete("/posts/{id}/favorite", cfg.PostHandler.Unfavorite)
		r.Get("/posts/{id}/favorite", cfg.PostHandler.FavoriteStatus)

		// Settings endpoints
		r.Get("/settings/theme", cfg.SettingsHandler.GetTheme)
		r.Put("/settings/theme", cfg.SettingsHandler.SetTheme)
	})

	return r
}
