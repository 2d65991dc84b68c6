package http

import (
	"log/slog"
	"net/http"

	"eventplatform/internal/delivery/http/controllers"
	"eventplatform/internal/delivery/http/helpers"
	"eventplatform/internal/delivery/http/middleware"
	"eventplatform/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterDeps carries what NewRouter needs to mount the API.
type RouterDeps struct {
	Logger         *slog.Logger
	Events         *controllers.EventController
	Users          *controllers.UserController
	Verifier       domain.TokenVerifier
	AuthLimiter    *middleware.IPRateLimiter
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes under /api,
// wrapped in CORS and access logging.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(d.Verifier, d.Logger)
	optionalAuth := middleware.OptionalAuth(d.Verifier)
	limit := func(h http.HandlerFunc) http.HandlerFunc { return h }
	if d.AuthLimiter != nil {
		limit = d.AuthLimiter.Wrap
	}

	// Events
	mux.HandleFunc("GET /api/events", optionalAuth(d.Events.ListEvents))
	mux.HandleFunc("GET /api/events/{id}", d.Events.GetEvent)
	mux.HandleFunc("POST /api/events", auth(d.Events.CreateEvent))
	mux.HandleFunc("PUT /api/events/{id}", auth(d.Events.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", auth(d.Events.DeleteEvent))
	mux.HandleFunc("POST /api/events/{id}/save", auth(d.Events.ToggleSave))

	// Users
	mux.HandleFunc("POST /api/users/register", limit(d.Users.Register))
	mux.HandleFunc("POST /api/users/login", limit(d.Users.Login))
	mux.HandleFunc("GET /api/users/profile", auth(d.Users.Profile))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(d.Logger, middleware.CORS(d.AllowedOrigins, mux))
}
