package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/silentequity/lead-intake/internal/http/handlers"
	httpmiddleware "github.com/silentequity/lead-intake/internal/http/middleware"
	"github.com/silentequity/lead-intake/internal/leads"
	"github.com/silentequity/lead-intake/internal/tracks"
	"github.com/silentequity/lead-intake/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	AdminLeads         *handlers.AdminLeadsHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimiter throttles lead submissions per client IP (optional).
	RateLimiter httpmiddleware.Limiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", health)
	r.Get("/api/tracks", tracks.Handler)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Every method reaches the handler so it can answer 405 in its own format.
	if cfg.LeadsHandler != nil {
		save := http.Handler(http.HandlerFunc(cfg.LeadsHandler.SaveLead))
		if cfg.RateLimiter != nil {
			save = httpmiddleware.RateLimit(cfg.RateLimiter, cfg.Logger)(save)
		}
		r.Handle("/api/save-lead", save)
	}

	if cfg.AdminLeads != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret, cfg.Logger))
			admin.Get("/leads", cfg.AdminLeads.ListLeads)
			admin.Post("/leads/export", cfg.AdminLeads.ExportLeads)
		})
	}

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
