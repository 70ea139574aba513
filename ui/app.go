package ui

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"linedash/app"
	"linedash/internal/errors"
)

// App is the stateless JSON API. Every request carries its own selection;
// columns it leaves out are fully selected.
type App struct {
	router    *chi.Mux
	dashboard *app.DashboardService
}

// NewApp creates the JSON API over a dashboard service
func NewApp(dashboard *app.DashboardService) *App {
	a := &App{
		router:    chi.NewRouter(),
		dashboard: dashboard,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/catalog", a.handleCatalog)
		r.Post("/filter", a.handleFilter)
		r.Post("/summary/{column}", a.handleSummary)
		r.Post("/dashboard", a.handleDashboard)
		r.Get("/stations/status", a.handleStationStatus)
	})
}

// Handler exposes the router, mainly for tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves the API on addr
func (a *App) Start(addr string) error {
	log.Printf("Starting JSON API on http://%s", addr)
	return http.ListenAndServe(addr, a.router)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.Printf("[API] Request failed: %v", err)
	}
	writeJSON(w, status, map[string]interface{}{
		"error":   errors.GetCode(err),
		"message": err.Error(),
	})
}
