package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github-profile-analyzer/internal/response"
)

// initializeRouter configures all routes for the application
func (a *App) initializeRouter(router *mux.Router) {
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusNotFound, response.Error("Route not found"))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusMethodNotAllowed, response.Error("Method not allowed"))
	})

	router.Use(a.loggingMiddleware)
	router.Use(a.recoveryMiddleware)

	router.HandleFunc("/", a.healthCheck).Methods(http.MethodGet)
	router.HandleFunc("/health", a.healthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", a.healthCheck).Methods(http.MethodGet)
	api.HandleFunc("/rate-limit", a.getRateLimit).Methods(http.MethodGet)

	initAnalyzeRoutes(api.PathPrefix("/analyze").Subrouter(), a)

	api.HandleFunc("/profiles/{username}/analyses", a.listAnalyses).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id:[0-9]+}", a.getAnalysis).Methods(http.MethodGet)

	api.HandleFunc("/jobs", a.listJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{job_id}", a.getJobStatus).Methods(http.MethodGet)
}

func initAnalyzeRoutes(router *mux.Router, a *App) {
	router.HandleFunc("", a.analyze).Methods(http.MethodPost)
	router.HandleFunc("/async", a.analyzeAsync).Methods(http.MethodPost)
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs information about each request
func (a *App) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		a.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

// recoveryMiddleware recovers from panics and returns a 500 error
func (a *App) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				a.log.Error().
					Interface("error", err).
					Str("path", r.URL.Path).
					Msg("Panic recovered in request handler")

				response.JSON(w, http.StatusInternalServerError, response.ServerError("internal", "Internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
