package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
)

const (
	gradesPath     = "/api/grades"
	welcomeMessage = "Welcome to the Grades API."
)

// RouterConfig holds the optional hardening of the router.
type RouterConfig struct {
	// RateLimit is the number of requests a client IP may make per minute.
	// Zero disables rate limiting.
	RateLimit int
	// RequestTimeout cancels the context of requests that run longer. Zero
	// disables the timeout.
	RequestTimeout time.Duration
}

// NewRouter returns the root http.Handler of the server with the grades
// resource mounted at /api/grades.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	chiMux := chi.NewMux()
	chiMux.Use(middleware.RequestID)
	chiMux.Use(middleware.RealIP)
	chiMux.Use(middleware.Logger)
	chiMux.Use(Recoverer)
	if cfg.RateLimit > 0 {
		chiMux.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}
	if cfg.RequestTimeout > 0 {
		chiMux.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	chiMux.Use(JSONBody)

	chiMux.Route(gradesPath, h.routes)
	chiMux.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, welcomeMessage)
	})

	return chiMux
}

func (h *Handler) routes(r chi.Router) {
	r.Use(AuthMiddleware(h.JWTManager))

	r.Method(http.MethodPost, "/", handlerFunc(h.createGrade))

	r.Method(http.MethodGet, "/learner/{id}", handlerFunc(h.learnerGrades))
	r.Method(http.MethodDelete, "/learner/{id}", handlerFunc(h.deleteLearnerGrades))
	r.Get("/student/{id}", h.studentGrades)

	r.Method(http.MethodGet, "/class/{id}", handlerFunc(h.classGrades))
	r.Method(http.MethodPatch, "/class/{id}", handlerFunc(h.updateClassID))
	r.Method(http.MethodDelete, "/class/{id}", handlerFunc(h.deleteClassGrades))

	r.Method(http.MethodGet, "/{id}", handlerFunc(h.grade))
	r.Method(http.MethodPatch, "/{id}/add", handlerFunc(h.addScore))
	r.Method(http.MethodPatch, "/{id}/remove", handlerFunc(h.removeScore))
	r.Method(http.MethodDelete, "/{id}", handlerFunc(h.deleteGrade))
}
