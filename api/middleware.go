package api

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/middleware"
	customerror "github.com/ukane-philemon/grades/internal/errors"
	"github.com/ukane-philemon/grades/internal/jwt"
)

const (
	jwtHeader    = "Grades-Authentication-Token"
	writerCtxKey = ctxKey("writerID")
)

// AuthMiddleware ensures that requests which modify grades carry a valid auth
// token. Reads are never authenticated and every request is let through if
// jwtManager is nil.
func AuthMiddleware(jwtManager *jwt.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			if jwtManager == nil || isReadOnly(req.Method) {
				next.ServeHTTP(res, req)
				return
			}

			writerID, err := jwtManager.ValidateToken(req.Header.Get(jwtHeader))
			if err != nil {
				http.Error(res, (&customerror.ErrorUnauthorized{}).Error(), http.StatusForbidden)
				return
			}

			// Set the writerCtxKey for use by subsequent handlers.
			req = req.WithContext(context.WithValue(req.Context(), writerCtxKey, writerID))
			next.ServeHTTP(res, req)
		})
	}
}

func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Recoverer recovers from panics in subsequent handlers and responds with the
// terminal server error.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				log.Printf("SERVER ERROR: [%s] panic: %v\n%s", middleware.GetReqID(req.Context()), rvr, debug.Stack())
				serverError(res)
			}
		}()

		next.ServeHTTP(res, req)
	})
}

func logServerError(req *http.Request, err error) {
	reqID := middleware.GetReqID(req.Context())
	if writerID, ok := req.Context().Value(writerCtxKey).(string); ok {
		log.Printf("SERVER ERROR: [%s] %s %s by %q: %v", reqID, req.Method, req.URL.Path, writerID, err)
		return
	}
	log.Printf("SERVER ERROR: [%s] %s %s: %v", reqID, req.Method, req.URL.Path, err)
}
