package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/ukane-philemon/grades/internal/db"
	customerror "github.com/ukane-philemon/grades/internal/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const serverErrorMessage = "Seems like we messed up somewhere..."

// handleError returns the status and message err should be reported with.
// The status attached to a *customerror.StatusError wins, every other error
// is a bad request. Errors that are not user facing are logged.
func handleError(err error) (int, string) {
	var statusErr *customerror.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status, err.Error()
	}

	if !errors.Is(err, db.ErrorInvalidRequest) && !errors.Is(err, primitive.ErrInvalidHex) {
		log.Printf("SERVER ERROR: %v", err.Error())
	}

	return http.StatusBadRequest, err.Error()
}

// respondError writes err as plain text with the status picked by
// handleError.
func respondError(w http.ResponseWriter, err error) {
	status, msg := handleError(err)
	writeText(w, status, msg)
}

// serverError is the terminal error responder.
func serverError(w http.ResponseWriter) {
	writeText(w, http.StatusInternalServerError, serverErrorMessage)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

// writeJSON encodes v before writing anything so that an encoding failure
// can still be reported by the caller.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(v)
	if err != nil {
		return fmt.Errorf("json.Encode error: %w", err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
	return nil
}
