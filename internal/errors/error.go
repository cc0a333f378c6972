package errors

import "net/http"

// StatusError is an error that carries the HTTP status it should be reported
// with.
type StatusError struct {
	Status  int
	Message string
}

// NotFound returns a *StatusError with http.StatusNotFound.
func NotFound() *StatusError {
	return &StatusError{Status: http.StatusNotFound, Message: "Not Found"}
}

func (se *StatusError) Error() string {
	return se.Message
}

// ErrorUnauthorized is the error for unauthorized requests.
type ErrorUnauthorized struct{}

func (eu *ErrorUnauthorized) Error() string {
	return "not authorized"
}
