package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoData is returned when an aggregate view has no rows yet.
	ErrNoData = errors.New("no data")
	// ErrNotFound is returned when a single row lookup matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRecord wraps records that failed boundary validation.
	ErrInvalidRecord = errors.New("invalid record")
)

// StatusError is a non-2xx answer from the data API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
