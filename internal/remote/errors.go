package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a non-success HTTP status from the remote API.
// The status code is preserved so callers can react to specific outcomes;
// notably 409 means the remote rejected a person name as a duplicate.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote API %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// IsConflict reports whether err is a 409 response (duplicate name).
func IsConflict(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusConflict
}

// IsUnauthorized reports whether err is a 401 response (expired or missing
// token; the caller should re-login).
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}
