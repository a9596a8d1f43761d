package tmdb

import (
	"errors"
	"fmt"
)

// ErrMissingToken is returned by NewClient when no API credential is
// configured. Fatal at startup, never retried.
var ErrMissingToken = errors.New("tmdb: TMDB_API_TOKEN is not configured")

// errNotFound is the internal marker for a provider 404. It never escapes the
// package: FetchMovieDetails translates it into an absent (nil) result.
var errNotFound = errors.New("tmdb: not found")

// UnavailableError signals that the provider could not serve a request:
// a transport failure (StatusCode 0) or a non-2xx, non-404 HTTP status.
type UnavailableError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("tmdb: %s unavailable: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("tmdb: %s returned HTTP %d", e.Endpoint, e.StatusCode)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is an UnavailableError anywhere in its chain.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
