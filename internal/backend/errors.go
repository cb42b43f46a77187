package backend

import (
	"errors"
	"fmt"
)

// TransportError reports a failed exchange with the backend: the request
// could not be sent, the response status was not 2xx, or the body could not
// be decoded.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
