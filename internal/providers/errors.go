package providers

import (
	"errors"
	"fmt"
)

// Common errors returned by metadata providers.
var (
	// ErrNotFound indicates the registry has no metadata for the identifier.
	ErrNotFound = errors.New("metadata not found")

	// ErrUnsupportedSource indicates no provider is bound for the
	// citekey source.
	ErrUnsupportedSource = errors.New("no metadata provider bound for source")
)

// StatusError reports an unexpected HTTP status from a metadata registry.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err indicates missing metadata rather than a
// transport or registry failure.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == 404
}
