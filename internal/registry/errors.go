// File path: internal/registry/errors.go
package registry

import (
	"errors"
	"fmt"
	"net"
)

// FetchError describes an HTTP-level failure against the registry API.
// Transient errors (rate limiting, server faults, network timeouts) are
// eligible for retry; everything else aborts the extraction.
type FetchError struct {
	URL       string
	Status    int
	Transient bool
	Message   string
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s: status %d: %s", e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

// ParseError reports a response body that could not be decoded as the
// expected JSON shape.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying: an explicit transient
// FetchError or a network timeout.
func IsTransient(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Transient
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

func transientStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
