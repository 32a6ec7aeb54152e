package wb

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
)

// APIError describes a failed upstream call.
//
// Status 0 means the request never produced an HTTP response (DNS, TLS,
// timeout); those are always transient. A 2xx status with a non-nil
// APIError means the body was malformed, which is persistent: retrying a
// parser bug every tick only produces noise.
type APIError struct {
	Status int
	Path   string
	Body   string
	cause  error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("wb: %s: %v", e.Path, e.cause)
	}
	if e.Body != "" {
		return fmt.Sprintf("wb: %s: http %d: %s", e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("wb: %s: http %d", e.Path, e.Status)
}

func (e *APIError) Unwrap() error { return e.cause }

// Transient reports whether the failure is expected to self-resolve.
func (e *APIError) Transient() bool {
	if e.Status == 0 {
		return true
	}
	switch e.Status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return e.Status >= 500
}

// IsTransient classifies any error from this package. Unknown errors are
// treated as persistent so they surface once instead of hiding forever.
func IsTransient(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Transient()
	}
	return false
}

// ErrorSignature derives a stable short signature for error dedup keys.
// Two errors with the same status and path share a signature; the body is
// deliberately excluded because it often carries timestamps or request ids.
func ErrorSignature(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		h := fnv.New32a()
		fmt.Fprintf(h, "%d|%s", ae.Status, ae.Path)
		return fmt.Sprintf("http_%d_%08x", ae.Status, h.Sum32())
	}
	h := fnv.New32a()
	h.Write([]byte(err.Error()))
	return fmt.Sprintf("err_%08x", h.Sum32())
}
