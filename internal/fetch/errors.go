package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/nao1215/wordrank/internal/model"
)

// Fetch failure sentinels. Every error returned by Client.Fetch is an *Error
// that matches exactly one of these with errors.Is.
//
// Design decision: We keep distinct sentinels rather than a single
// "could not fetch" error so that callers can report a timeout differently
// from a refused connection or a 404, and retry only what is transient.
var (
	// ErrInvalidURL is returned when the URL cannot be parsed or is not
	// an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrNetwork is returned when the connection fails or breaks.
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when the request exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrHTTPStatus is returned for non-2xx responses.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrContentType is returned when the response is not a text document.
	ErrContentType = errors.New("unsupported content type")

	// ErrCancelled is returned when the caller cancels the request.
	ErrCancelled = errors.New("request cancelled")
)

// Error describes a failed fetch.
type Error struct {
	// Kind classifies the failure.
	Kind model.FailureKind

	// URL is the URL that was requested.
	URL string

	// StatusCode is set for FailureHTTPStatus.
	StatusCode int

	// ContentType is set for FailureContentType.
	ContentType string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case model.FailureHTTPStatus:
		return fmt.Sprintf("fetch %s: %v: %d", e.URL, ErrHTTPStatus, e.StatusCode)
	case model.FailureContentType:
		return fmt.Sprintf("fetch %s: %v: %q", e.URL, ErrContentType, e.ContentType)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v: %v", e.URL, e.sentinel(), e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.sentinel())
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

// sentinel maps the kind to its sentinel error.
func (e *Error) sentinel() error {
	switch e.Kind {
	case model.FailureInvalidURL:
		return ErrInvalidURL
	case model.FailureNetwork:
		return ErrNetwork
	case model.FailureTimeout:
		return ErrTimeout
	case model.FailureHTTPStatus:
		return ErrHTTPStatus
	case model.FailureContentType:
		return ErrContentType
	case model.FailureCancelled:
		return ErrCancelled
	default:
		return ErrNetwork
	}
}

// Temporary reports whether retrying the same request may succeed.
// Network failures, timeouts, 429 and 5xx responses are temporary.
func (e *Error) Temporary() bool {
	switch e.Kind {
	case model.FailureNetwork, model.FailureTimeout:
		return true
	case model.FailureHTTPStatus:
		return e.StatusCode == 429 || e.StatusCode >= 500
	default:
		return false
	}
}

// KindOf returns the failure kind of err.
// Errors that did not come from this package are FailureUnknown.
func KindOf(err error) model.FailureKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return model.FailureUnknown
}

// classify turns a transport error into an *Error.
// ctx is the caller's context, used to tell cancellation from timeout.
func classify(ctx context.Context, rawURL string, err error) *Error {
	kind := model.FailureNetwork

	var netErr net.Error
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		kind = model.FailureCancelled
	case errors.Is(err, context.DeadlineExceeded):
		kind = model.FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = model.FailureTimeout
	}

	// Strip the *url.Error wrapper; its message repeats the method and URL.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	return &Error{Kind: kind, URL: rawURL, Err: err}
}
