// Package fetch downloads single web pages for analysis.
//
// Client.Fetch performs one GET request (following redirects), checks the
// status and content type, limits the body size and decodes the body to
// UTF-8 using golang.org/x/net/html/charset. Failures are returned as
// *Error values carrying a model.FailureKind, so callers can tell a
// timeout from a refused connection, a 404 or an image URL:
//
//	page, err := client.Fetch(ctx, "https://example.com")
//	switch {
//	case errors.Is(err, fetch.ErrTimeout):
//	    // retry later
//	case errors.Is(err, fetch.ErrHTTPStatus):
//	    // report the status
//	}
//
// Temporary failures (network errors, timeouts, 429 and 5xx) are retried a
// bounded number of times. There is no crawling: links are never followed.
package fetch
