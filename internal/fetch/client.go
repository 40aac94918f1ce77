package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/wordrank/internal/model"
)

// Default client settings.
const (
	// DefaultUserAgent identifies wordrank in server logs.
	DefaultUserAgent = "wordrank/1.0 (+https://github.com/nao1215/wordrank)"

	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize is the largest body read; the rest is discarded.
	DefaultMaxBodySize = model.MaxPageSize

	// DefaultRetries is the number of extra attempts for temporary failures.
	DefaultRetries = 2

	// DefaultRetryDelay is the wait before the first retry. Later retries
	// wait proportionally longer.
	DefaultRetryDelay = 500 * time.Millisecond

	// maxRedirects matches the limit of the net/http default client.
	maxRedirects = 10
)

// RequestSettings are extra request parameters for one host.
type RequestSettings struct {
	// UserAgent overrides the client's User-Agent when non-empty.
	UserAgent string

	// Cookie is sent verbatim as the Cookie header when non-empty.
	Cookie string

	// Headers are added to the request.
	Headers map[string]string
}

// SettingsFunc returns the request settings for host.
type SettingsFunc func(host string) RequestSettings

// Client downloads single web pages for analysis.
//
// Design decision: We keep an *http.Client inside the struct rather than
// creating one per call so that connections are pooled across a batch and
// tests can swap the transport.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
	retries     int
	retryDelay  time.Duration
	settings    SettingsFunc
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-attempt timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxBodySize sets the largest body that is read.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithRetries sets how many times a temporary failure is retried and the
// delay before the first retry.
func WithRetries(n int, delay time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
		if delay >= 0 {
			c.retryDelay = delay
		}
	}
}

// WithSettings sets the per-host request settings lookup.
func WithSettings(fn SettingsFunc) Option {
	return func(c *Client) {
		c.settings = fn
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
		retries:     DefaultRetries,
		retryDelay:  DefaultRetryDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch downloads rawURL and returns the page with its body decoded to UTF-8.
//
// A URL without a scheme is treated as https. Only 2xx responses whose
// content type is HTML, XHTML or plain text are accepted; every failure is
// an *Error. Temporary failures are retried with a linear backoff until the
// retry budget or ctx runs out.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*model.Page, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, &Error{Kind: model.FailureInvalidURL, URL: rawURL, Err: err}
	}

	var lastErr *Error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.retryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return nil, classify(ctx, target, ctx.Err())
			case <-time.After(wait):
			}
		}

		page, fetchErr := c.fetchOnce(ctx, target)
		if fetchErr == nil {
			return page, nil
		}
		lastErr = fetchErr
		if !fetchErr.Temporary() || ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single attempt.
func (c *Client) fetchOnce(ctx context.Context, target string) (*model.Page, *Error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Kind: model.FailureInvalidURL, URL: target, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(ctx, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &Error{Kind: model.FailureHTTPStatus, URL: target, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !IsTextContentType(contentType) {
		return nil, &Error{Kind: model.FailureContentType, URL: target, ContentType: contentType}
	}

	// Read one byte past the limit to detect truncation.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, classify(ctx, target, err)
	}

	page := &model.Page{
		URL:         target,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header.Clone(),
		ContentType: contentType,
		Raw:         raw,
	}
	page.TruncateRaw(int(c.maxBodySize))
	page.Raw = toUTF8(page.Raw, contentType)
	page.ComputeHash()

	return page, nil
}

// setHeaders applies the default and per-host headers to req.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	if c.settings == nil {
		return
	}
	s := c.settings(req.URL.Hostname())
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	if s.Cookie != "" {
		req.Header.Set("Cookie", s.Cookie)
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}
}

// NormalizeURL validates rawURL and returns it in canonical form.
// A missing scheme defaults to https; schemes other than http and https
// are rejected.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errors.New("empty URL")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return "", errors.New("missing host")
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	return u.String(), nil
}

// IsTextContentType reports whether ct is a document type that can be
// analysed: HTML, XHTML or plain text. An empty type is accepted because
// many servers omit it.
func IsTextContentType(ct string) bool {
	if model.IsHTMLContentType(ct) {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "text/plain"
}

// toUTF8 converts raw from the charset declared in contentType (or sniffed
// from a <meta> tag) to UTF-8. Unknown encodings are returned unchanged.
func toUTF8(raw []byte, contentType string) []byte {
	r, err := charset.NewReader(strings.NewReader(string(raw)), contentType)
	if err != nil {
		return raw
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return raw
	}
	return decoded
}
