package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/wordrank/internal/model"
)

// newTestClient returns a Client with fast retries.
func newTestClient(opts ...Option) *Client {
	base := []Option{WithRetries(0, 0), WithTimeout(5 * time.Second)}
	return NewClient(append(base, opts...)...)
}

// TestFetch tests a successful fetch.
func TestFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("unexpected User-Agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<p>The cat sat on the mat.</p>"))
	}))
	defer server.Close()

	page, err := newTestClient().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", page.StatusCode)
	}
	if page.Body() != "<p>The cat sat on the mat.</p>" {
		t.Errorf("unexpected body %q", page.Body())
	}
	if page.Hash == "" {
		t.Error("expected hash to be computed")
	}
	if !page.IsHTML() {
		t.Error("expected HTML page")
	}
}

// TestFetchFollowsRedirects tests that FinalURL reflects redirects.
func TestFetchFollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("moved"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	page, err := newTestClient().Fetch(context.Background(), server.URL+"/old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(page.FinalURL, "/new") {
		t.Errorf("expected final URL to end with /new, got %q", page.FinalURL)
	}
}

// TestFetchErrorKinds tests that each failure is classified.
func TestFetchErrorKinds(t *testing.T) {
	t.Parallel()

	t.Run("invalid URL", func(t *testing.T) {
		t.Parallel()

		for _, u := range []string{"", "ftp://example.com", "http://", "://bad"} {
			_, err := newTestClient().Fetch(context.Background(), u)
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("Fetch(%q): expected ErrInvalidURL, got %v", u, err)
			}
			if KindOf(err) != model.FailureInvalidURL {
				t.Errorf("Fetch(%q): unexpected kind %q", u, KindOf(err))
			}
		}
	})

	t.Run("HTTP status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := newTestClient().Fetch(context.Background(), server.URL)
		if !errors.Is(err, ErrHTTPStatus) {
			t.Fatalf("expected ErrHTTPStatus, got %v", err)
		}

		var fe *Error
		if !errors.As(err, &fe) || fe.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404 in error, got %v", err)
		}
		if fe.Temporary() {
			t.Error("404 should not be temporary")
		}
	})

	t.Run("content type", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		}))
		defer server.Close()

		_, err := newTestClient().Fetch(context.Background(), server.URL)
		if !errors.Is(err, ErrContentType) {
			t.Errorf("expected ErrContentType, got %v", err)
		}
	})

	t.Run("network", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		addr := server.URL
		server.Close()

		_, err := newTestClient().Fetch(context.Background(), addr)
		if !errors.Is(err, ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		client := newTestClient(WithTimeout(50 * time.Millisecond))
		_, err := client.Fetch(context.Background(), server.URL)
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		_, err := newTestClient().Fetch(ctx, server.URL)
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
	})
}

// TestFetchRetries tests that temporary failures are retried.
func TestFetchRetries(t *testing.T) {
	t.Parallel()

	t.Run("retries server errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		client := newTestClient(WithRetries(2, time.Millisecond))
		page, err := client.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Body() != "ok" {
			t.Errorf("unexpected body %q", page.Body())
		}
		if calls.Load() != 3 {
			t.Errorf("expected 3 calls, got %d", calls.Load())
		}
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := newTestClient(WithRetries(3, time.Millisecond))
		if _, err := client.Fetch(context.Background(), server.URL); !errors.Is(err, ErrHTTPStatus) {
			t.Fatalf("expected ErrHTTPStatus, got %v", err)
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
	})
}

// TestFetchMaxBodySize tests body truncation.
func TestFetchMaxBodySize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer server.Close()

	page, err := newTestClient(WithMaxBodySize(10)).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Raw) != 10 {
		t.Errorf("expected 10 bytes, got %d", len(page.Raw))
	}
	if !page.Truncated {
		t.Error("expected page to be marked truncated")
	}
}

// TestFetchDecodesCharset tests conversion to UTF-8.
func TestFetchDecodesCharset(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "café" in Latin-1.
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
	}))
	defer server.Close()

	page, err := newTestClient().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Body() != "café" {
		t.Errorf("expected UTF-8 decoded body, got %q", page.Body())
	}
}

// TestFetchSiteSettings tests per-host headers.
func TestFetchSiteSettings(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "session=abc" {
			t.Errorf("unexpected Cookie %q", r.Header.Get("Cookie"))
		}
		if r.Header.Get("X-Custom") != "yes" {
			t.Errorf("unexpected X-Custom %q", r.Header.Get("X-Custom"))
		}
		if r.Header.Get("User-Agent") != "custom-agent" {
			t.Errorf("unexpected User-Agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html")
	}))
	defer server.Close()

	settings := func(host string) RequestSettings {
		if host != "127.0.0.1" {
			return RequestSettings{}
		}
		return RequestSettings{
			UserAgent: "custom-agent",
			Cookie:    "session=abc",
			Headers:   map[string]string{"X-Custom": "yes"},
		}
	}

	if _, err := newTestClient(WithSettings(settings)).Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestNormalizeURL tests URL validation.
func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "http://example.com", expected: "http://example.com"},
		{input: "  https://Example.COM/Path#frag ", expected: "https://example.com/Path"},
		{input: "example.com/page", expected: "https://example.com/page"},
		{input: "HTTP://example.com", expected: "http://example.com"},
		{input: "", wantErr: true},
		{input: "mailto://someone", wantErr: true},
		{input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("NormalizeURL(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestIsTextContentType tests content type acceptance.
func TestIsTextContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ct       string
		expected bool
	}{
		{ct: "", expected: true},
		{ct: "text/html", expected: true},
		{ct: "text/html; charset=utf-8", expected: true},
		{ct: "application/xhtml+xml", expected: true},
		{ct: "text/plain; charset=utf-8", expected: true},
		{ct: "application/json", expected: false},
		{ct: "image/png", expected: false},
		{ct: "application/pdf", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.ct, func(t *testing.T) {
			t.Parallel()
			if got := IsTextContentType(tt.ct); got != tt.expected {
				t.Errorf("IsTextContentType(%q) = %v, expected %v", tt.ct, got, tt.expected)
			}
		})
	}
}

// TestErrorMessages tests error formatting.
func TestErrorMessages(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: model.FailureHTTPStatus, URL: "http://x", StatusCode: 500}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status in message, got %q", err.Error())
	}
	if !err.Temporary() {
		t.Error("500 should be temporary")
	}

	if KindOf(errors.New("other")) != model.FailureUnknown {
		t.Error("foreign errors should be unknown")
	}
}
