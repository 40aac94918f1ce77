package model

import (
	"strings"
	"testing"
)

// TestPageComputeHash tests the ComputeHash method.
func TestPageComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("computes SHA256 hash of raw content", func(t *testing.T) {
		t.Parallel()

		page := &Page{
			Raw: []byte("Hello, World!"),
		}
		page.ComputeHash()

		expected := "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
		if page.Hash != expected {
			t.Errorf("got %q, expected %q", page.Hash, expected)
		}
	})

	t.Run("empty content produces empty hash", func(t *testing.T) {
		t.Parallel()

		page := &Page{Raw: nil}
		page.ComputeHash()

		if page.Hash != "" {
			t.Errorf("expected empty hash, got %q", page.Hash)
		}
	})
}

// TestPageTruncateRaw tests the body size limit.
func TestPageTruncateRaw(t *testing.T) {
	t.Parallel()

	page := &Page{Raw: []byte(strings.Repeat("a", 100))}
	page.TruncateRaw(10)

	if len(page.Raw) != 10 {
		t.Errorf("expected 10 bytes, got %d", len(page.Raw))
	}
	if !page.Truncated {
		t.Error("expected Truncated to be set")
	}

	small := &Page{Raw: []byte("abc")}
	small.TruncateRaw(0)
	if small.Truncated || len(small.Raw) != 3 {
		t.Error("small page should not be truncated")
	}
}

// TestIsHTMLContentType tests content type detection.
func TestIsHTMLContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ct       string
		expected bool
	}{
		{"text/html", true},
		{"text/html; charset=utf-8", true},
		{"TEXT/HTML", true},
		{"application/xhtml+xml", true},
		{"", true},
		{"application/json", false},
		{"image/png", false},
	}

	for _, tt := range tests {
		t.Run(tt.ct, func(t *testing.T) {
			t.Parallel()
			if got := IsHTMLContentType(tt.ct); got != tt.expected {
				t.Errorf("IsHTMLContentType(%q) = %v, expected %v", tt.ct, got, tt.expected)
			}
		})
	}
}

// TestPageGetHeader tests header lookup.
func TestPageGetHeader(t *testing.T) {
	t.Parallel()

	page := &Page{Headers: map[string][]string{"Server": {"nginx", "ignored"}}}

	if page.GetHeader("Server") != "nginx" {
		t.Errorf("expected first header value, got %q", page.GetHeader("Server"))
	}
	if page.GetHeader("Missing") != "" {
		t.Error("expected empty value for missing header")
	}
}
