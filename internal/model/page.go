package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Page represents a fetched web page.
//
// Design decision: We store the raw bytes rather than a decoded string
// because the analysis step decides how to interpret them, and the hash
// allows detecting unchanged pages across analyses.
type Page struct {
	// URL is the requested URL.
	URL string `json:"url"`

	// FinalURL is the URL after following redirects.
	FinalURL string `json:"final_url,omitempty"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Headers contains all HTTP response headers.
	// Keys are header names (canonicalized), values are slices of header values.
	Headers map[string][]string `json:"headers"`

	// ContentType is the MIME type of the response.
	// Extracted from Content-Type header for convenience.
	ContentType string `json:"content_type"`

	// Raw contains the raw response body bytes.
	// Limited to MaxPageSize bytes.
	Raw []byte `json:"-"`

	// Hash is the SHA-256 hash of the raw content.
	Hash string `json:"hash"`

	// Truncated is true if the body was cut at the size limit.
	Truncated bool `json:"truncated,omitempty"`
}

// MaxPageSize is the maximum size of raw page content to store.
// Larger pages are truncated to this size.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// ComputeHash calculates and sets the SHA-256 hash of the page's raw content.
// This should be called after setting the Raw field.
func (p *Page) ComputeHash() {
	if len(p.Raw) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256(p.Raw)
	p.Hash = hex.EncodeToString(hash[:])
}

// GetHeader returns the first value of the specified header.
// Returns empty string if the header is not present.
func (p *Page) GetHeader(name string) string {
	if values, ok := p.Headers[name]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// IsHTML returns true if the page content type indicates HTML.
// Handles content types with parameters such as "; charset=utf-8".
func (p *Page) IsHTML() bool {
	return IsHTMLContentType(p.ContentType)
}

// Body returns the raw content as a string.
func (p *Page) Body() string {
	return string(p.Raw)
}

// TruncateRaw ensures the raw content doesn't exceed limit bytes.
// A non-positive limit means MaxPageSize.
func (p *Page) TruncateRaw(limit int) {
	if limit <= 0 {
		limit = MaxPageSize
	}
	if len(p.Raw) > limit {
		p.Raw = p.Raw[:limit]
		p.Truncated = true
	}
}

// IsHTMLContentType reports whether ct names an HTML document type.
// An empty content type is accepted because many servers omit it.
func IsHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "" {
		return true
	}
	return strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml")
}
