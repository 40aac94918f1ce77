package model

import (
	"time"
)

// FailureKind classifies why a job step failed.
//
// Design decision: Failures are recorded by kind instead of being collapsed
// into a single "could not process" message, so that callers can tell a
// network outage from a timeout or a storage problem.
type FailureKind string

// Failure kinds reported by the job pipeline.
const (
	// FailureInvalidURL means the URL could not be parsed or uses an
	// unsupported scheme.
	FailureInvalidURL FailureKind = "invalid_url"

	// FailureNetwork means the connection could not be established or broke.
	FailureNetwork FailureKind = "network"

	// FailureTimeout means the request exceeded its deadline.
	FailureTimeout FailureKind = "timeout"

	// FailureHTTPStatus means the server answered with a non-2xx status.
	FailureHTTPStatus FailureKind = "http_status"

	// FailureContentType means the response was not an HTML document.
	FailureContentType FailureKind = "content_type"

	// FailureStorage means the result could not be persisted.
	FailureStorage FailureKind = "storage"

	// FailureCancelled means the job was cancelled before it finished.
	FailureCancelled FailureKind = "cancelled"

	// FailureUnknown is used when no more specific kind applies.
	FailureUnknown FailureKind = "unknown"
)

// Failure describes one failed pipeline step.
type Failure struct {
	// Step is the name of the pipeline step that failed.
	Step string `json:"step"`

	// Kind classifies the failure.
	Kind FailureKind `json:"kind"`

	// Message is the human-readable error text.
	Message string `json:"message"`
}

// AnalysisReport is the per-URL envelope carried through the job pipeline.
// Each step reads what earlier steps produced and adds its own output.
type AnalysisReport struct {
	// URL is the requested page address.
	URL string `json:"url"`

	// DateAnalyzed is when the job was started.
	DateAnalyzed time.Time `json:"date_analyzed"`

	// Page is the fetched document. It is excluded from JSON due to size.
	Page *Page `json:"-"`

	// Title is the document title, if the page had one.
	Title string `json:"title,omitempty"`

	// StatusCode is the HTTP status of the fetch.
	StatusCode int `json:"status_code,omitempty"`

	// ContentType is the Content-Type of the fetched document.
	ContentType string `json:"content_type,omitempty"`

	// Result is the word-frequency analysis. Nil until the analyze step ran.
	Result *AnalysisResult `json:"result,omitempty"`

	// RecordID is the database ID of the saved result, 0 if not saved.
	RecordID int64 `json:"record_id,omitempty"`

	// Failures lists every failed step in execution order.
	Failures []Failure `json:"failures,omitempty"`

	// PerformedSteps lists the steps that were executed.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut is true if the job was cancelled before finishing.
	TimedOut bool `json:"timed_out"`
}

// NewAnalysisReport creates a new report for the given URL.
func NewAnalysisReport(url string) *AnalysisReport {
	return &AnalysisReport{
		URL:          url,
		DateAnalyzed: time.Now(),
		Failures:     make([]Failure, 0),
	}
}

// AddFailure records a failed step.
func (r *AnalysisReport) AddFailure(step string, kind FailureKind, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	r.Failures = append(r.Failures, Failure{
		Step:    step,
		Kind:    kind,
		Message: msg,
	})
}

// HasFailure reports whether a failure of the given kind was recorded.
func (r *AnalysisReport) HasFailure(kind FailureKind) bool {
	for _, f := range r.Failures {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

// Failed reports whether any step failed.
func (r *AnalysisReport) Failed() bool {
	return len(r.Failures) > 0
}

// Fetched reports whether the page was downloaded.
func (r *AnalysisReport) Fetched() bool {
	return r.Page != nil
}

// Analyzed reports whether an analysis result is available.
func (r *AnalysisReport) Analyzed() bool {
	return r.Result != nil
}

// Saved reports whether the result was persisted.
func (r *AnalysisReport) Saved() bool {
	return r.RecordID > 0
}
