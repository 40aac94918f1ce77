package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/nao1215/wordrank/internal/database"
	"github.com/nao1215/wordrank/internal/model"
	"github.com/nao1215/wordrank/internal/pipeline"
)

// Envelope status values.
const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// maxJSONBody limits the size of JSON request bodies.
const maxJSONBody = 1 << 20

// envelope is the body of every JSON response.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// pageData is rendered by templates/index.html.
type pageData struct {
	URL       string
	Submitted bool
	Title     string
	Errors    []string
	Entries   []model.RankedEntry
	Total     int
	Distinct  int
	RecordID  int64
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, pageData{})
}

// handleAnalyze runs the job pipeline on the submitted URL. Every failure is
// shown to the user; a storage failure does not hide the ranked words.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data := pageData{Submitted: true}
	if err := r.ParseForm(); err != nil {
		data.Errors = []string{"The form could not be read."}
		s.render(w, http.StatusBadRequest, data)
		return
	}

	data.URL = strings.TrimSpace(r.PostFormValue("url"))
	if data.URL == "" {
		data.Errors = []string{"Please enter a URL."}
		s.render(w, http.StatusOK, data)
		return
	}

	var store pipeline.ResultStore
	if s.store != nil {
		store = s.store
	}
	p := pipeline.DefaultPipeline(s.fetcher, s.analyzer, store,
		[]pipeline.Option{pipeline.WithLogger(s.logger), pipeline.WithContinueOnError(true)},
		pipeline.WithSkipUnchanged(s.skipUnchanged),
	)

	report := model.NewAnalysisReport(data.URL)
	_ = p.Execute(r.Context(), report) // failures are recorded on the report

	data.Title = report.Title
	data.RecordID = report.RecordID
	for _, f := range report.Failures {
		data.Errors = append(data.Errors, failureMessage(f, report.StatusCode))
	}
	if report.Result != nil {
		data.Entries = report.Result.Top(s.top)
		data.Total = report.Result.AllWordCounts.Total()
		data.Distinct = report.Result.SignificantWordCounts.Len()
	}

	s.render(w, http.StatusOK, data)
}

// failureMessage turns a recorded failure into text for the result page.
func failureMessage(f model.Failure, status int) string {
	switch f.Kind {
	case model.FailureInvalidURL:
		return "The URL is not valid. Please check it and try again."
	case model.FailureNetwork:
		return "Unable to get URL. Please make sure it's valid and try again."
	case model.FailureTimeout:
		return "The site took too long to respond."
	case model.FailureHTTPStatus:
		return fmt.Sprintf("The site answered with HTTP status %d.", status)
	case model.FailureContentType:
		return "The page is not an HTML or plain text document."
	case model.FailureStorage:
		return "Unable to add item to database."
	case model.FailureCancelled:
		return "The request was cancelled."
	default:
		return "Unable to analyse the page: " + f.Message
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", slog.String("error", err.Error()))
	}
}

func (s *Server) handleAppVersion(w http.ResponseWriter, r *http.Request) {
	query := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}
	s.writeSuccess(w, http.StatusOK, map[string]any{
		"version": s.version,
		"query":   query,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit, ok := parseLimit(r)
	if !ok {
		s.writeFailed(w, http.StatusBadRequest)
		return
	}

	users, err := s.store.ListUsers(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		s.writeFailed(w, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	s.writeSuccess(w, http.StatusOK, users)
}

// createUserRequest is the body of POST /users.
type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req createUserRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			s.logger.Debug("invalid user payload", slog.String("error", err.Error()))
		}
		s.writeFailed(w, http.StatusBadRequest)
		return
	}

	user := &model.User{Username: req.Username, Email: req.Email}
	id, err := s.store.CreateUser(r.Context(), user)
	switch {
	case err == nil:
		s.writeSuccess(w, http.StatusOK, id)
	case errors.Is(err, model.ErrEmptyUsername), errors.Is(err, model.ErrInvalidEmail):
		s.writeJSON(w, http.StatusBadRequest, envelope{Status: statusFailed, Data: map[string]string{"error": err.Error()}})
	case errors.Is(err, database.ErrConflict):
		s.writeJSON(w, http.StatusConflict, envelope{Status: statusFailed, Data: map[string]string{"error": "username already exists"}})
	default:
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		s.writeFailed(w, http.StatusInternalServerError)
	}
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit, ok := parseLimit(r)
	if !ok {
		s.writeFailed(w, http.StatusBadRequest)
		return
	}

	records, err := s.store.ListResults(r.Context(), strings.TrimSpace(r.URL.Query().Get("url")), limit)
	if err != nil {
		s.logger.Error("failed to list results", slog.String("error", err.Error()))
		s.writeFailed(w, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*database.ResultRecord{}
	}
	s.writeSuccess(w, http.StatusOK, records)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeFailed(w, http.StatusBadRequest)
		return
	}

	record, err := s.store.GetResult(r.Context(), id)
	switch {
	case err == nil:
		s.writeSuccess(w, http.StatusOK, record)
	case errors.Is(err, database.ErrNotFound):
		s.writeFailed(w, http.StatusNotFound)
	default:
		s.logger.Error("failed to get result", slog.Int64("id", id), slog.String("error", err.Error()))
		s.writeFailed(w, http.StatusInternalServerError)
	}
}

// parseLimit reads the optional limit query parameter. Absent means no limit.
func parseLimit(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, false
	}
	return limit, true
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeFailed(w, http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (s *Server) writeSuccess(w http.ResponseWriter, status int, data any) {
	s.writeJSON(w, status, envelope{Status: statusSuccess, Data: data})
}

func (s *Server) writeFailed(w http.ResponseWriter, status int) {
	s.writeJSON(w, status, envelope{Status: statusFailed, Data: struct{}{}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
