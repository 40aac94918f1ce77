package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/wordrank/internal/model"
)

// ResultRecord is a stored analysis result.
type ResultRecord struct {
	ID                    int64               `json:"id"`
	URL                   string              `json:"url"`
	Title                 string              `json:"title,omitempty"`
	ContentHash           string              `json:"content_hash,omitempty"`
	AllWordCounts         *model.WordCounts   `json:"all_word_counts"`
	SignificantWordCounts *model.WordCounts   `json:"significant_word_counts"`
	Ranked                []model.RankedEntry `json:"ranked"`
	CreatedAt             time.Time           `json:"created_at"`
}

// NewResultRecord builds a record from an analysis result.
func NewResultRecord(result *model.AnalysisResult) *ResultRecord {
	return &ResultRecord{
		URL:                   result.URL,
		AllWordCounts:         result.AllWordCounts,
		SignificantWordCounts: result.SignificantWordCounts,
		Ranked:                result.Ranked,
	}
}

// Result converts the record back into an analysis result.
func (r *ResultRecord) Result() *model.AnalysisResult {
	result := model.NewAnalysisResult(r.URL)
	if r.AllWordCounts != nil {
		result.AllWordCounts = r.AllWordCounts
	}
	if r.SignificantWordCounts != nil {
		result.SignificantWordCounts = r.SignificantWordCounts
	}
	if r.Ranked != nil {
		result.Ranked = r.Ranked
	}
	return result
}

// SaveResult inserts record and returns its new ID.
// record.ID and record.CreatedAt are updated on success.
func (d *DB) SaveResult(ctx context.Context, record *ResultRecord) (int64, error) {
	if record == nil {
		return 0, storeError("failed to save result", errors.New("nil record"))
	}

	allJSON, err := json.Marshal(record.AllWordCounts)
	if err != nil {
		return 0, storeError("failed to serialize word counts", err)
	}
	significantJSON, err := json.Marshal(record.SignificantWordCounts)
	if err != nil {
		return 0, storeError("failed to serialize word counts", err)
	}
	ranked := record.Ranked
	if ranked == nil {
		ranked = []model.RankedEntry{}
	}
	rankedJSON, err := json.Marshal(ranked)
	if err != nil {
		return 0, storeError("failed to serialize ranking", err)
	}

	query := `
	INSERT INTO results (url, title, content_hash, result_all, result_no_stop_words, ranked)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id, created_at
	`

	var createdAt string
	err = d.db.QueryRowContext(ctx, query,
		record.URL,
		record.Title,
		record.ContentHash,
		string(allJSON),
		string(significantJSON),
		string(rankedJSON),
	).Scan(&record.ID, &createdAt)
	if err != nil {
		return 0, storeError("failed to insert result", err)
	}
	record.CreatedAt = parseTimestamp(createdAt)

	return record.ID, nil
}

// GetResult retrieves a result by ID.
// It returns an error wrapping ErrNotFound if there is no such result.
func (d *DB) GetResult(ctx context.Context, id int64) (*ResultRecord, error) {
	query := `
	SELECT id, url, title, content_hash, result_all, result_no_stop_words, ranked, created_at
	FROM results
	WHERE id = ?
	`

	record, err := scanResult(d.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: result %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, storeError("failed to get result", err)
	}
	return record, nil
}

// ListResults returns stored results, newest first.
// An empty url lists results for every URL. A non-positive limit means
// no limit.
func (d *DB) ListResults(ctx context.Context, url string, limit int) ([]*ResultRecord, error) {
	query := `
	SELECT id, url, title, content_hash, result_all, result_no_stop_words, ranked, created_at
	FROM results
	WHERE 1=1
	`
	args := make([]any, 0, 2)

	if url != "" {
		query += " AND url = ?"
		args = append(args, url)
	}

	query += " ORDER BY id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("failed to list results", err)
	}
	defer rows.Close()

	records := make([]*ResultRecord, 0)
	for rows.Next() {
		record, err := scanResult(rows)
		if err != nil {
			return nil, storeError("failed to scan result", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("failed to list results", err)
	}

	return records, nil
}

// LatestResultByHash returns the newest result for url whose page content
// had the given hash. It returns an error wrapping ErrNotFound if the page
// has not been analysed with that content before.
func (d *DB) LatestResultByHash(ctx context.Context, url, hash string) (*ResultRecord, error) {
	query := `
	SELECT id, url, title, content_hash, result_all, result_no_stop_words, ranked, created_at
	FROM results
	WHERE url = ? AND content_hash = ? AND content_hash != ''
	ORDER BY id DESC
	LIMIT 1
	`

	record, err := scanResult(d.db.QueryRowContext(ctx, query, url, hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: result for %s", ErrNotFound, url)
	}
	if err != nil {
		return nil, storeError("failed to get result", err)
	}
	return record, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanResult reads one results row.
func scanResult(row rowScanner) (*ResultRecord, error) {
	var (
		record          ResultRecord
		allJSON         string
		significantJSON string
		rankedJSON      string
		createdAt       string
	)

	err := row.Scan(
		&record.ID,
		&record.URL,
		&record.Title,
		&record.ContentHash,
		&allJSON,
		&significantJSON,
		&rankedJSON,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = parseTimestamp(createdAt)
	record.AllWordCounts = model.NewWordCounts()
	record.SignificantWordCounts = model.NewWordCounts()

	if err := json.Unmarshal([]byte(allJSON), record.AllWordCounts); err != nil {
		return nil, fmt.Errorf("failed to parse word counts: %w", err)
	}
	if err := json.Unmarshal([]byte(significantJSON), record.SignificantWordCounts); err != nil {
		return nil, fmt.Errorf("failed to parse word counts: %w", err)
	}
	if err := json.Unmarshal([]byte(rankedJSON), &record.Ranked); err != nil {
		return nil, fmt.Errorf("failed to parse ranking: %w", err)
	}
	if record.Ranked == nil {
		record.Ranked = []model.RankedEntry{}
	}

	return &record, nil
}
