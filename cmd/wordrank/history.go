package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordrank/internal/config"
	"github.com/nao1215/wordrank/internal/database"
	"github.com/nao1215/wordrank/internal/fetch"
	"github.com/nao1215/wordrank/internal/model"
	"github.com/nao1215/wordrank/internal/report"
)

// defaultHistoryLimit is the number of records listed unless --limit is given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command lists analysis results stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "List stored analysis results",
		Long: `History lists the analysis results saved by 'wordrank analyze' and
'wordrank serve', newest first. Give a URL to see only its results, or
--id to show one stored result as a full report.

Examples:
  # List the latest results
  wordrank history

  # List results of one page
  wordrank history https://go.dev

  # Show result 5 with all ranked words
  wordrank history --id 5 --top 0

  # Output the list in JSON format
  wordrank history --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("id", "i", 0,
		"Show the stored result with this ID (use the list to see available IDs)")
	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of results listed (0 = all)")
	cmd.Flags().IntP("top", "n", config.DefaultTop,
		"Number of ranked words shown with --id (0 = all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown report (with --id)")
	addDBDirFlag(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}
	if limit < 0 {
		return errors.New("limit must not be negative")
	}
	if top < 0 {
		return config.ErrInvalidTopN
	}

	url := ""
	if len(args) > 0 {
		if url, err = fetch.NormalizeURL(args[0]); err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}
	}

	cfg := config.NewConfig()
	if err := applyDBDirFlag(cmd, cfg); err != nil {
		return err
	}

	db, err := openDB(cfg.DBDir)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if id > 0 {
		format := report.FormatText
		switch {
		case jsonOutput:
			format = report.FormatJSON
		case markdownOutput:
			format = report.FormatMarkdown
		}
		return showStoredResult(ctx, db, out, id, format, top)
	}

	return listHistory(ctx, db, out, url, limit, jsonOutput)
}

// historyEntry is one line of the history list.
type historyEntry struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Words    int    `json:"words"`
	Distinct int    `json:"distinct"`
	TopWord  string `json:"top_word,omitempty"`
}

// newHistoryEntry summarises a stored record.
func newHistoryEntry(rec *database.ResultRecord) historyEntry {
	result := rec.Result()
	entry := historyEntry{
		ID:       rec.ID,
		Date:     rec.CreatedAt.Format("2006-01-02 15:04:05"),
		URL:      rec.URL,
		Title:    rec.Title,
		Words:    result.AllWordCounts.Total(),
		Distinct: result.SignificantWordCounts.Len(),
	}
	if len(result.Ranked) > 0 {
		entry.TopWord = result.Ranked[0].Word
	}
	return entry
}

// listHistory lists stored results, newest first.
func listHistory(ctx context.Context, db *database.DB, out io.Writer, url string, limit int, jsonOutput bool) error {
	records, err := db.ListResults(ctx, url, limit)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, newHistoryEntry(rec))
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		if url != "" {
			fmt.Fprintf(out, "No stored results found for %s\n", url)
		} else {
			fmt.Fprintln(out, "No stored results found.")
		}
		fmt.Fprintln(out, "\nUse 'wordrank analyze <url>' to analyse a page.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Date,
			strconv.Itoa(e.Words),
			e.TopWord,
			e.URL,
		})
	}

	fmt.Fprintf(out, "Stored results (%d):\n\n", len(entries))
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Date", "Words", "Top Word", "URL"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	))
	fmt.Fprintln(out, "\nUse 'wordrank history --id <id>' to show a stored result.")

	return nil
}

// showStoredResult writes one stored result as a report.
func showStoredResult(ctx context.Context, db *database.DB, out io.Writer, id int64, format report.Format, top int) error {
	rec, err := db.GetResult(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("no stored result with ID %d", id)
		}
		return fmt.Errorf("failed to get result: %w", err)
	}

	r := model.NewAnalysisReport(rec.URL)
	r.DateAnalyzed = rec.CreatedAt
	r.Title = rec.Title
	r.Result = rec.Result()
	r.RecordID = rec.ID

	writer, err := report.NewWriter(out, format, top, getVersion())
	if err != nil {
		return err
	}
	_, err = writer.Write(r)
	return err
}
