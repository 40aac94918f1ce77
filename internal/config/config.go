package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/wordrank/internal/analysis"
	"github.com/nao1215/wordrank/internal/fetch"
	"github.com/nao1215/wordrank/internal/report"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wordrank"

	// DefaultTimeout bounds one fetch attempt. Ordinary web pages answer
	// well within this; slower servers are reported as timeouts.
	DefaultTimeout = fetch.DefaultTimeout

	// DefaultBatchSize is the number of URLs analysed concurrently.
	// Small values keep the load on any single site low.
	DefaultBatchSize = 4

	// DefaultTop is the number of ranked words shown in reports.
	DefaultTop = 20

	// DefaultRetries is the number of extra attempts on temporary failures.
	DefaultRetries = fetch.DefaultRetries

	// DefaultUserAgent identifies wordrank in HTTP requests.
	DefaultUserAgent = fetch.DefaultUserAgent

	// DefaultMaxBodySize limits the response body read per page.
	// 5MB is sufficient for most HTML pages while preventing memory exhaustion.
	DefaultMaxBodySize = fetch.DefaultMaxBodySize

	// DefaultAlphabet is the word alphabet policy name.
	DefaultAlphabet = "ascii"

	// DefaultAddr is the listen address of the HTTP server.
	DefaultAddr = "127.0.0.1:5000"
)

// Config holds all configuration options for wordrank.
// This struct is populated from CLI flags and the optional config file and
// passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Timeout is the timeout of each fetch attempt.
	Timeout time.Duration

	// Retries is the number of extra attempts on temporary fetch failures.
	Retries int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of URLs analysed concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the file is searched for (see FindConfigFile).
	ConfigFilePath string

	// File holds the settings loaded from the config file, if any.
	File *File

	// JSONReport enables JSON report output instead of human-readable format.
	// At most one of JSONReport, MarkdownReport and PDFReport may be set.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	MarkdownReport bool

	// PDFReport enables PDF report output. It needs ReportFile since the
	// output is binary.
	PDFReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Top is the number of ranked words shown in text and Markdown reports.
	// Zero shows every ranked word.
	Top int

	// Targets is the list of URLs to analyse.
	Targets []string

	// DBDir is the directory holding the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/wordrank on Linux).
	DBDir string

	// SaveToDB indicates whether to save results to the database.
	SaveToDB bool

	// SkipUnchanged reuses the newest stored result of a URL when the page
	// content has not changed, instead of saving a duplicate.
	SkipUnchanged bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// Alphabet names the letter policy for words: "ascii" or "unicode".
	Alphabet string

	// StopWordsFile replaces the built-in stop-word list when set.
	StopWordsFile string

	// ExtraStopWords are added to the stop-word list.
	ExtraStopWords []string

	// Addr is the listen address of the HTTP server.
	Addr string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, batch size).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		Retries:     DefaultRetries,
		BatchSize:   DefaultBatchSize,
		Top:         DefaultTop,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Alphabet:    DefaultAlphabet,
		Addr:        DefaultAddr,
	}
}

// XDGDataDir returns the XDG data directory for wordrank.
// On Linux: ~/.local/share/wordrank
// On macOS: ~/Library/Application Support/wordrank
// On Windows: %LOCALAPPDATA%\wordrank
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wordrank.
// On Linux: ~/.config/wordrank
// On macOS: ~/Library/Application Support/wordrank
// On Windows: %APPDATA%\wordrank
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks a configuration for the analyze command.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return c.ValidateOptions()
}

// ValidateOptions checks every option except the target list.
// Commands that take no URLs (serve) use it instead of Validate.
func (c *Config) ValidateOptions() error {
	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Retries < 0 {
		return ErrInvalidRetries
	}

	// BatchSize must be positive; zero would mean no work is done
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	formats := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.PDFReport} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}
	if c.PDFReport && c.ReportFile == "" {
		return ErrPDFNeedsOutput
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.Top < 0 {
		return ErrInvalidTopN
	}

	if _, err := analysis.ParseAlphabet(c.Alphabet); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAlphabet, c.Alphabet)
	}

	return nil
}

// AlphabetPolicy returns the parsed alphabet. An invalid name yields ASCII;
// call ValidateOptions first to reject it.
func (c *Config) AlphabetPolicy() analysis.Alphabet {
	a, err := analysis.ParseAlphabet(c.Alphabet)
	if err != nil {
		return analysis.AlphabetASCII
	}
	return a
}

// StopWordSource returns where the stop-word list is loaded from: the
// configured file or the built-in list, plus any extra words.
func (c *Config) StopWordSource() analysis.StopWordSource {
	src := analysis.EmbeddedStopWords()
	if c.StopWordsFile != "" {
		src = analysis.FileStopWords(c.StopWordsFile)
	}
	if len(c.ExtraStopWords) > 0 {
		src = analysis.WithExtra(src, c.ExtraStopWords...)
	}
	return src
}

// ReportFormat returns the report format selected by JSONReport,
// MarkdownReport and PDFReport.
func (c *Config) ReportFormat() report.Format {
	switch {
	case c.JSONReport:
		return report.FormatJSON
	case c.MarkdownReport:
		return report.FormatMarkdown
	case c.PDFReport:
		return report.FormatPDF
	default:
		return report.FormatText
	}
}

// SensitiveHeaders returns the names of the custom request headers of the
// configuration file, sorted and lowercased. Their values may hold secrets,
// so they are masked in logs.
func (c *Config) SensitiveHeaders() []string {
	if c.File == nil {
		return nil
	}

	seen := make(map[string]struct{})
	add := func(sc SiteConfig) {
		for name := range sc.Headers {
			seen[strings.ToLower(name)] = struct{}{}
		}
	}
	add(c.File.Defaults)
	for _, sc := range c.File.Sites {
		add(sc)
	}

	return slices.Sorted(maps.Keys(seen))
}

// FetchOptions returns the fetch client options this configuration implies,
// including per-site request settings from the config file.
func (c *Config) FetchOptions() []fetch.Option {
	return []fetch.Option{
		fetch.WithTimeout(c.Timeout),
		fetch.WithRetries(c.Retries, fetch.DefaultRetryDelay),
		fetch.WithUserAgent(c.UserAgent),
		fetch.WithMaxBodySize(c.MaxBodySize),
		fetch.WithSettings(c.File.SettingsFunc()),
	}
}

// ApplyFile copies the analysis and server settings of f into c.
// isSet reports whether the named CLI flag was given explicitly; such
// values win over the file. A nil isSet treats every flag as unset.
func (c *Config) ApplyFile(f *File, isSet func(flag string) bool) {
	if f == nil {
		return
	}
	c.File = f
	if isSet == nil {
		isSet = func(string) bool { return false }
	}

	a := f.Analysis
	if a.Alphabet != "" && !isSet("alphabet") {
		c.Alphabet = a.Alphabet
	}
	if a.StopWordsFile != "" && !isSet("stop-words") {
		c.StopWordsFile = a.StopWordsFile
	}
	if len(a.ExtraStopWords) > 0 {
		c.ExtraStopWords = append(append([]string{}, a.ExtraStopWords...), c.ExtraStopWords...)
	}
	if a.Top > 0 && !isSet("top") {
		c.Top = a.Top
	}
	if a.Timeout > 0 && !isSet("timeout") {
		c.Timeout = a.Timeout
	}
	if a.BatchSize > 0 && !isSet("batch") {
		c.BatchSize = a.BatchSize
	}
	if f.Defaults.UserAgent != "" && !isSet("user-agent") {
		c.UserAgent = f.Defaults.UserAgent
	}
	if f.Server.Addr != "" && !isSet("addr") {
		c.Addr = f.Server.Addr
	}
}
