package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// progress shows a spinner with the number of finished URLs while a batch
// runs. A nil *progress is valid and does nothing, which is what
// newProgress returns when w is not a terminal.
type progress struct {
	spinner *spinner.Spinner
	total   int
	done    int
}

// newProgress returns a progress display on w, or nil when w is not a
// terminal.
func newProgress(w io.Writer, total int) *progress {
	if !isTerminal(w) {
		return nil
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	p := &progress{spinner: s, total: total}
	p.spinner.Suffix = p.suffix("")
	return p
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *progress) suffix(last string) string {
	msg := fmt.Sprintf(" analysed %d/%d", p.done, p.total)
	if last != "" {
		msg += " " + truncateURL(last, 60)
	}
	return msg
}

func (p *progress) start() {
	if p == nil {
		return
	}
	p.spinner.Start()
}

// step records one finished URL. It may be called from several goroutines.
func (p *progress) step(url string) {
	if p == nil {
		return
	}
	p.spinner.Lock()
	defer p.spinner.Unlock()
	p.done++
	p.spinner.Suffix = p.suffix(url)
}

func (p *progress) stop() {
	if p == nil {
		return
	}
	p.spinner.Stop()
}

// truncateURL shortens u to at most n runes.
func truncateURL(u string, n int) string {
	r := []rune(u)
	if len(r) <= n {
		return u
	}
	if n <= 3 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-3]) + "..."
}
