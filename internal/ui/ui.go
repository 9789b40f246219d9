package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger writing to w at the named level
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "parkdown",
	})
	logger.SetStyles(styles.LogStyles())
	return logger, nil
}

// Status describes what happened to a processed file
type Status string

const (
	Written   Status = "written"
	Unchanged Status = "unchanged"
	Printed   Status = "printed"
	Failed    Status = "failed"
)

// FileResult is the outcome of processing one file
type FileResult struct {
	Path      string
	Populated int // Top-level inclusions present after processing
	Bytes     int
	Status    Status
	Err       error
}

// RenderSummary renders one line per file followed by a total
func RenderSummary(results []FileResult) string {
	if len(results) == 0 {
		return ""
	}

	width := 0
	for _, r := range results {
		width = max(width, len(r.Path))
	}

	var b strings.Builder
	b.WriteString(styles.Header.Render("parkdown"))
	b.WriteString("\n")

	total := 0
	for _, r := range results {
		path := styles.Path.Render(r.Path + strings.Repeat(" ", width-len(r.Path)))
		if r.Err != nil {
			fmt.Fprintf(&b, "  %s  %s\n", path, styles.Error.Render(r.Err.Error()))
			continue
		}
		total += r.Populated
		fmt.Fprintf(&b, "  %s  %s %s\n",
			path,
			styles.Count.Render(plural(r.Populated, "inclusion")),
			styles.Dim.Render(fmt.Sprintf("(%d bytes, %s)", r.Bytes, r.Status)),
		)
	}

	fmt.Fprintf(&b, "%s\n", styles.Dim.Render(fmt.Sprintf("%s in %s", plural(total, "inclusion"), plural(len(results), "file"))))
	return b.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
