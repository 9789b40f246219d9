package wrap

import (
	"fmt"
	"strings"

	"github.com/gubarz/parkdown/internal/specifier"
)

// DefaultSpace joins the words of a dropdown summary
const DefaultSpace = "-"

// Definitions lists every operation accepted by a wrap= value
var Definitions = []string{
	"code(lang?: string, meta?: string)",
	"quote()",
	"dropdown(summary: string, open?: boolean, space?: string)",
}

var parser = specifier.MustParser(Definitions...)

// Details describes the content being wrapped
type Details struct {
	Extension string // Extension of the included file, default code language
	Inline    bool   // Target sits on a line with other content
}

// Wrapper is one parsed wrap invocation
type Wrapper interface {
	Wrap(content string, details Details) string
}

// Code fences content
type Code struct {
	Lang *string
	Meta string
}

// Quote renders content as a block quote
type Quote struct{}

// Dropdown renders content inside a details element
type Dropdown struct {
	Summary string
	Open    bool
	Space   string
}

// Wrap fences content, defaulting the language to the file extension
func (w Code) Wrap(content string, details Details) string {
	lang := details.Extension
	if w.Lang != nil {
		lang = *w.Lang
	}
	meta := ""
	if w.Meta != "" {
		meta = " " + w.Meta
	}
	return fmt.Sprintf("```%s%s\n%s\n```", lang, meta, content)
}

// Wrap uses a single "> " line when inline content has no paragraph break
func (Quote) Wrap(content string, details Details) string {
	if details.Inline && !strings.Contains(content, "\n\n") {
		return "> " + content
	}
	return "<blockquote>\n\n" + content + "\n\n</blockquote>\n"
}

// Wrap renders a collapsible section
func (w Dropdown) Wrap(content string, _ Details) string {
	space := w.Space
	if space == "" {
		space = DefaultSpace
	}
	head := "<details>"
	if w.Open {
		head = "<details open>"
	}
	summary := "<summary>" + strings.ReplaceAll(w.Summary, space, " ") + "</summary>"
	return strings.Join([]string{"", head, summary, "", content, "</details>", ""}, "\n")
}

// Parse converts one invocation into its wrapper
func Parse(query string) (Wrapper, error) {
	result, err := parser.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("wrap %q: %w", query, err)
	}

	switch result.Name {
	case "code":
		var w Code
		if lang, ok := result.Text("lang"); ok {
			w.Lang = &lang
		}
		w.Meta, _ = result.Text("meta")
		return w, nil
	case "quote":
		return Quote{}, nil
	case "dropdown":
		var w Dropdown
		w.Summary, _ = result.Text("summary")
		w.Open, _ = result.Bool("open")
		w.Space, _ = result.Text("space")
		return w, nil
	}
	return nil, fmt.Errorf("wrap %q: %w", query, specifier.ErrUnknownMethod)
}

// Apply runs every invocation of a wrap= value in order
func Apply(content, value string, details Details) (string, error) {
	for _, query := range specifier.SplitOnTopLevelComma(value) {
		w, err := Parse(query)
		if err != nil {
			return "", err
		}
		content = w.Wrap(content, details)
	}
	return content, nil
}
