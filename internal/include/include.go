package include

import (
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/gubarz/parkdown/internal/comments"
	"github.com/gubarz/parkdown/internal/fetch"
	"github.com/gubarz/parkdown/internal/markdown"
	"github.com/gubarz/parkdown/internal/recipe"
	"github.com/gubarz/parkdown/internal/region"
	"github.com/gubarz/parkdown/internal/wrap"
)

const (
	BeginMarker = "<!-- p↓ BEGIN -->"
	EndMarker   = "<!-- p↓ END -->"
)

// DefaultCodeExtensions are fenced as code when included
var DefaultCodeExtensions = []string{"js", "jsx", "ts", "tsx", "svelte", "go"}

// LengthMarker records the size of populated content
func LengthMarker(content string) string {
	lines, chars := measure(content)
	return fmt.Sprintf("<!-- p↓ length lines: %d chars: %d -->", lines, chars)
}

func measure(content string) (lines, chars int) {
	return strings.Count(content, "\n") + 1, utf8.RuneCountInString(content)
}

// Replacement renders a populated target
func Replacement(link, content string, inline bool) string {
	parts := []string{link, BeginMarker, LengthMarker(content), content, EndMarker}
	if inline {
		return strings.Join(parts, " ")
	}
	return strings.Join(parts, "\n")
}

// ============================================================================
// Resolver
// ============================================================================

// Resolver populates and depopulates inclusion targets
type Resolver struct {
	logger         *log.Logger
	codeExtensions []string
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger used for traces and warnings
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithCodeExtensions sets the file extensions fenced as code
func WithCodeExtensions(extensions ...string) Option {
	return func(r *Resolver) {
		r.codeExtensions = extensions
	}
}

// NewResolver creates a resolver
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		logger:         log.Default(),
		codeExtensions: DefaultCodeExtensions,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// frame is the state of one document in a recursive resolution
type frame struct {
	fetch    fetch.Fetcher
	register *recipe.Register
	dir      string   // Directory of the document, relative to the root one
	chain    []string // Documents being resolved above this one
}

// Depopulate restores every populated target to its bare link
func (r *Resolver) Depopulate(text string) (string, error) {
	doc := markdown.Parse(text)
	targets, err := Targets(doc)
	if err != nil {
		return "", err
	}

	result := text
	for i := len(targets) - 1; i >= 0; i-- {
		t := targets[i]
		if !t.Populated() {
			continue
		}
		r.checkLength(doc, t)
		result = result[:t.Region.Start] + text[t.Link.Start:t.Link.End] + result[t.Region.End:]
	}
	return result, nil
}

// checkLength warns when populated content no longer matches the size
// recorded when it was written
func (r *Resolver) checkLength(doc *markdown.Document, t Target) {
	recorded := t.Block.Length
	if recorded == nil {
		return
	}
	start, end := recorded.Range.End+1, t.Block.Close.Range.Start-1
	if start > end {
		return
	}
	lines, chars := measure(doc.Source[start:end])
	if lines != recorded.Lines || chars != recorded.Chars {
		r.logger.Warn("populated content was edited and will be replaced",
			"link", t.URL,
			"at", doc.Position(t.Link.Start),
			"lines", lines,
			"chars", chars,
		)
	}
}

// Populate resolves every target of text. Headings are shifted by depth,
// fetch reads included files relative to text and register holds the
// recipes visible to the document.
func (r *Resolver) Populate(text string, depth int, f fetch.Fetcher, register *recipe.Register) (string, error) {
	if register == nil {
		register = recipe.New()
	}
	return r.populate(text, depth, frame{fetch: f, register: register})
}

func (r *Resolver) populate(text string, depth int, fr frame) (string, error) {
	text, err := r.Depopulate(text)
	if err != nil {
		return "", err
	}
	text = markdown.ApplyHeadingDepth(text, depth)

	doc := markdown.Parse(text)
	targets, err := Targets(doc)
	if err != nil {
		return "", err
	}

	for _, t := range targets {
		if _, query, ok := strings.Cut(t.URL, "?"); ok {
			if err := fr.register.TryStore(query); err != nil {
				return "", fmt.Errorf("%s (@%s): %w", t.URL, doc.Position(t.Link.Start), err)
			}
		}
	}

	result := text
	for i := len(targets) - 1; i >= 0; i-- {
		t := targets[i]
		if strings.HasPrefix(t.URL, "?") {
			continue
		}
		replacement, err := r.resolve(t, text[t.Link.Start:t.Link.End], fr)
		if err != nil {
			return "", fmt.Errorf("%s (@%s): %w", t.URL, doc.Position(t.Link.Start), err)
		}
		result = result[:t.Region.Start] + replacement + result[t.Region.End:]
	}
	return result, nil
}

// resolve produces the populated form of a single target
func (r *Resolver) resolve(t Target, link string, fr frame) (string, error) {
	switch {
	case strings.HasPrefix(t.URL, "./"), strings.HasPrefix(t.URL, "../"):
	case strings.HasPrefix(t.URL, "http"):
		return "", ErrRemoteUnsupported
	default:
		return "", ErrUnsupportedTarget
	}

	target, query, _ := strings.Cut(t.URL, "?")
	target = path.Clean(target)
	extension := strings.TrimPrefix(path.Ext(target), ".")
	params := recipe.ParseQuery(fr.register.Apply(query))

	content, err := fr.fetch.Fetch(target)
	if err != nil {
		return "", err
	}

	for _, value := range recipe.All(params, "region") {
		if content, err = region.Apply(content, value); err != nil {
			return "", err
		}
	}
	content = comments.StripPrefixed(content)

	_, skip := recipe.Get(params, "skip")
	_, inline := recipe.Get(params, "inline")
	details := wrap.Details{Extension: extension, Inline: t.Inline || inline}

	if !skip {
		switch {
		case extension == "md":
			depth := t.HeadingDepth
			if value, ok := recipe.Get(params, "heading"); ok {
				offset, err := strconv.Atoi(value)
				if err != nil {
					return "", fmt.Errorf("invalid heading offset %q: %w", value, err)
				}
				depth += offset
			}
			if content, err = r.nested(content, depth, target, fr); err != nil {
				return "", err
			}
		case r.isCode(extension):
			content = wrap.Code{}.Wrap(content, details)
		}
	}

	for _, p := range params {
		if p.Key != "wrap" && p.Key != "tag" {
			continue
		}
		if content, err = wrap.Apply(content, p.Value, details); err != nil {
			return "", err
		}
	}

	// A fence line would swallow the closing marker of an inline rendering
	inline := details.Inline && !fenced(content)
	r.logger.Debug("populated", "link", t.URL, "depth", t.HeadingDepth, "inline", inline)
	return Replacement(link, content, inline), nil
}

// fenced reports whether any line of content opens or closes a code fence
func fenced(content string) bool {
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimLeft(line, " ")
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			return true
		}
	}
	return false
}

// nested resolves an included markdown document against its own directory
func (r *Resolver) nested(content string, depth int, target string, fr frame) (string, error) {
	key := path.Join(fr.dir, target)
	if slices.Contains(fr.chain, key) {
		return "", fmt.Errorf("%w: %s", ErrCircularInclusion, strings.Join(append(slices.Clone(fr.chain), key), " -> "))
	}

	dir := path.Dir(target)
	return r.populate(content, depth, frame{
		fetch:    fetch.Rebase(fr.fetch, dir),
		register: fr.register,
		dir:      path.Join(fr.dir, dir),
		chain:    append(slices.Clone(fr.chain), key),
	})
}

func (r *Resolver) isCode(extension string) bool {
	for _, ext := range r.codeExtensions {
		if strings.EqualFold(ext, extension) {
			return true
		}
	}
	return false
}
