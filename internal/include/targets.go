package include

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gubarz/parkdown/internal/markdown"
	"github.com/gubarz/parkdown/internal/spans"
)

var (
	ErrUnmatchedClosing    = errors.New("closing marker does not match an opening marker")
	ErrUnclosedOpening     = errors.New("opening marker is not followed by a closing marker")
	ErrOpeningNotAfterLink = errors.New("opening marker does not follow link")
	ErrRemoteUnsupported   = errors.New("remote links are not supported")
	ErrUnsupportedTarget   = errors.New("unsupported link target")
	ErrCircularInclusion   = errors.New("circular inclusion")
)

// Prefixes a link destination needs to be treated as an inclusion
var targetPrefixes = []string{"./", "../", "http", "?"}

// Block is a top-level pair of begin/end markers. Length is the marker
// recorded right after the opening one, when present.
type Block struct {
	Open   markdown.Marker
	Close  markdown.Marker
	Length *markdown.Marker
}

// Target is one inclusion point of a document. Region covers the bare
// link, or the link through the end marker once populated.
type Target struct {
	URL          string
	HeadingDepth int
	Inline       bool
	Region       spans.Span
	Link         spans.Span
	Block        *Block
}

// Populated reports whether the target carries output from an earlier run
func (t Target) Populated() bool {
	return t.Block != nil
}

// IsTarget reports whether a link destination is handled by parkdown
func IsTarget(url string) bool {
	for _, prefix := range targetPrefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

// TopLevelBlocks pairs begin and end markers with a stack and keeps only
// the outermost pairs. Nested pairs belong to included documents.
func TopLevelBlocks(doc *markdown.Document) ([]Block, error) {
	var (
		blocks []Block
		stack  []markdown.Marker
		length *markdown.Marker
		prev   = markdown.Length
	)

	for i, m := range doc.Markers {
		switch m.Kind {
		case markdown.Begin:
			stack = append(stack, m)
			if len(stack) == 1 {
				length = nil
			}
		case markdown.Length:
			if len(stack) == 1 && prev == markdown.Begin && length == nil {
				length = &doc.Markers[i]
			}
		case markdown.End:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w (@%s)", ErrUnmatchedClosing, doc.Position(m.Range.Start))
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				blocks = append(blocks, Block{Open: open, Close: m, Length: length})
			}
		}
		prev = m.Kind
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("%w (@%s)", ErrUnclosedOpening, doc.Position(stack[0].Range.Start))
	}
	return blocks, nil
}

// Targets finds every inclusion point of doc, ordered by position. Each
// block claims the nearest link before it, with only whitespace between.
func Targets(doc *markdown.Document) ([]Target, error) {
	blocks, err := TopLevelBlocks(doc)
	if err != nil {
		return nil, err
	}

	inside := spans.New()
	for _, b := range blocks {
		inside.Push(b.Open.Range.Start, b.Close.Range.End)
	}

	var links []markdown.Link
	for _, link := range doc.Links {
		if IsTarget(link.URL) && !inside.Test(link.Range.Start, spans.Head) {
			links = append(links, link)
		}
	}

	var targets []Target
	add := func(link markdown.Link, block *Block) {
		t := Target{
			URL:          link.URL,
			HeadingDepth: doc.HeadingDepth(doc.Line(link.Range.Start)),
			Inline:       link.Inline,
			Region:       link.Range,
			Link:         link.Range,
			Block:        block,
		}
		if block != nil {
			t.Region.End = block.Close.Range.End
		}
		targets = append(targets, t)
	}

	// Walk blocks from the end, each one popping links until it finds the
	// first that starts before it
	for i := len(blocks) - 1; i >= 0; i-- {
		block := &blocks[i]
		claimed := false
		for len(links) > 0 {
			link := links[len(links)-1]
			links = links[:len(links)-1]
			if link.Range.Start >= block.Open.Range.Start {
				add(link, nil)
				continue
			}
			if gap := doc.Source[link.Range.End:block.Open.Range.Start]; strings.TrimSpace(gap) != "" {
				return nil, fmt.Errorf("%w (@%s)", ErrOpeningNotAfterLink, doc.Position(block.Open.Range.Start))
			}
			add(link, block)
			claimed = true
			break
		}
		if !claimed {
			return nil, fmt.Errorf("%w (@%s)", ErrOpeningNotAfterLink, doc.Position(block.Open.Range.Start))
		}
	}
	for i := len(links) - 1; i >= 0; i-- {
		add(links[i], nil)
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].Region.Start < targets[j].Region.Start
	})
	return targets, nil
}
