package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/gubarz/parkdown/internal/spans"
)

// MarkerKind tells begin, end and length markers apart
type MarkerKind int

const (
	Begin MarkerKind = iota
	End
	Length
)

// Marker is a parkdown comment found in an html node
type Marker struct {
	Kind  MarkerKind
	Range spans.Span
	Lines int // Recorded line count (Length only)
	Chars int // Recorded character count (Length only)
}

// Link is an empty-text link
type Link struct {
	URL    string     // Destination as written
	Range  spans.Span // Covers "[](...)"
	Inline bool       // Shares its paragraph with other content
}

// Heading is a heading and the line its content starts on
type Heading struct {
	Level  int
	Line   int
	Hashes spans.Span // Opening "#" run, empty for setext headings
}

// ATX reports whether the heading was written with a "#" run
func (h Heading) ATX() bool {
	return h.Hashes.Len() > 0
}

// CodeBlock is a fenced code block
type CodeBlock struct {
	Lang    string
	Content spans.Span // Lines between the fences
}

// Document is the index of one parsed markdown text. All ranges are
// byte offsets into Source, ordered by position.
type Document struct {
	Source   string
	Links    []Link
	Markers  []Marker
	Headings []Heading
	Code     []CodeBlock
	lines    *indexToLine
}

var (
	markerRegex = regexp.MustCompile(`<!--\s*(?:p↓|parkdown|pd)\s+(BEGIN|END)\s*-->`)
	lengthRegex = regexp.MustCompile(`<!--\s*(?:p↓|parkdown|pd)\s+length\s+lines:\s*(\d+)\s+chars:\s*(\d+)\s*-->`)
)

// Parser handles markdown parsing
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a new parser
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

var defaultParser = NewParser()

// Parse indexes source with the default parser
func Parse(source string) *Document {
	return defaultParser.Parse(source)
}

// Parse builds the index of source
func (p *Parser) Parse(source string) *Document {
	src := []byte(source)
	root := p.md.Parser().Parse(text.NewReader(src))

	doc := &Document{Source: source, lines: newIndexToLine(source)}

	// Link nodes carry no position, so they are located in the source by
	// searching forward from the end of the last positioned node.
	cursor := 0
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
			cursor = max(cursor, n.Lines().At(0).Start)
		}

		switch node := n.(type) {
		case *ast.Heading:
			doc.addHeading(node, src)
		case *ast.FencedCodeBlock:
			doc.addCode(node, src)
			cursor = max(cursor, linesEnd(node))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			cursor = max(cursor, linesEnd(node))
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			end := linesEnd(node)
			if node.HasClosure() {
				end = node.ClosureLine.Stop
			}
			if node.Lines().Len() > 0 {
				doc.scanMarkers(node.Lines().At(0).Start, end)
			}
			cursor = max(cursor, end)
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			if node.Segments.Len() > 0 {
				start := node.Segments.At(0).Start
				end := node.Segments.At(node.Segments.Len() - 1).Stop
				doc.scanMarkers(start, end)
				cursor = max(cursor, end)
			}
		case *ast.Text:
			cursor = max(cursor, node.Segment.Stop)
		case *ast.Link:
			if node.ChildCount() > 0 {
				break
			}
			url, r, ok := locate(src, cursor, "[](")
			if !ok {
				break
			}
			doc.Links = append(doc.Links, Link{
				URL:    url,
				Range:  r,
				Inline: node.Parent() != nil && node.Parent().ChildCount() > 1,
			})
			cursor = r.End
		case *ast.Image:
			if node.ChildCount() > 0 {
				break
			}
			if _, r, ok := locate(src, cursor, "![]("); ok {
				cursor = r.End
			}
		}
		return ast.WalkContinue, nil
	})

	return doc
}

func linesEnd(n ast.Node) int {
	lines := n.Lines()
	if lines.Len() == 0 {
		return 0
	}
	return lines.At(lines.Len() - 1).Stop
}

func (d *Document) addHeading(node *ast.Heading, src []byte) {
	if node.Lines().Len() == 0 {
		return
	}
	contentStart := node.Lines().At(0).Start

	heading := Heading{Level: node.Level, Line: d.lines.lineFor(contentStart)}

	// An ATX heading has its "#" run right before the content, separated
	// by spaces or tabs
	p := contentStart
	for p > 0 && (src[p-1] == ' ' || src[p-1] == '\t') {
		p--
	}
	end := p
	for p > 0 && src[p-1] == '#' {
		p--
	}
	if end-p == node.Level {
		heading.Hashes = spans.Span{Start: p, End: end}
	}

	d.Headings = append(d.Headings, heading)
}

func (d *Document) addCode(node *ast.FencedCodeBlock, src []byte) {
	lines := node.Lines()
	if lines.Len() == 0 {
		return
	}
	d.Code = append(d.Code, CodeBlock{
		Lang: string(node.Language(src)),
		Content: spans.Span{
			Start: lines.At(0).Start,
			End:   lines.At(lines.Len() - 1).Stop,
		},
	})
}

func (d *Document) scanMarkers(start, end int) {
	if start >= end || end > len(d.Source) {
		return
	}
	raw := d.Source[start:end]

	for _, m := range markerRegex.FindAllStringSubmatchIndex(raw, -1) {
		kind := Begin
		if raw[m[2]:m[3]] == "END" {
			kind = End
		}
		d.Markers = append(d.Markers, Marker{
			Kind:  kind,
			Range: spans.Span{Start: start + m[0], End: start + m[1]},
		})
	}
	for _, m := range lengthRegex.FindAllStringSubmatchIndex(raw, -1) {
		lines, _ := strconv.Atoi(raw[m[2]:m[3]])
		chars, _ := strconv.Atoi(raw[m[4]:m[5]])
		d.Markers = append(d.Markers, Marker{
			Kind:  Length,
			Range: spans.Span{Start: start + m[0], End: start + m[1]},
			Lines: lines,
			Chars: chars,
		})
	}
	sortMarkers(d.Markers)
}

func sortMarkers(markers []Marker) {
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Range.Start < markers[j].Range.Start
	})
}

// locate finds the next link opener at or after from and reads its
// destination up to the closing parenthesis
func locate(src []byte, from int, opener string) (string, spans.Span, bool) {
	if from < 0 || from > len(src) {
		return "", spans.Span{}, false
	}
	i := bytes.Index(src[from:], []byte(opener))
	if i < 0 {
		return "", spans.Span{}, false
	}
	start := from + i
	url, end, ok := scanDestination(src, start+len(opener))
	if !ok {
		return "", spans.Span{}, false
	}
	return url, spans.Span{Start: start, End: end}, true
}

// scanDestination reads a link destination and optional title starting
// right after "(" and returns the offset past the closing ")"
func scanDestination(src []byte, p int) (string, int, bool) {
	skipSpace := func() {
		for p < len(src) && (src[p] == ' ' || src[p] == '\t' || src[p] == '\n') {
			p++
		}
	}

	skipSpace()
	var dest string
	if p < len(src) && src[p] == '<' {
		q := bytes.IndexAny(src[p+1:], ">\n")
		if q < 0 || src[p+1+q] != '>' {
			return "", 0, false
		}
		dest = string(src[p+1 : p+1+q])
		p += q + 2
	} else {
		start, depth := p, 0
	scan:
		for p < len(src) {
			switch c := src[p]; {
			case c == '\\' && p+1 < len(src):
				p += 2
				continue
			case c == '(':
				depth++
			case c == ')':
				if depth == 0 {
					break scan
				}
				depth--
			case c <= ' ':
				break scan
			}
			p++
		}
		dest = string(src[start:p])
	}

	skipSpace()
	if p < len(src) && (src[p] == '"' || src[p] == '\'' || src[p] == '(') {
		closer := src[p]
		if closer == '(' {
			closer = ')'
		}
		q := bytes.IndexByte(src[p+1:], closer)
		if q < 0 {
			return "", 0, false
		}
		p += q + 2
		skipSpace()
	}

	if p >= len(src) || src[p] != ')' {
		return "", 0, false
	}
	return dest, p + 1, true
}

// Line returns the 1-based line of offset
func (d *Document) Line(offset int) int {
	return d.lines.lineFor(offset)
}

// Position formats offset as line:column
func (d *Document) Position(offset int) string {
	return fmt.Sprintf("%d:%d", d.lines.lineFor(offset), d.lines.columnFor(offset))
}

// HeadingDepth returns the level of the nearest heading on or above line,
// or 0 when there is none
func (d *Document) HeadingDepth(line int) int {
	depth, best := 0, 0
	for _, h := range d.Headings {
		if h.Line <= line && h.Line >= best {
			depth, best = h.Level, h.Line
		}
	}
	return depth
}
