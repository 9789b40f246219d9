package region

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gubarz/parkdown/internal/comments"
	"github.com/gubarz/parkdown/internal/spans"
)

// ============================================================================
// Extract / Remove
// ============================================================================

// Run keeps the inner text of every pair. A whitespace byte directly
// inside a marker is dropped together with it.
func (op Extraction) Run(content string) string {
	if len(op.IDs) == 0 {
		return content
	}

	all := comments.Extract(content)
	extraction, markers := spans.New(), spans.New()
	for _, id := range op.IDs {
		for _, pair := range comments.Pairs(comments.Filter(all, id)) {
			inner := pair.Inner()
			extraction.Push(inner.Start, inner.End)

			openEnd, closeEnd := pair.Open.Range.End, pair.Close.Range.End
			if inner.Len() > 0 {
				if isSpace(content[inner.Start]) {
					openEnd++
				}
				if isSpace(content[inner.End-1]) {
					closeEnd++
				}
			}
			markers.Push(pair.Open.Range.Start, openEnd)
			markers.Push(pair.Close.Range.Start, closeEnd)
		}
	}

	return extraction.Subtract(markers).Slice(content)
}

// Run drops each pair, its text and one newline after the close marker
func (op Removal) Run(content string) string {
	if len(op.IDs) == 0 {
		return content
	}

	all := comments.Extract(content)
	markers := spans.New()
	for _, id := range op.IDs {
		for _, pair := range comments.Pairs(comments.Filter(all, id)) {
			end := pair.Close.Range.End
			if end < len(content) && content[end] == '\n' {
				end++
			}
			markers.Push(pair.Open.Range.Start, end)
		}
	}

	return markers.Complement(len(content)).Slice(content)
}

// ============================================================================
// Replace
// ============================================================================

var sanitizePrefix = regexp.MustCompile(`(?:p↓|parkdown|pd):\s+`)

func sanitize(replacement, space string) string {
	s := strings.ReplaceAll(replacement, "'''", `"`)
	s = strings.ReplaceAll(s, "''", "'")
	s = sanitizePrefix.ReplaceAllString(s, "")
	if space != "" {
		s = strings.ReplaceAll(s, space, " ")
	}
	return s
}

// Run substitutes the text of every pair, then strips the pair comments
func (op Replacement) Run(content string) string {
	matching := comments.Matching(content, op.ID)
	if len(matching) < 2 {
		return content
	}

	var b strings.Builder
	lastEnd := 0
	for _, pair := range comments.Pairs(matching) {
		b.WriteString(content[lastEnd:pair.Open.Range.End])
		replacement := pair.Open.Value
		if op.With != nil {
			replacement = *op.With
		}
		b.WriteString(sanitize(replacement, op.Space))
		lastEnd = pair.Close.Range.Start
	}
	b.WriteString(content[lastEnd:])

	result := b.String()
	return comments.Ranges(comments.Matching(result, op.ID)).Complement(len(result)).Slice(result)
}

// ============================================================================
// Boundary edits
// ============================================================================

type insertion struct {
	pos  int
	text string
}

// render drops the bytes in drop and writes each insertion at its position
func render(content string, drop *spans.Set, inserts []insertion) string {
	if drop.Empty() && len(inserts) == 0 {
		return content
	}

	sort.SliceStable(inserts, func(i, j int) bool { return inserts[i].pos < inserts[j].pos })

	var b strings.Builder
	i := 0
	for _, span := range drop.Complement(len(content)).Spans() {
		cursor := span.Start
		for i < len(inserts) && inserts[i].pos <= span.End {
			pos := max(inserts[i].pos, cursor)
			b.WriteString(content[cursor:pos])
			b.WriteString(inserts[i].text)
			cursor = pos
			i++
		}
		b.WriteString(content[cursor:span.End])
	}
	for ; i < len(inserts); i++ {
		b.WriteString(inserts[i].text)
	}
	return b.String()
}

func boundary(pair comments.Pair, which Boundary) comments.Comment {
	if which == End {
		return pair.Close
	}
	return pair.Open
}

// containing returns the comment covering pos
func containing(all []comments.Comment, pos int) (comments.Comment, bool) {
	for _, c := range all {
		if pos >= c.Range.Start && pos < c.Range.End {
			return c, true
		}
	}
	return comments.Comment{}, false
}

// Run deletes Count characters next to the boundary comment, skipping over
// other comments, and inserts Insert at the boundary
func (op Splice) Run(content string) string {
	all := comments.Extract(content)
	drop := spans.New()
	var inserts []insertion

	for _, pair := range comments.Pairs(comments.Filter(all, op.ID)) {
		marker := boundary(pair, op.Boundary)

		if op.Before {
			pos := marker.Range.Start
			for n := 0; n < op.Count && pos > 0; {
				_, size := utf8.DecodeLastRuneInString(content[:pos])
				if c, ok := containing(all, pos-size); ok {
					pos = c.Range.Start
					continue
				}
				drop.Push(pos-size, pos)
				pos -= size
				n++
			}
			inserts = append(inserts, insertion{pos: clampPos(marker.Range.Start, content), text: sanitize(op.Insert, op.Space)})
			continue
		}

		pos := marker.Range.End
		for n := 0; n < op.Count && pos < len(content); {
			if c, ok := containing(all, pos); ok {
				pos = c.Range.End
				continue
			}
			_, size := utf8.DecodeRuneInString(content[pos:])
			drop.Push(pos, pos+size)
			pos += size
			n++
		}
		inserts = append(inserts, insertion{pos: clampPos(marker.Range.End, content), text: sanitize(op.Insert, op.Space)})
	}

	return render(content, drop, inserts)
}

func clampPos(pos int, content string) int {
	return min(max(pos, 0), len(content))
}

// Run deletes the whitespace run on either side of the boundary comment
func (op Trim) Run(content string) string {
	drop := spans.New()
	for _, pair := range comments.MatchingPairs(content, op.ID) {
		marker := boundary(pair, op.Boundary)
		if op.Left {
			start := marker.Range.Start
			for start > 0 && isSpace(content[start-1]) {
				start--
			}
			if start < marker.Range.Start {
				drop.Push(start, marker.Range.Start)
			}
		}
		if op.Right {
			end := marker.Range.End
			for end < len(content) && isSpace(content[end]) {
				end++
			}
			if end > marker.Range.End {
				drop.Push(marker.Range.End, end)
			}
		}
	}
	return render(content, drop, nil)
}

// ============================================================================
// Inner edits
// ============================================================================

// segments returns the inner text of every pair of id minus all comments
func segments(content, id string) []spans.Span {
	all := comments.Extract(content)
	inner := spans.New()
	for _, pair := range comments.Pairs(comments.Filter(all, id)) {
		span := pair.Inner()
		inner.Push(span.Start, span.End)
	}
	return inner.Subtract(comments.Ranges(all)).Spans()
}

// Run replaces From with To inside each pair, never inside a comment
func (op Remap) Run(content string) string {
	from := op.From
	to := op.To
	if op.Space != "" {
		from = strings.ReplaceAll(from, op.Space, " ")
		to = strings.ReplaceAll(to, op.Space, " ")
	}
	if from == "" {
		return content
	}

	drop := spans.New()
	var inserts []insertion
	for _, seg := range segments(content, op.ID) {
		text := content[seg.Start:seg.End]
		for offset := 0; ; {
			idx := strings.Index(text[offset:], from)
			if idx < 0 {
				break
			}
			start := seg.Start + offset + idx
			drop.Push(start, start+len(from))
			inserts = append(inserts, insertion{pos: start, text: to})
			offset += idx + len(from)
		}
	}
	return render(content, drop, inserts)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Run collapses every whitespace run inside each pair to one space
func (op SingleLine) Run(content string) string {
	drop := spans.New()
	var inserts []insertion
	for _, seg := range segments(content, op.ID) {
		for _, m := range whitespaceRun.FindAllStringIndex(content[seg.Start:seg.End], -1) {
			drop.Push(seg.Start+m[0], seg.Start+m[1])
			inserts = append(inserts, insertion{pos: seg.Start + m[0], text: " "})
		}
	}
	return render(content, drop, inserts)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
