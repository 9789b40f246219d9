package comments

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gubarz/parkdown/internal/spans"
)

// Comment is a comment found in raw text
type Comment struct {
	Value string     // Text between the delimiters, trimmed
	Range spans.Span // Offsets of the full comment including delimiters
}

// Pair is an opening and closing comment sharing a specifier
type Pair struct {
	Open  Comment
	Close Comment
}

// Inner returns the span strictly between the two comments
func (p Pair) Inner() spans.Span {
	return spans.Span{Start: p.Open.Range.End, End: p.Close.Range.Start}
}

// Prefixes mark comments that only exist to steer parkdown and are
// stripped from included content
var Prefixes = []string{"p↓:", "pd:", "parkdown:"}

var commentRegex = regexp.MustCompile(`//[^\n]*|/\*(?s:.*?)\*/|<!--(?s:.*?)-->`)

// Extract returns every line, block and markup comment in document order
func Extract(text string) []Comment {
	matches := commentRegex.FindAllStringIndex(text, -1)
	seen := make(map[spans.Span]bool, len(matches))
	result := make([]Comment, 0, len(matches))
	for _, m := range matches {
		r := spans.Span{Start: m[0], End: m[1]}
		if seen[r] {
			continue
		}
		seen[r] = true
		result = append(result, Comment{
			Value: strings.TrimSpace(value(text[m[0]:m[1]])),
			Range: r,
		})
	}
	return result
}

func value(full string) string {
	switch {
	case strings.HasPrefix(full, "//"):
		return full[2:]
	case strings.HasPrefix(full, "/*"):
		return full[2 : len(full)-2]
	case strings.HasPrefix(full, "<!--"):
		return full[4 : len(full)-3]
	default:
		return full
	}
}

// Matching returns the comments whose value contains specifier, sorted by start
func Matching(text, specifier string) []Comment {
	return Filter(Extract(text), specifier)
}

// Filter keeps the comments whose value contains specifier, sorted by start
func Filter(all []Comment, specifier string) []Comment {
	var matching []Comment
	for _, c := range all {
		if strings.Contains(c.Value, specifier) {
			matching = append(matching, c)
		}
	}
	sortByStart(matching)
	return matching
}

// Pairs groups comments two at a time. A trailing odd comment is dropped.
func Pairs(matching []Comment) []Pair {
	pairs := make([]Pair, 0, len(matching)/2)
	for i := 0; i+1 < len(matching); i += 2 {
		pairs = append(pairs, Pair{Open: matching[i], Close: matching[i+1]})
	}
	return pairs
}

// MatchingPairs is Pairs(Matching(text, specifier))
func MatchingPairs(text, specifier string) []Pair {
	return Pairs(Matching(text, specifier))
}

// Ranges returns a set covering every comment
func Ranges(all []Comment) *spans.Set {
	set := spans.New()
	for _, c := range all {
		set.Push(c.Range.Start, c.Range.End)
	}
	return set
}

func sortByStart(list []Comment) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Range.Start < list[j].Range.Start
	})
}

// hasWord reports whether value contains word as a space separated token
func hasWord(value, word string) bool {
	for _, w := range strings.Split(value, " ") {
		if w == word {
			return true
		}
	}
	return false
}

// StripPrefixed removes every comment carrying one of the Prefixes, along
// with the whitespace it owned: the whole line when the comment is alone on
// it, otherwise a single neighbouring space.
func StripPrefixed(text string) string {
	var targets []Comment
	for _, c := range Extract(text) {
		for _, prefix := range Prefixes {
			if hasWord(c.Value, prefix) {
				targets = append(targets, c)
				break
			}
		}
	}
	sortByStart(targets)

	acc := text
	for i := len(targets) - 1; i >= 0; i-- {
		start, end := targets[i].Range.Start, targets[i].Range.End

		prevSpace, prevNewline := classify(acc, start-1)
		nextSpace, nextNewline := classify(acc, end)
		last := end == len(acc)

		lineStart := start
		for lineStart > 0 && acc[lineStart-1] != '\n' {
			lineStart--
		}
		lineEnd := end
		for lineEnd < len(acc) && acc[lineEnd] != '\n' {
			lineEnd++
		}
		alone := strings.TrimSpace(acc[lineStart:start]) == "" && strings.TrimSpace(acc[end:lineEnd]) == ""

		switch {
		case prevNewline && nextNewline:
			from := start
			if last {
				from--
			}
			acc = cut(acc, from, end+1)
		case prevNewline || alone:
			to := end
			if nextSpace || nextNewline {
				to++
			}
			acc = cut(acc, lineStart, to)
		default:
			from := start
			if prevSpace {
				from--
			}
			acc = cut(acc, from, end)
		}
	}
	return acc
}

// classify reports whether the byte at i is a space or a newline.
// Positions outside the text count as newlines.
func classify(text string, i int) (space, newline bool) {
	if i < 0 || i >= len(text) {
		return false, true
	}
	return text[i] == ' ', text[i] == '\n'
}

func cut(text string, from, to int) string {
	from = min(max(from, 0), len(text))
	to = min(max(to, from), len(text))
	return text[:from] + text[to:]
}
