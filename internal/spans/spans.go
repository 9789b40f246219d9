package spans

import (
	"sort"
	"strings"
)

// Span is a half-open [Start, End) byte range into a text buffer
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// Mode selects which boundaries are inclusive in Set.Test
type Mode int

const (
	Head Mode = iota // [start, end)
	Tail             // (start, end]
	Both             // [start, end]
	None             // (start, end)
)

// Set is a bag of spans that can be normalized into a sorted,
// disjoint, non-adjacent list
type Set struct {
	spans      []Span
	normalized bool
}

// New creates a set from literal spans
func New(spans ...Span) *Set {
	s := &Set{normalized: true}
	for _, span := range spans {
		s.Push(span.Start, span.End)
	}
	return s
}

// Push appends a span, ordering its bounds
func (s *Set) Push(start, end int) *Set {
	if start > end {
		start, end = end, start
	}
	s.spans = append(s.spans, Span{Start: start, End: end})
	s.normalized = false
	return s
}

// PushAt appends the single-byte span starting at pos
func (s *Set) PushAt(pos int) *Set {
	return s.Push(pos, pos+1)
}

// Combine pushes every span of other into s
func (s *Set) Combine(other *Set) *Set {
	for _, span := range other.spans {
		s.Push(span.Start, span.End)
	}
	return s
}

// Spans returns the stored spans (normalized only after Collapse)
func (s *Set) Spans() []Span {
	return s.spans
}

// Empty reports whether the set holds no spans
func (s *Set) Empty() bool {
	return len(s.spans) == 0
}

// Collapse sorts the spans and merges any that overlap or touch.
// It is a no-op on an already normalized set unless force is set.
func (s *Set) Collapse(force bool) *Set {
	if (s.normalized && !force) || len(s.spans) == 0 {
		s.normalized = true
		return s
	}

	sort.SliceStable(s.spans, func(i, j int) bool {
		return s.spans[i].Start < s.spans[j].Start
	})

	merged := make([]Span, 0, len(s.spans))
	current := s.spans[0]
	for _, span := range s.spans[1:] {
		if span.Start <= current.End {
			current.End = max(current.End, span.End)
			continue
		}
		merged = append(merged, current)
		current = span
	}
	merged = append(merged, current)

	s.spans = merged
	s.normalized = true
	return s
}

// Subtract removes every span of other from s. Both sets are normalized first.
func (s *Set) Subtract(other *Set) *Set {
	s.Collapse(false)
	other.Collapse(false)

	if len(s.spans) == 0 || len(other.spans) == 0 {
		return s
	}

	result := append([]Span(nil), s.spans...)
	for _, remove := range other.spans {
		updated := make([]Span, 0, len(result))
		for _, span := range result {
			if remove.End <= span.Start || remove.Start >= span.End {
				updated = append(updated, span)
				continue
			}
			if remove.Start > span.Start {
				updated = append(updated, Span{Start: span.Start, End: remove.Start})
			}
			if remove.End < span.End {
				updated = append(updated, Span{Start: remove.End, End: span.End})
			}
		}
		result = updated
	}

	s.spans = result
	return s.Collapse(true)
}

// Complement returns [0, length) minus the set
func (s *Set) Complement(length int) *Set {
	return New(Span{Start: 0, End: length}).Subtract(s)
}

// Test reports whether value falls inside any span under the given mode
func (s *Set) Test(value int, mode Mode) bool {
	for _, span := range s.spans {
		var inside bool
		switch mode {
		case Head:
			inside = value >= span.Start && value < span.End
		case Tail:
			inside = value > span.Start && value <= span.End
		case Both:
			inside = value >= span.Start && value <= span.End
		case None:
			inside = value > span.Start && value < span.End
		}
		if inside {
			return true
		}
	}
	return false
}

// Slice concatenates the text covered by the collapsed set.
// Spans are clamped to the text bounds.
func (s *Set) Slice(text string) string {
	s.Collapse(false)
	var b strings.Builder
	for _, span := range s.spans {
		start, end := clamp(span.Start, len(text)), clamp(span.End, len(text))
		if start >= end {
			continue
		}
		b.WriteString(text[start:end])
	}
	return b.String()
}

// Offset shifts every span by delta in place
func (s *Set) Offset(delta int) *Set {
	for i := range s.spans {
		s.spans[i].Start += delta
		s.spans[i].End += delta
	}
	return s
}

func clamp(v, length int) int {
	return min(max(v, 0), length)
}
