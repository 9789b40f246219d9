package markdown

import (
	"strings"
)

// ApplyHeadingDepth shifts every ATX heading of source by depth levels,
// clamped to [1, 6]. Setext headings are left as written.
func ApplyHeadingDepth(source string, depth int) string {
	if depth == 0 {
		return source
	}

	doc := Parse(source)
	result := source
	for i := len(doc.Headings) - 1; i >= 0; i-- {
		h := doc.Headings[i]
		if !h.ATX() {
			continue
		}
		level := min(max(h.Level+depth, 1), 6)
		result = result[:h.Hashes.Start] + strings.Repeat("#", level) + result[h.Hashes.End:]
	}
	return result
}
