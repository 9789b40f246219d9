package markdown

import "sort"

type indexToLine struct {
	offsets []int
}

func newIndexToLine(content string) *indexToLine {
	offsets := []int{0}

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return &indexToLine{offsets: offsets}
}

// lineFor returns the 1-based line holding index
func (m *indexToLine) lineFor(index int) int {
	if m == nil || index < 0 {
		return -1
	}

	pos := sort.Search(len(m.offsets), func(i int) bool {
		return m.offsets[i] > index
	})
	if pos == 0 {
		return 1
	}

	return pos
}

// columnFor returns the 1-based byte column of index on its line
func (m *indexToLine) columnFor(index int) int {
	line := m.lineFor(index)
	if line < 1 {
		return -1
	}
	return index - m.offsets[line-1] + 1
}
