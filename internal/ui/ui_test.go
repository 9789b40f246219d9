package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Warn("shown", "link", "./a.md")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "./a.md")

	_, err = NewLogger(&buf, "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestRenderSummary(t *testing.T) {
	assert.Empty(t, RenderSummary(nil))

	out := RenderSummary([]FileResult{
		{Path: "README.md", Populated: 2, Bytes: 120, Status: Written},
		{Path: "docs/a.md", Populated: 1, Bytes: 40, Status: Unchanged},
		{Path: "b.md", Status: Failed, Err: errors.New("boom")},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "README.md")
	assert.Contains(t, lines[1], "2 inclusions (120 bytes, written)")
	assert.Contains(t, lines[2], "1 inclusion (40 bytes, unchanged)")
	assert.Contains(t, lines[3], "boom")
	assert.Contains(t, lines[4], "3 inclusions in 3 files")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 files", plural(0, "file"))
	assert.Equal(t, "1 file", plural(1, "file"))
	assert.Equal(t, "2 files", plural(2, "file"))
}
