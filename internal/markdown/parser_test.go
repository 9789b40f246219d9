package markdown

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinksAndMarkers(t *testing.T) {
	source := strings.Join([]string{
		"# Title",
		"",
		"Some [](./a.md) text",
		"",
		"[](./b.md)",
		"<!-- p↓ BEGIN -->",
		"<!-- p↓ length lines: 1 chars: 5 -->",
		"hello",
		"<!-- p↓ END -->",
		"",
		"```md",
		"[](./c.md)",
		"<!-- p↓ BEGIN -->",
		"```",
		"",
	}, "\n")

	doc := Parse(source)

	require.Len(t, doc.Links, 2)
	assert.Equal(t, "./a.md", doc.Links[0].URL)
	assert.True(t, doc.Links[0].Inline)
	assert.Equal(t, "[](./a.md)", source[doc.Links[0].Range.Start:doc.Links[0].Range.End])

	assert.Equal(t, "./b.md", doc.Links[1].URL)
	assert.False(t, doc.Links[1].Inline)
	assert.Equal(t, "[](./b.md)", source[doc.Links[1].Range.Start:doc.Links[1].Range.End])

	require.Len(t, doc.Markers, 3)
	assert.Equal(t, Begin, doc.Markers[0].Kind)
	assert.Equal(t, Length, doc.Markers[1].Kind)
	assert.Equal(t, 1, doc.Markers[1].Lines)
	assert.Equal(t, 5, doc.Markers[1].Chars)
	assert.Equal(t, End, doc.Markers[2].Kind)
	assert.Equal(t, "<!-- p↓ END -->", source[doc.Markers[2].Range.Start:doc.Markers[2].Range.End])

	require.Len(t, doc.Code, 1)
	assert.Equal(t, "md", doc.Code[0].Lang)
}

func TestParseInlineMarkers(t *testing.T) {
	source := "See [](./a.md) <!-- p↓ BEGIN --> <!-- p↓ length lines: 1 chars: 2 --> hi <!-- p↓ END --> done"
	doc := Parse(source)

	require.Len(t, doc.Links, 1)
	assert.True(t, doc.Links[0].Inline)

	require.Len(t, doc.Markers, 3)
	assert.Equal(t, []MarkerKind{Begin, Length, End}, []MarkerKind{doc.Markers[0].Kind, doc.Markers[1].Kind, doc.Markers[2].Kind})
}

func TestParseLegacyMarkers(t *testing.T) {
	doc := Parse("[](./a.md)\n<!-- parkdown BEGIN -->\nx\n<!-- pd END -->\n")
	require.Len(t, doc.Markers, 2)
	assert.Equal(t, Begin, doc.Markers[0].Kind)
	assert.Equal(t, End, doc.Markers[1].Kind)
}

func TestParseLinkForms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		url    string
		text   string
	}{
		{"after image", "![](./img.png) [](./a.md)", "./a.md", "[](./a.md)"},
		{"angle brackets", "[](<./a b.md>)", "./a b.md", "[](<./a b.md>)"},
		{"query", "[](./a.ts?region=extract(x)&wrap=code)", "./a.ts?region=extract(x)&wrap=code", "[](./a.ts?region=extract(x)&wrap=code)"},
		{"query only", "[](?register=recipe(a)&x=1)", "?register=recipe(a)&x=1", "[](?register=recipe(a)&x=1)"},
		{"after code span", "`[](./no.md)` and [](./yes.md)", "./yes.md", "[](./yes.md)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.source)
			require.Len(t, doc.Links, 1)
			link := doc.Links[0]
			assert.Equal(t, tt.url, link.URL)
			assert.Equal(t, tt.text, tt.source[link.Range.Start:link.Range.End])
		})
	}

	doc := Parse("[text](./a.md) and [](./b.md)")
	require.Len(t, doc.Links, 1)
	assert.Equal(t, "./b.md", doc.Links[0].URL)
}

func TestHeadingDepth(t *testing.T) {
	source := "# A\n\n## B\n\n[](./x.md)\n\nC\n=\n\n[](./y.md)\n"
	doc := Parse(source)

	require.Len(t, doc.Headings, 3)
	assert.True(t, doc.Headings[0].ATX())
	assert.False(t, doc.Headings[2].ATX())

	require.Len(t, doc.Links, 2)
	assert.Equal(t, 2, doc.HeadingDepth(doc.Line(doc.Links[0].Range.Start)))
	assert.Equal(t, 1, doc.HeadingDepth(doc.Line(doc.Links[1].Range.Start)))
	assert.Equal(t, 0, Parse("[](./x.md)").HeadingDepth(1))
}

func TestApplyHeadingDepth(t *testing.T) {
	source := "# A\n\n## B ##\n\nC\n=\n\n> ## Q\n\n###### D"

	assert.Equal(t, source, ApplyHeadingDepth(source, 0))
	assert.Equal(t,
		"## A\n\n### B ##\n\nC\n=\n\n> ### Q\n\n###### D",
		ApplyHeadingDepth(source, 1))
	assert.Equal(t,
		"# A\n\n# B ##\n\nC\n=\n\n> # Q\n\n### D",
		ApplyHeadingDepth(source, -3))
}

func TestPosition(t *testing.T) {
	doc := Parse("a\nbc\n[](./x.md)")
	require.Len(t, doc.Links, 1)
	assert.Equal(t, "3:1", doc.Position(doc.Links[0].Range.Start))
	assert.Equal(t, "2:2", doc.Position(3))
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(rel string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	write("README.md")
	write("sub/b.md")
	write("sub/c.txt")
	write(".git/d.md")

	single := filepath.Join(dir, "sub", "c.txt")
	files, err := CollectFiles([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "README.md"),
		filepath.Join(dir, "sub", "b.md"),
		single,
	}, files)

	_, err = CollectFiles([]string{filepath.Join(dir, "missing.md")})
	assert.Error(t, err)
}
