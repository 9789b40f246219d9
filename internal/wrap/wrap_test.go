package wrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/parkdown/internal/specifier"
)

func TestApply(t *testing.T) {
	block := Details{Extension: "ts"}
	inline := Details{Extension: "md", Inline: true}

	tests := []struct {
		name     string
		content  string
		value    string
		details  Details
		expected string
	}{
		{"code defaults to extension", "let x;", "code", block, "```ts\nlet x;\n```"},
		{"code with parens", "let x;", "code()", block, "```ts\nlet x;\n```"},
		{"code lang", "x", "code(js)", block, "```js\nx\n```"},
		{"code meta only", "x", "code(,title=a)", block, "```ts title=a\nx\n```"},
		{"quote inline", "hi", "quote", inline, "> hi"},
		{"quote block", "hi", "quote()", block, "<blockquote>\n\nhi\n\n</blockquote>\n"},
		{"quote inline with paragraphs", "a\n\nb", "quote", inline, "<blockquote>\n\na\n\nb\n\n</blockquote>\n"},
		{"dropdown", "body", "dropdown(hello-world)", block, "\n<details>\n<summary>hello world</summary>\n\nbody\n</details>\n"},
		{"dropdown open custom space", "body", "dropdown(hello_world,true,_)", block, "\n<details open>\n<summary>hello world</summary>\n\nbody\n</details>\n"},
		{"dropdown quoted", "body", "dropdown('hello,-world',true)", block, "\n<details open>\n<summary>hello, world</summary>\n\nbody\n</details>\n"},
		{"chained", "x", "code(sh), dropdown(run)", block, "\n<details>\n<summary>run</summary>\n\n```sh\nx\n```\n</details>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Apply(tt.content, tt.value, tt.details)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestApplyErrors(t *testing.T) {
	_, err := Apply("x", "table", Details{})
	assert.ErrorIs(t, err, specifier.ErrUnknownMethod)

	_, err = Apply("x", "dropdown()", Details{})
	assert.ErrorIs(t, err, specifier.ErrMissingParameter)
}
