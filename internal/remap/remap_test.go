package remap

import (
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(s string) string {
	return strings.Trim(dedent.Dedent(s), "\n")
}

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping([]string{"bar=baz", " $local = my-pkg "})
	require.NoError(t, err)
	assert.Equal(t, Mapping{"bar": "baz", Local: "my-pkg"}, m)

	for _, bad := range []string{"bar", "=baz", "bar="} {
		_, err := ParseMapping([]string{bad})
		assert.ErrorIs(t, err, ErrInvalidMapping, bad)
	}
}

func TestLookup(t *testing.T) {
	m := Mapping{"bar": "baz", Local: "pkg"}

	tests := []struct {
		specifier string
		want      string
		ok        bool
	}{
		{"bar", "baz", true},
		{"./local", "pkg", true},
		{"../up", "pkg", true},
		{"$lib/x", "pkg", true},
		{"other", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			got, ok := m.Lookup(tt.specifier)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScript(t *testing.T) {
	code := fixture(`
		import { foo } from "bar";
		import { baz, type Qux } from './qux';
		import type { Foo as Bar } from "bar";
		  import Default from "untouched";
		import {
			a,
			b,
		} from "../multi";

		const result = () => {
		}
	`)

	want := fixture(`
		import { foo } from "dingo";
		import { baz, type Qux } from "local";
		import type { Foo as Bar } from "dingo";
		  import Default from "untouched";
		import {
			a,
			b,
		} from "local";

		const result = () => {
		}
	`)

	assert.Equal(t, want, Script(code, Mapping{"bar": "dingo", Local: "local"}))
}

func TestSvelte(t *testing.T) {
	code := fixture(`
		<script lang="ts">
			import Thing from "./Thing.svelte";
		</script>

		import Outside from "./outside";
	`)

	want := fixture(`
		<script lang="ts">
			import Thing from "pkg";
		</script>

		import Outside from "./outside";
	`)

	assert.Equal(t, want, Svelte(code, Mapping{Local: "pkg"}))
}

func TestMarkdown(t *testing.T) {
	text := strings.Join([]string{
		"# Usage",
		"",
		"```ts",
		`import { x } from "./x";`,
		"```",
		"",
		"```py",
		`import { x } from "./x";`,
		"```",
		"",
		"```svelte",
		"<script>",
		`import X from "$lib/X.svelte";`,
		"</script>",
		"```",
		"",
	}, "\n")

	want := strings.Join([]string{
		"# Usage",
		"",
		"```ts",
		`import { x } from "my-pkg";`,
		"```",
		"",
		"```py",
		`import { x } from "./x";`,
		"```",
		"",
		"```svelte",
		"<script>",
		`import X from "my-pkg";`,
		"</script>",
		"```",
		"",
	}, "\n")

	m := Mapping{Local: "my-pkg"}
	assert.Equal(t, want, Markdown(text, m))
	assert.Equal(t, want, Markdown(want, m))
	assert.Equal(t, text, Markdown(text, nil))
}
