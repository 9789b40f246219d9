package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	params := ParseQuery("?region=extract(a%2Cb)&skip&wrap=code&&inline=")
	require.Len(t, params, 4)

	assert.Equal(t, Param{Key: "region", Value: "extract(a,b)", Raw: "region=extract(a%2Cb)"}, params[0])
	assert.Equal(t, Param{Key: "skip", Raw: "skip"}, params[1])
	assert.Equal(t, "inline", params[3].Key)

	v, ok := Get(params, "wrap")
	assert.True(t, ok)
	assert.Equal(t, "code", v)

	_, ok = Get(params, "heading")
	assert.False(t, ok)

	assert.Equal(t, []string{"code", "quote"}, All(ParseQuery("wrap=code&x=1&wrap=quote"), "wrap"))
}

func TestRegisterRoundTrip(t *testing.T) {
	r := New()
	require.NoError(t, r.TryStore("register=recipe(a)&x=1"))
	assert.Equal(t, "x=1&y=2", r.Apply("apply=recipe(a)&y=2"))
}

func TestRegisterAccumulation(t *testing.T) {
	r := New()
	require.NoError(t, r.TryStore("lead=0&register=recipe(a)&x=1&z=3&register=recipe(b)&region=extract(q)"))

	a, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "x=1&z=3", a)

	b, ok := r.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "region=extract(q)", b)

	assert.Equal(t, 2, r.Len())
}

func TestApply(t *testing.T) {
	r := New()
	r.Set("a", "x=1")
	r.Set("b", "wrap=quote")

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"in place", "first=1&apply=recipe(a)&last=2", "first=1&x=1&last=2"},
		{"extra ids", "apply=recipe(a,b)", "x=1&wrap=quote"},
		{"unknown id is dropped", "apply=recipe(missing)&y=2", "y=2"},
		{"no apply", "y=2", "y=2"},
		{"not a recipe passes through", "apply=other(a)", "apply=other(a)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Apply(tt.query))
		})
	}
}

func TestTryStoreErrors(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.TryStore("register=other(a)"), ErrInvalidRegistration)
	assert.ErrorIs(t, r.TryStore("register=recipe()"), ErrInvalidRegistration)
	assert.NoError(t, r.TryStore("x=1&y=2"))
	assert.Equal(t, 0, r.Len())
}
