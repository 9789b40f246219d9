package spans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapse(t *testing.T) {
	tests := []struct {
		name     string
		input    []Span
		expected []Span
	}{
		{
			name:     "overlapping",
			input:    []Span{{5, 10}, {0, 6}},
			expected: []Span{{0, 10}},
		},
		{
			name:     "adjacent spans merge",
			input:    []Span{{0, 3}, {3, 5}},
			expected: []Span{{0, 5}},
		},
		{
			name:     "disjoint spans are sorted",
			input:    []Span{{8, 9}, {0, 2}, {4, 6}},
			expected: []Span{{0, 2}, {4, 6}, {8, 9}},
		},
		{
			name:     "contained span",
			input:    []Span{{0, 20}, {4, 6}},
			expected: []Span{{0, 20}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := New(tt.input...).Collapse(false)
			assert.Equal(t, tt.expected, set.Spans())

			again := New(set.Spans()...).Collapse(true)
			assert.Equal(t, set.Spans(), again.Spans())
		})
	}
}

func TestPushOrdersBounds(t *testing.T) {
	set := New().Push(10, 4).PushAt(20).Collapse(false)
	assert.Equal(t, []Span{{4, 10}, {20, 21}}, set.Spans())
}

func TestCombine(t *testing.T) {
	a := New(Span{0, 3}, Span{10, 12})
	b := New(Span{2, 5}, Span{7, 8})

	combined := a.Combine(b).Collapse(false)
	assert.Equal(t, []Span{{0, 5}, {7, 8}, {10, 12}}, combined.Spans())
	assert.Len(t, b.Spans(), 2)
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name     string
		keep     []Span
		remove   []Span
		expected []Span
	}{
		{
			name:     "outside is kept",
			keep:     []Span{{0, 5}},
			remove:   []Span{{5, 8}},
			expected: []Span{{0, 5}},
		},
		{
			name:     "covered is dropped",
			keep:     []Span{{2, 4}},
			remove:   []Span{{0, 10}},
			expected: nil,
		},
		{
			name:     "split in the middle",
			keep:     []Span{{0, 10}},
			remove:   []Span{{3, 5}},
			expected: []Span{{0, 3}, {5, 10}},
		},
		{
			name:     "partial left and right",
			keep:     []Span{{0, 4}, {6, 10}},
			remove:   []Span{{3, 7}},
			expected: []Span{{0, 3}, {7, 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.keep...).Subtract(New(tt.remove...))
			if tt.expected == nil {
				assert.Empty(t, got.Spans())
				return
			}
			assert.Equal(t, tt.expected, got.Spans())
		})
	}
}

func TestSubtractIdentities(t *testing.T) {
	input := []Span{{7, 9}, {0, 3}, {2, 5}}

	withEmpty := New(input...).Subtract(New())
	assert.Equal(t, New(input...).Collapse(false).Spans(), withEmpty.Spans())

	withSelf := New(input...).Subtract(New(input...))
	assert.Empty(t, withSelf.Spans())
}

func TestTest(t *testing.T) {
	set := New(Span{2, 5})

	cases := []struct {
		mode  Mode
		value int
		want  bool
	}{
		{Head, 2, true}, {Head, 5, false},
		{Tail, 2, false}, {Tail, 5, true},
		{Both, 2, true}, {Both, 5, true},
		{None, 2, false}, {None, 5, false}, {None, 3, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, set.Test(c.value, c.mode), "mode %d value %d", c.mode, c.value)
	}
}

func TestSliceAndOffset(t *testing.T) {
	text := "hello, world"
	set := New(Span{7, 12}, Span{0, 5}, Span{5, 5})
	require.Equal(t, "helloworld", set.Slice(text))

	set.Offset(-5)
	assert.Equal(t, []Span{{-5, 0}, {2, 7}}, set.Spans())
	assert.Equal(t, "llo, ", set.Slice(text))
}

func TestComplement(t *testing.T) {
	set := New(Span{2, 4}, Span{6, 8})
	assert.Equal(t, []Span{{0, 2}, {4, 6}, {8, 10}}, set.Complement(10).Spans())
}
