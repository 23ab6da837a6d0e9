package chunk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "ascii untouched", in: "Hello, world.", want: "Hello, world."},
		{name: "trims", in: "  \n padded \t ", want: "padded"},
		{name: "run collapses to one space", in: "cafééébar", want: "caf bar"},
		{name: "separate runs", in: "a•b—c", want: "a b c"},
		{name: "only unicode", in: "éè中", want: ""},
		{name: "leading unicode trimmed", in: "“quoted”", want: "quoted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestSplit_Empty(t *testing.T) {
	chunks, err := Split("", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = Split("   \n\t ", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_ShortText(t *testing.T) {
	text := "Hello world this is a short text."
	chunks, err := Split(text, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text())
	assert.Equal(t, 7, chunks[0].WordCount())
	assert.Equal(t, 0, chunks[0].OverlapPrev)
}

func TestSplit_SixHundredWords(t *testing.T) {
	chunks, err := Split(numberedWords(600), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 512, chunks[0].End)
	assert.Equal(t, 512, chunks[0].WordCount())

	assert.Equal(t, 462, chunks[1].Start)
	assert.Equal(t, 600, chunks[1].End)
	assert.Equal(t, 138, chunks[1].WordCount())
	assert.Equal(t, 50, chunks[1].OverlapPrev)
	assert.Equal(t, "w462", chunks[1].Words[0])
	assert.Equal(t, "w599", chunks[1].Words[137])
}

func TestSplit_TailInsidePrevious(t *testing.T) {
	// 500 words: the second window starts at 462 and is fully covered by the first.
	chunks, err := Split(numberedWords(500), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 500, chunks[0].End)
	assert.Equal(t, 462, chunks[1].Start)
	assert.Equal(t, 38, chunks[1].OverlapPrev)
}

func TestSplit_Coverage(t *testing.T) {
	for _, n := range []int{1, 49, 50, 51, 99, 100, 101, 257, 1000} {
		opts := Options{MaxTokens: 100, Overlap: 20}
		chunks, err := Split(numberedWords(n), opts)
		require.NoError(t, err)

		wantCount := (n + opts.Stride() - 1) / opts.Stride()
		require.Len(t, chunks, wantCount, "n=%d", n)

		assert.Equal(t, 0, chunks[0].Start)
		assert.Equal(t, n, chunks[len(chunks)-1].End, "n=%d: last chunk must reach the end", n)
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			assert.LessOrEqual(t, c.WordCount(), opts.MaxTokens)
			assert.Equal(t, c.End-c.Start, c.WordCount())
			if i == 0 {
				continue
			}
			prev := chunks[i-1]
			assert.Equal(t, prev.Start+opts.Stride(), c.Start)
			assert.Equal(t, prev.End-c.Start, c.OverlapPrev)
			if prev.End-prev.Start == opts.MaxTokens && c.End-c.Start >= opts.Overlap {
				assert.Equal(t, opts.Overlap, c.OverlapPrev, "n=%d chunk=%d", n, i)
			}
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := numberedWords(1234)
	a, err := Split(text, DefaultOptions())
	require.NoError(t, err)
	b, err := Split(text, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSplit_InvalidOptions(t *testing.T) {
	for _, opts := range []Options{
		{MaxTokens: 0, Overlap: 0},
		{MaxTokens: -5, Overlap: 0},
		{MaxTokens: 10, Overlap: -1},
		{MaxTokens: 50, Overlap: 50},
		{MaxTokens: 50, Overlap: 60},
	} {
		_, err := Split("some words here", opts)
		assert.ErrorIs(t, err, ErrInvalidOptions, "%+v", opts)
	}
}

func TestChunk_WordsAreIsolated(t *testing.T) {
	chunks, err := Split(numberedWords(30), Options{MaxTokens: 10, Overlap: 2})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// Appending to one chunk must not clobber the next chunk's words.
	_ = append(chunks[0].Words, "extra")
	assert.Equal(t, "w8", chunks[1].Words[0])
}
