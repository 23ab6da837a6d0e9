// Package chunk normalizes extracted document text and splits it into
// overlapping word windows sized for model inference.
package chunk

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultMaxTokens = 512
	DefaultOverlap   = 50
)

// ErrInvalidOptions is returned by Split when the window cannot advance.
var ErrInvalidOptions = errors.New("invalid chunk options")

var nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)

// Normalize replaces every run of non 7-bit characters with a single space
// and trims the result.
func Normalize(raw string) string {
	return strings.TrimSpace(nonASCII.ReplaceAllString(raw, " "))
}

// Options controls the window size and overlap, both counted in words.
type Options struct {
	MaxTokens int
	Overlap   int
}

// DefaultOptions returns the 512/50 window.
func DefaultOptions() Options {
	return Options{MaxTokens: DefaultMaxTokens, Overlap: DefaultOverlap}
}

// Validate reports whether the window advances on every step.
func (o Options) Validate() error {
	if o.MaxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidOptions, o.MaxTokens)
	}
	if o.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidOptions, o.Overlap)
	}
	if o.Overlap >= o.MaxTokens {
		return fmt.Errorf("%w: overlap %d must be smaller than max tokens %d", ErrInvalidOptions, o.Overlap, o.MaxTokens)
	}
	return nil
}

// Stride is the distance between consecutive chunk starts.
func (o Options) Stride() int { return o.MaxTokens - o.Overlap }

// Chunk is the word range [Start, End) of the normalized text.
type Chunk struct {
	Index       int
	Start       int
	End         int
	Words       []string
	OverlapPrev int // words shared with the previous chunk
}

// Text joins the chunk words with single spaces.
func (c Chunk) Text() string { return strings.Join(c.Words, " ") }

// WordCount is the number of words in the chunk.
func (c Chunk) WordCount() int { return len(c.Words) }

// Split cuts text into windows of at most MaxTokens words, each starting
// Stride words after the previous one. The last window may be shorter.
func Split(text string, opts Options) ([]Chunk, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	words := strings.Fields(text)
	n := len(words)
	if n == 0 {
		return nil, nil
	}
	stride := opts.Stride()
	chunks := make([]Chunk, 0, (n+stride-1)/stride)
	prevEnd := 0
	for start := 0; start < n; start += stride {
		end := min(start+opts.MaxTokens, n)
		overlap := 0
		if start > 0 {
			overlap = prevEnd - start
		}
		chunks = append(chunks, Chunk{
			Index:       len(chunks),
			Start:       start,
			End:         end,
			Words:       words[start:end:end],
			OverlapPrev: overlap,
		})
		prevEnd = end
	}
	return chunks, nil
}
