package pipeline

const (
	summaryCeiling = 150
	summaryFloor   = 5
)

// SummaryBounds is the word envelope requested from the summarizer.
type SummaryBounds struct {
	MaxLen int
	MinLen int
}

// Bounds scales the summary envelope with the chunk size: 70% of the words
// capped at 150, with a minimum of 20% of that but never below 5 unless the
// maximum itself is smaller. Percentages are taken in float64 and truncated,
// so 90 words give 62 rather than 63.
func Bounds(wordCount int) SummaryBounds {
	if wordCount < 0 {
		wordCount = 0
	}
	maxLen := min(summaryCeiling, int(float64(wordCount)*0.7))
	minLen := int(float64(maxLen) * 0.2)
	if minLen < summaryFloor {
		minLen = summaryFloor
	}
	if minLen > maxLen {
		minLen = maxLen
	}
	return SummaryBounds{MaxLen: maxLen, MinLen: minLen}
}
