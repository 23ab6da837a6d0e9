package pipeline

import "strings"

// Aggregate builds the document result. The overall summary joins, in chunk
// order, every chunk summary that is not the fallback.
func Aggregate(results []ChunkResult) DocumentResult {
	var summaries []string
	for _, r := range results {
		if r.Summary != SummaryFallback {
			summaries = append(summaries, r.Summary)
		}
	}
	summary := OverallSummaryFallback
	if len(summaries) > 0 {
		summary = strings.Join(summaries, "\n\n")
	}
	if results == nil {
		results = []ChunkResult{}
	}
	return DocumentResult{Summary: summary, Chunks: results}
}
