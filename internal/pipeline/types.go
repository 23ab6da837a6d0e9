package pipeline

import (
	"errors"

	"github.com/thywilljoshua/pdf-qa/internal/chunk"
)

const (
	SummaryFallback        = "Summary not available."
	OverallSummaryFallback = "Overall summary not available due to processing issues."
	AnswerFallback         = "No answer found"
	QuestionPromptPrefix   = "generate questions: "
	MaxQuestions           = 3
)

// ErrNoText is the fatal input error: the document produced no extractable text.
var ErrNoText = errors.New("PDF contains no extractable text")

type ChunkResult struct {
	Summary   string            `json:"summary"`
	Questions []string          `json:"questions"`
	Answers   map[string]string `json:"answers"`
}

type DocumentResult struct {
	Summary string        `json:"summary"`
	Chunks  []ChunkResult `json:"chunks"`
}

// ErrorResult is the only other shape ever written to the output channel.
type ErrorResult struct {
	Error string `json:"error"`
}

type Config struct {
	Chunk   chunk.Options
	Workers int
}

func DefaultConfig() Config {
	return Config{Chunk: chunk.DefaultOptions(), Workers: 1}
}
