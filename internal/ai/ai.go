package ai

import (
	"context"
	"errors"
)

// ErrDisabled is returned by every Noop capability.
var ErrDisabled = errors.New("ai provider disabled")

// Generation is one record produced by a question generator.
type Generation struct {
	Text string `json:"generated_text"`
}

type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error)
}

type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, prompt string) ([]Generation, error)
}

// QuestionAnswerer reports found=false when the passage holds no answer.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question, passage string) (answer string, found bool, err error)
}

// Capabilities bundles the three inference capabilities a pipeline needs.
// Construct it once and reuse it across runs.
type Capabilities struct {
	Summarizer        Summarizer
	QuestionGenerator QuestionGenerator
	QuestionAnswerer  QuestionAnswerer
}

// Complete reports whether every capability is set.
func (c Capabilities) Complete() bool {
	return c.Summarizer != nil && c.QuestionGenerator != nil && c.QuestionAnswerer != nil
}

// Provider implements all three capabilities with a single backend.
type Provider interface {
	Summarizer
	QuestionGenerator
	QuestionAnswerer
}

// FromProvider uses p for every capability.
func FromProvider(p Provider) Capabilities {
	return Capabilities{Summarizer: p, QuestionGenerator: p, QuestionAnswerer: p}
}

type Noop struct{}

func (Noop) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	return "", ErrDisabled
}
func (Noop) GenerateQuestions(ctx context.Context, prompt string) ([]Generation, error) {
	return nil, ErrDisabled
}
func (Noop) Answer(ctx context.Context, question, passage string) (string, bool, error) {
	return "", false, ErrDisabled
}
