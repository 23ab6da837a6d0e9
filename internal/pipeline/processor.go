package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/thywilljoshua/pdf-qa/internal/ai"
	"github.com/thywilljoshua/pdf-qa/internal/chunk"
	"github.com/thywilljoshua/pdf-qa/internal/logger"
)

// Processor runs summarize, question generation and question answering over
// one chunk. A failing stage is replaced by its fallback and never stops the
// other stages.
type Processor struct {
	caps ai.Capabilities
	log  logger.Logger
}

func NewProcessor(caps ai.Capabilities, log logger.Logger) *Processor {
	if log == nil {
		log = logger.Discard()
	}
	return &Processor{caps: caps, log: log}
}

func (p *Processor) Process(ctx context.Context, c chunk.Chunk) ChunkResult {
	log := p.log.With("chunk", c.Index)
	text := c.Text()

	summary, err := p.summarize(ctx, text, c.WordCount())
	if err != nil {
		log.Warn("summary generation failed", "err", err)
		summary = SummaryFallback
	}

	questions, err := p.generateQuestions(ctx, text)
	if err != nil {
		log.Warn("question generation failed", "err", err)
		questions = []string{}
	}

	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		ans, err := p.answer(ctx, q, text)
		if err != nil {
			log.Warn("answer generation failed", "question", q, "err", err)
			ans = AnswerFallback
		}
		answers[q] = ans
	}

	return ChunkResult{Summary: summary, Questions: questions, Answers: answers}
}

func (p *Processor) summarize(ctx context.Context, text string, words int) (out string, err error) {
	defer recoverStage("summarize", &err)
	b := Bounds(words)
	return p.caps.Summarizer.Summarize(ctx, text, b.MaxLen, b.MinLen)
}

func (p *Processor) generateQuestions(ctx context.Context, text string) (out []string, err error) {
	defer recoverStage("generate questions", &err)
	gens, err := p.caps.QuestionGenerator.GenerateQuestions(ctx, QuestionPromptPrefix+text)
	if err != nil {
		return nil, err
	}
	return distinctQuestions(gens, MaxQuestions), nil
}

// answer never reports "not found" as an error; it maps it to AnswerFallback.
func (p *Processor) answer(ctx context.Context, question, text string) (out string, err error) {
	defer recoverStage("answer", &err)
	ans, found, err := p.caps.QuestionAnswerer.Answer(ctx, question, text)
	if err != nil {
		return "", err
	}
	if !found {
		return AnswerFallback, nil
	}
	return ans, nil
}

// distinctQuestions keeps the first occurrence of each question, in order,
// and stops at limit. Questions are trimmed before comparison, so the answer
// keys are the trimmed text and blank generations are dropped.
func distinctQuestions(gens []ai.Generation, limit int) []string {
	out := make([]string, 0, min(len(gens), limit))
	seen := make(map[string]struct{}, len(gens))
	for _, g := range gens {
		if len(out) == limit {
			break
		}
		q := strings.TrimSpace(g.Text)
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

func recoverStage(stage string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s panicked: %v", stage, r)
	}
}
