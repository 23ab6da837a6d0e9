package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/thywilljoshua/pdf-qa/internal/ai"
)

var errModel = errors.New("model failure")

// scripted is a deterministic stand-in for all three capabilities.
type scripted struct {
	mu sync.Mutex

	summarizeErr error
	summarize    func(text string, maxLen, minLen int) string
	questionsErr error
	questions    func(prompt string) []ai.Generation
	answer       func(question, passage string) (string, bool, error)
	panicOn      string

	summarizeCalls []summarizeCall
	prompts        []string
}

type summarizeCall struct {
	words          int
	maxLen, minLen int
}

func (s *scripted) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	s.mu.Lock()
	s.summarizeCalls = append(s.summarizeCalls, summarizeCall{words: len(strings.Fields(text)), maxLen: maxLen, minLen: minLen})
	s.mu.Unlock()
	if s.panicOn == "summarize" {
		panic("summarizer exploded")
	}
	if s.summarizeErr != nil {
		return "", s.summarizeErr
	}
	if s.summarize != nil {
		return s.summarize(text, maxLen, minLen), nil
	}
	return "summary of " + strings.Fields(text)[0], nil
}

func (s *scripted) GenerateQuestions(ctx context.Context, prompt string) ([]ai.Generation, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.panicOn == "questions" {
		panic("generator exploded")
	}
	if s.questionsErr != nil {
		return nil, s.questionsErr
	}
	if s.questions != nil {
		return s.questions(prompt), nil
	}
	return gens("What is this?", "Who wrote it?"), nil
}

func (s *scripted) Answer(ctx context.Context, question, passage string) (string, bool, error) {
	if s.panicOn == "answer" {
		panic("answerer exploded")
	}
	if s.answer != nil {
		return s.answer(question, passage)
	}
	return "answer to " + question, true, nil
}

func (s *scripted) caps() ai.Capabilities { return ai.FromProvider(s) }

func gens(texts ...string) []ai.Generation {
	out := make([]ai.Generation, len(texts))
	for i, t := range texts {
		out[i] = ai.Generation{Text: t}
	}
	return out
}

func words(n int, prefix string) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(w, " ")
}

type staticExtractor struct {
	text string
	err  error
}

func (s staticExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	return s.text, s.err
}
