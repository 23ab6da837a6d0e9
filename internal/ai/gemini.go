package ai

import (
	"context"
	"errors"
	"time"

	genai "google.golang.org/genai"
)

type Gemini struct {
	client  *genai.Client
	model   string
	Timeout time.Duration
}

// NewGemini connects to the Gemini API. baseURL is empty except for proxies
// and tests.
func NewGemini(ctx context.Context, apiKey, baseURL, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: model}, nil
}

func (g *Gemini) prompt(ctx context.Context, text string) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini not configured")
	}
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

func (g *Gemini) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	p, err := summaryPrompt(text, maxLen, minLen)
	if err != nil {
		return "", err
	}
	out, err := g.prompt(ctx, p)
	if err != nil {
		return "", err
	}
	return parseSummary(out)
}

func (g *Gemini) GenerateQuestions(ctx context.Context, prompt string) ([]Generation, error) {
	out, err := g.prompt(ctx, questionsPrompt(prompt))
	if err != nil {
		return nil, err
	}
	return parseQuestions(out), nil
}

func (g *Gemini) Answer(ctx context.Context, question, passage string) (string, bool, error) {
	out, err := g.prompt(ctx, answerPrompt(question, passage))
	if err != nil {
		return "", false, err
	}
	ans, ok := parseAnswer(out)
	return ans, ok, nil
}
