package ai

import (
	"context"
	"errors"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client  *openai.Client
	model   string
	Timeout time.Duration
}

func NewOpenAI(apiKey, baseURL, model string) (*OpenAI, error) {
	if apiKey == "" && baseURL == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		// local servers such as llama.cpp or vLLM
		config.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(config), model: model}, nil
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	p, err := summaryPrompt(text, maxLen, minLen)
	if err != nil {
		return "", err
	}
	out, err := o.complete(ctx, p)
	if err != nil {
		return "", err
	}
	return parseSummary(out)
}

func (o *OpenAI) GenerateQuestions(ctx context.Context, prompt string) ([]Generation, error) {
	out, err := o.complete(ctx, questionsPrompt(prompt))
	if err != nil {
		return nil, err
	}
	return parseQuestions(out), nil
}

func (o *OpenAI) Answer(ctx context.Context, question, passage string) (string, bool, error) {
	out, err := o.complete(ctx, answerPrompt(question, passage))
	if err != nil {
		return "", false, err
	}
	ans, ok := parseAnswer(out)
	return ans, ok, nil
}
