package ai

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy retries failed capability calls with exponential backoff.
// Attempts is the number of retries after the first call; zero disables
// retrying.
type RetryPolicy struct {
	Attempts uint64
	Backoff  time.Duration
	MaxDelay time.Duration
}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.Backoff
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	b := retry.NewExponential(base)
	if p.MaxDelay > 0 {
		b = retry.WithCappedDuration(p.MaxDelay, b)
	}
	return retry.WithMaxRetries(p.Attempts, retry.WithJitterPercent(10, b))
}

func isRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrDisabled),
		errors.Is(err, errZeroLength),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

func (p RetryPolicy) do(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if isRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

// WithRetry wraps every capability in caps with p. A call that still fails
// after the last retry reports its final error.
func WithRetry(caps Capabilities, p RetryPolicy) Capabilities {
	if p.Attempts == 0 {
		return caps
	}
	return Capabilities{
		Summarizer:        retrySummarizer{next: caps.Summarizer, policy: p},
		QuestionGenerator: retryQuestionGenerator{next: caps.QuestionGenerator, policy: p},
		QuestionAnswerer:  retryQuestionAnswerer{next: caps.QuestionAnswerer, policy: p},
	}
}

type retrySummarizer struct {
	next   Summarizer
	policy RetryPolicy
}

func (r retrySummarizer) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	var out string
	err := r.policy.do(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.Summarize(ctx, text, maxLen, minLen)
		return err
	})
	return out, err
}

type retryQuestionGenerator struct {
	next   QuestionGenerator
	policy RetryPolicy
}

func (r retryQuestionGenerator) GenerateQuestions(ctx context.Context, prompt string) ([]Generation, error) {
	var out []Generation
	err := r.policy.do(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.GenerateQuestions(ctx, prompt)
		return err
	})
	return out, err
}

type retryQuestionAnswerer struct {
	next   QuestionAnswerer
	policy RetryPolicy
}

func (r retryQuestionAnswerer) Answer(ctx context.Context, question, passage string) (string, bool, error) {
	var (
		out   string
		found bool
	)
	err := r.policy.do(ctx, func(ctx context.Context) error {
		var err error
		out, found, err = r.next.Answer(ctx, question, passage)
		return err
	})
	return out, found, err
}
