package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thywilljoshua/pdf-qa/internal/ai"
	"github.com/thywilljoshua/pdf-qa/internal/config"
	"github.com/thywilljoshua/pdf-qa/internal/logger"
	"github.com/thywilljoshua/pdf-qa/internal/pipeline"
)

// flag name -> config key
var pipelineFlags = map[string]string{
	"ai":         "ai.provider",
	"model":      "ai.model",
	"base-url":   "ai.base_url",
	"timeout":    "ai.timeout",
	"max-tokens": "chunk.max_tokens",
	"overlap":    "chunk.overlap",
	"workers":    "pipeline.workers",
	"retries":    "retry.attempts",
	"log-level":  "log.level",
	"log-json":   "log.json",
	"addr":       "server.addr",
}

func addPipelineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("ai", config.ProviderOff, "AI provider: off|gemini|openai")
	f.String("model", "", "model name (provider default when empty)")
	f.String("base-url", "", "provider base URL (OpenAI-compatible servers, proxies)")
	f.Duration("timeout", 0, "timeout per model call (default 60s)")
	f.Int("max-tokens", 512, "maximum words per chunk")
	f.Int("overlap", 50, "words shared by consecutive chunks")
	f.Int("workers", 1, "chunks processed in parallel")
	f.Int("retries", 0, "retries per failed model call")
}

// loadConfig merges defaults, .env, the config file, PDFQA_* variables and
// the flags that were set explicitly, in increasing priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	v, err := config.New(path)
	if err != nil {
		return nil, err
	}
	var bindErr error
	cmd.Flags().VisitAll(func(fl *pflag.Flag) {
		key, ok := pipelineFlags[fl.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(key, fl)
	})
	if bindErr != nil {
		return nil, bindErr
	}
	return config.Decode(v)
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      cfg.Log.Level,
		JSON:       cfg.Log.JSON,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	})
}

func buildCapabilities(ctx context.Context, cfg config.AIConfig) (ai.Capabilities, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := ai.NewGemini(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model)
		if err != nil {
			return ai.Capabilities{}, fmt.Errorf("gemini: %w", err)
		}
		g.Timeout = cfg.Timeout
		return ai.FromProvider(g), nil
	case config.ProviderOpenAI:
		o, err := ai.NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model)
		if err != nil {
			return ai.Capabilities{}, fmt.Errorf("openai: %w", err)
		}
		o.Timeout = cfg.Timeout
		return ai.FromProvider(o), nil
	default:
		return ai.FromProvider(ai.Noop{}), nil
	}
}

func buildPipeline(ctx context.Context, cfg *config.Config, log logger.Logger) (*pipeline.Pipeline, error) {
	caps, err := buildCapabilities(ctx, cfg.AI)
	if err != nil {
		return nil, err
	}
	caps = ai.WithRetry(caps, ai.RetryPolicy{
		Attempts: uint64(cfg.Retry.Attempts), // validated non-negative
		Backoff:  cfg.Retry.Backoff,
	})
	if cfg.AI.Provider == config.ProviderOff {
		log.Warn("ai provider is off, every chunk will use fallback values")
	}
	return pipeline.New(pipeline.Config{
		Chunk:   cfg.Chunk.Options(),
		Workers: cfg.Pipeline.Workers,
	}, caps, log)
}
