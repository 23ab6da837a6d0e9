package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thywilljoshua/pdf-qa/internal/ai"
	"github.com/thywilljoshua/pdf-qa/internal/chunk"
	"github.com/thywilljoshua/pdf-qa/internal/logger"
)

// Pipeline is built once with its capabilities and reused across documents.
// It is safe for concurrent use when the capabilities are.
type Pipeline struct {
	cfg       Config
	extractor Extractor
	processor *Processor
	log       logger.Logger
}

type Option func(*Pipeline)

// WithExtractor replaces the default PDF extractor chain.
func WithExtractor(e Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

func New(cfg Config, caps ai.Capabilities, log logger.Logger, opts ...Option) (*Pipeline, error) {
	if err := cfg.Chunk.Validate(); err != nil {
		return nil, err
	}
	if !caps.Complete() {
		return nil, errors.New("pipeline needs a summarizer, a question generator and a question answerer")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if log == nil {
		log = logger.Discard()
	}
	p := &Pipeline{
		cfg:       cfg,
		extractor: DefaultExtractor(),
		processor: NewProcessor(caps, log),
		log:       log,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

func (p *Pipeline) RunFile(ctx context.Context, path string) (DocumentResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DocumentResult{}, err
	}
	return p.Run(ctx, data)
}

// Run extracts the text of a PDF and processes it. An extraction failure is
// reported as ErrNoText.
func (p *Pipeline) Run(ctx context.Context, data []byte) (DocumentResult, error) {
	raw, err := p.extractor.ExtractText(ctx, data)
	if err != nil {
		if ctx.Err() != nil {
			return DocumentResult{}, ctx.Err()
		}
		p.log.Error("failed to extract text from PDF", "err", err)
		return DocumentResult{}, fmt.Errorf("%w: %v", ErrNoText, err)
	}
	return p.RunText(ctx, raw)
}

// RunText processes already extracted text.
func (p *Pipeline) RunText(ctx context.Context, raw string) (DocumentResult, error) {
	text := chunk.Normalize(raw)
	if text == "" {
		return DocumentResult{}, ErrNoText
	}
	chunks, err := chunk.Split(text, p.cfg.Chunk)
	if err != nil {
		return DocumentResult{}, err
	}
	if len(chunks) == 0 {
		return DocumentResult{}, ErrNoText
	}

	start := time.Now()
	p.log.Info("processing document", "chunks", len(chunks), "workers", p.cfg.Workers)

	results := make([]ChunkResult, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, c := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.processor.Process(gctx, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DocumentResult{}, err
	}
	// capability errors are swallowed per stage, so a cancelled run can
	// finish with nothing but fallbacks
	if err := ctx.Err(); err != nil {
		return DocumentResult{}, err
	}

	p.log.Info("document processed", "chunks", len(chunks), "elapsed", time.Since(start).Round(time.Millisecond))
	return Aggregate(results), nil
}
