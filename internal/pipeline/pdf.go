package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	rpdf "rsc.io/pdf"
)

// Extractor turns PDF bytes into page-ordered text, pages joined by "\n".
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// ContentExtractor rebuilds page text from positioned text runs.
type ContentExtractor struct{}

func (ContentExtractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	// rsc.io/pdf panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()
	doc, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		if pt := pageText(p.Content().Text); pt != "" {
			b.WriteString(pt)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func pageText(runs []rpdf.Text) string {
	var b strings.Builder
	for i, t := range runs {
		if i > 0 {
			prev := runs[i-1]
			size := math.Max(t.FontSize, 1)
			switch {
			case math.Abs(t.Y-prev.Y) > size*0.5:
				b.WriteByte('\n')
			case t.X-(prev.X+prev.W) > size*0.15:
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return strings.TrimSpace(b.String())
}

// PlainTextExtractor uses the plain-text reader of ledongthuc/pdf.
type PlainTextExtractor struct{}

func (PlainTextExtractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf plain text: %v", r)
		}
	}()
	doc, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf plain text: %w", err)
	}
	rd, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf plain text: %w", err)
	}
	out, err := io.ReadAll(rd)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ChainExtractor returns the first non-blank result of its extractors.
type ChainExtractor []Extractor

func DefaultExtractor() Extractor {
	return ChainExtractor{ContentExtractor{}, PlainTextExtractor{}}
}

func (c ChainExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	var errs []error
	for _, e := range c {
		text, err := e.ExtractText(ctx, data)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	return "", errors.Join(errs...)
}
