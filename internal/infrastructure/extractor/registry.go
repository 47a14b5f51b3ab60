// Package extractor dispatches uploaded documents to the per-format text extractors.
package extractor

import (
	"context"
	"fmt"
	"io"

	"github.com/kirillkom/fake-news-detector/internal/core/domain"
	"github.com/kirillkom/fake-news-detector/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/fake-news-detector/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/fake-news-detector/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/fake-news-detector/internal/infrastructure/extractor/pptx"
)

// FormatExtractor reads one document format.
type FormatExtractor interface {
	Extract(ctx context.Context, body io.Reader) (string, error)
}

type Registry struct {
	extractors map[domain.Format]FormatExtractor
}

func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[domain.Format]FormatExtractor, 4)}
	r.Register(domain.FormatPDF, pdf.NewExtractor())
	r.Register(domain.FormatDOCX, docx.NewExtractor())
	r.Register(domain.FormatPPTX, pptx.NewExtractor())
	r.Register(domain.FormatTXT, plaintext.NewExtractor())
	return r
}

func (r *Registry) Register(format domain.Format, e FormatExtractor) {
	r.extractors[format] = e
}

func (r *Registry) Extract(ctx context.Context, format domain.Format, body io.Reader) (string, error) {
	e, ok := r.extractors[format]
	if !ok {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract", fmt.Errorf("format %q", format))
	}
	text, err := e.Extract(ctx, body)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract "+string(format), err)
	}
	return text, nil
}
