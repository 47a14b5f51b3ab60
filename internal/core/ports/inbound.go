package ports

import (
	"context"
	"io"

	"github.com/kirillkom/fake-news-detector/internal/core/domain"
)

// NewsDetector is the inbound contract behind the interactive page.
type NewsDetector interface {
	ComposeManualText(title, body string) string
	ExtractUpload(ctx context.Context, filename string, size int64, body io.Reader) (*domain.Document, error)
	Analyze(ctx context.Context, input AnalyzeInput) (*domain.Analysis, error)
}

// AnalyzeInput carries the raw text plus where it came from.
type AnalyzeInput struct {
	Source   domain.Source
	Text     string
	Filename string
	Format   domain.Format
}
