package ports

import (
	"context"
	"io"

	"github.com/kirillkom/fake-news-detector/internal/core/domain"
)

// TextExtractor turns one uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, format domain.Format, body io.Reader) (string, error)
}

// TextNormalizer reduces raw text to lower-case letters and single spaces.
type TextNormalizer interface {
	Normalize(text string) string
}

// Vectorizer maps normalized text onto the frozen feature space.
type Vectorizer interface {
	Transform(text string) domain.SparseVector
	Dim() int
}

// Classifier predicts a label for a feature vector.
type Classifier interface {
	Predict(vec domain.SparseVector) (domain.Prediction, error)
}

// AnalysisRecorder receives detection outcomes for observability.
type AnalysisRecorder interface {
	RecordAnalysis(source domain.Source, verdict domain.Verdict, seconds float64)
	RecordRejected(reason string)
	RecordExtraction(format domain.Format, err error)
}
