package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type Source string

const (
	SourceManual Source = "manual"
	SourceUpload Source = "upload"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatPPTX Format = "pptx"
	FormatTXT  Format = "txt"
)

// SupportedFormats lists upload formats in the order the page advertises them.
func SupportedFormats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatPPTX, FormatTXT}
}

// FormatFromFilename resolves the format from the last extension of name.
func FormatFromFilename(name string) (Format, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(strings.TrimSpace(name))), ".")
	for _, f := range SupportedFormats() {
		if string(f) == ext {
			return f, true
		}
	}
	return "", false
}

// LabelReal is the classifier output treated as genuine news. Every other label is fake.
const LabelReal = 1

type Verdict string

const (
	VerdictReal Verdict = "real"
	VerdictFake Verdict = "fake"
)

func VerdictFromLabel(label int) Verdict {
	if label == LabelReal {
		return VerdictReal
	}
	return VerdictFake
}

// Document is the text pulled out of one uploaded file.
type Document struct {
	Filename string `json:"filename"`
	Format   Format `json:"format"`
	Size     int64  `json:"size"`
	Text     string `json:"text"`
}

// Analysis is the outcome of one detect action. It is never persisted.
type Analysis struct {
	Source         Source        `json:"source"`
	Format         Format        `json:"format,omitempty"`
	Filename       string        `json:"filename,omitempty"`
	AnalyzedText   string        `json:"analyzed_text"`
	NormalizedText string        `json:"normalized_text"`
	Label          int           `json:"label"`
	Verdict        Verdict       `json:"verdict"`
	Score          float64       `json:"score"`
	Duration       time.Duration `json:"duration"`
}

// SparseVector holds non-zero feature values ordered by column.
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

func (v SparseVector) Len() int {
	return len(v.Indices)
}

// Prediction is the raw classifier output for one feature vector.
type Prediction struct {
	Label int
	Score float64
}
