package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/fake-news-detector/internal/core/domain"
	"github.com/kirillkom/fake-news-detector/internal/core/ports"
)

const DefaultMaxUploadBytes int64 = 20 << 20

const (
	rejectEmptyText         = "empty_text"
	rejectUnsupportedFormat = "unsupported_format"
	rejectUploadTooLarge    = "upload_too_large"
	rejectExtractionFailed  = "extraction_failed"
)

type DetectNewsUseCase struct {
	extractor      ports.TextExtractor
	normalizer     ports.TextNormalizer
	vectorizer     ports.Vectorizer
	classifier     ports.Classifier
	recorder       ports.AnalysisRecorder
	logger         *slog.Logger
	maxUploadBytes int64
	now            func() time.Time
}

func NewDetectNewsUseCase(
	extractor ports.TextExtractor,
	normalizer ports.TextNormalizer,
	vectorizer ports.Vectorizer,
	classifier ports.Classifier,
	recorder ports.AnalysisRecorder,
	logger *slog.Logger,
	maxUploadBytes int64,
) *DetectNewsUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &DetectNewsUseCase{
		extractor:      extractor,
		normalizer:     normalizer,
		vectorizer:     vectorizer,
		classifier:     classifier,
		recorder:       recorder,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// ComposeManualText joins title and body with one space. Either field being
// empty yields no text at all.
func (uc *DetectNewsUseCase) ComposeManualText(title, body string) string {
	if title == "" || body == "" {
		return ""
	}
	return title + " " + body
}

func (uc *DetectNewsUseCase) ExtractUpload(
	ctx context.Context,
	filename string,
	size int64,
	body io.Reader,
) (*domain.Document, error) {
	format, ok := domain.FormatFromFilename(filename)
	if !ok {
		uc.recorder.RecordRejected(rejectUnsupportedFormat)
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "extract upload", fmt.Errorf("file %q", filename))
	}
	if body == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract upload", fmt.Errorf("file %q has no body", filename))
	}
	if size > uc.maxUploadBytes {
		uc.recorder.RecordRejected(rejectUploadTooLarge)
		return nil, uc.tooLarge(filename)
	}

	raw, err := io.ReadAll(io.LimitReader(body, uc.maxUploadBytes+1))
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
	}
	if int64(len(raw)) > uc.maxUploadBytes {
		uc.recorder.RecordRejected(rejectUploadTooLarge)
		return nil, uc.tooLarge(filename)
	}

	text, err := uc.extractor.Extract(ctx, format, bytes.NewReader(raw))
	uc.recorder.RecordExtraction(format, err)
	if err != nil {
		uc.recorder.RecordRejected(rejectExtractionFailed)
		uc.logger.Warn("extraction_failed",
			"filename", filename,
			"format", string(format),
			"size_bytes", len(raw),
			"error", err,
		)
		return nil, err
	}

	return &domain.Document{
		Filename: filename,
		Format:   format,
		Size:     int64(len(raw)),
		Text:     text,
	}, nil
}

func (uc *DetectNewsUseCase) Analyze(ctx context.Context, input ports.AnalyzeInput) (*domain.Analysis, error) {
	if strings.TrimSpace(input.Text) == "" {
		uc.recorder.RecordRejected(rejectEmptyText)
		return nil, domain.ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := uc.now()
	normalized := uc.normalizer.Normalize(input.Text)
	vec := uc.vectorizer.Transform(normalized)
	prediction, err := uc.classifier.Predict(vec)
	if err != nil {
		return nil, fmt.Errorf("classify text: %w", err)
	}
	elapsed := uc.now().Sub(started)

	verdict := domain.VerdictFromLabel(prediction.Label)
	uc.recorder.RecordAnalysis(input.Source, verdict, elapsed.Seconds())
	uc.logger.Info("analysis_completed",
		"source", string(input.Source),
		"format", string(input.Format),
		"verdict", string(verdict),
		"label", prediction.Label,
		"score", prediction.Score,
		"features", vec.Len(),
		"duration_ms", float64(elapsed.Microseconds())/1000.0,
	)

	return &domain.Analysis{
		Source:         input.Source,
		Format:         input.Format,
		Filename:       input.Filename,
		AnalyzedText:   input.Text,
		NormalizedText: normalized,
		Label:          prediction.Label,
		Verdict:        verdict,
		Score:          prediction.Score,
		Duration:       elapsed,
	}, nil
}

func (uc *DetectNewsUseCase) tooLarge(filename string) error {
	return domain.WrapError(domain.ErrUploadTooLarge, "extract upload",
		fmt.Errorf("file %q exceeds %d bytes", filename, uc.maxUploadBytes))
}

type nopRecorder struct{}

func (nopRecorder) RecordAnalysis(domain.Source, domain.Verdict, float64) {}
func (nopRecorder) RecordRejected(string)                                 {}
func (nopRecorder) RecordExtraction(domain.Format, error)                 {}
