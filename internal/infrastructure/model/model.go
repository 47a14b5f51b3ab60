package model

import (
	"context"
	"fmt"

	"github.com/kirillkom/fake-news-detector/internal/core/domain"
)

// Model is the immutable vectorizer and classifier pair loaded at startup.
type Model struct {
	Vectorizer *TFIDFVectorizer
	Classifier *LinearClassifier
}

// Load reads and validates both artifacts. Any failure means the process must
// not start serving.
func Load(ctx context.Context, src *Source, vectorizerLocation, classifierLocation string) (*Model, error) {
	vectorizer, err := LoadVectorizer(ctx, src, vectorizerLocation)
	if err != nil {
		return nil, err
	}
	classifier, err := LoadClassifier(ctx, src, classifierLocation)
	if err != nil {
		return nil, err
	}

	if vectorizer.Dim() != classifier.Dim() {
		return nil, domain.WrapError(domain.ErrArtifactInvalid, "load model", fmt.Errorf(
			"vectorizer produces %d features, classifier expects %d", vectorizer.Dim(), classifier.Dim(),
		))
	}
	return &Model{Vectorizer: vectorizer, Classifier: classifier}, nil
}

func LoadVectorizer(ctx context.Context, src *Source, location string) (*TFIDFVectorizer, error) {
	raw, err := src.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	var artifact VectorizerArtifact
	if err := decodeArtifact(location, raw, &artifact); err != nil {
		return nil, domain.WrapError(domain.ErrArtifactInvalid, "load vectorizer", err)
	}
	vectorizer, err := NewTFIDFVectorizer(artifact)
	if err != nil {
		return nil, domain.WrapError(domain.ErrArtifactInvalid, "load vectorizer "+location, err)
	}
	return vectorizer, nil
}

func LoadClassifier(ctx context.Context, src *Source, location string) (*LinearClassifier, error) {
	raw, err := src.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	var artifact ClassifierArtifact
	if err := decodeArtifact(location, raw, &artifact); err != nil {
		return nil, domain.WrapError(domain.ErrArtifactInvalid, "load classifier", err)
	}
	classifier, err := NewLinearClassifier(artifact)
	if err != nil {
		return nil, domain.WrapError(domain.ErrArtifactInvalid, "load classifier "+location, err)
	}
	return classifier, nil
}
