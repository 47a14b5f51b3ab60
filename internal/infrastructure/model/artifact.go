// Package model loads the frozen text vectorizer and linear classifier and
// evaluates them. Artifacts are JSON or YAML exports of the trained objects.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	KindTFIDF  = "tfidf"
	KindRidge  = "ridge"
	KindLinear = "linear"

	DefaultTokenPattern = `(?u)\b\w\w+\b`
)

// VectorizerArtifact mirrors the fitted state of a TF-IDF vectorizer.
type VectorizerArtifact struct {
	Kind         string         `json:"kind" yaml:"kind"`
	Vocabulary   map[string]int `json:"vocabulary" yaml:"vocabulary"`
	IDF          []float64      `json:"idf" yaml:"idf"`
	NgramRange   []int          `json:"ngram_range" yaml:"ngram_range"`
	TokenPattern string         `json:"token_pattern" yaml:"token_pattern"`
	StopWords    []string       `json:"stop_words" yaml:"stop_words"`
	Lowercase    *bool          `json:"lowercase" yaml:"lowercase"`
	Binary       bool           `json:"binary" yaml:"binary"`
	UseIDF       *bool          `json:"use_idf" yaml:"use_idf"`
	SublinearTF  bool           `json:"sublinear_tf" yaml:"sublinear_tf"`
	Norm         string         `json:"norm" yaml:"norm"`
}

// ClassifierArtifact mirrors the fitted state of a linear classifier.
type ClassifierArtifact struct {
	Kind      string      `json:"kind" yaml:"kind"`
	Coef      [][]float64 `json:"coef" yaml:"coef"`
	Intercept []float64   `json:"intercept" yaml:"intercept"`
	Classes   []int       `json:"classes" yaml:"classes"`
}

// decodeArtifact picks YAML for .yaml/.yml locations and JSON otherwise.
func decodeArtifact(location string, raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("artifact %s is empty", location)
	}

	switch artifactExt(location) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode yaml artifact %s: %w", location, err)
		}
	default:
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode json artifact %s: %w", location, err)
		}
	}
	return nil
}

func artifactExt(location string) string {
	p := location
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}
