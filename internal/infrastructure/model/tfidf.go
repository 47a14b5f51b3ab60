package model

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kirillkom/fake-news-detector/internal/core/domain"
)

const (
	normL1   = "l1"
	normL2   = "l2"
	normNone = "none"
)

// TFIDFVectorizer reproduces the transform of a fitted word-level TF-IDF
// vectorizer. It is immutable and safe for concurrent use.
type TFIDFVectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	dim         int
	ngramMin    int
	ngramMax    int
	tokenRE     *regexp.Regexp
	tokenGroup  bool
	stopWords   map[string]struct{}
	lowercase   bool
	binary      bool
	useIDF      bool
	sublinearTF bool
	norm        string
}

func NewTFIDFVectorizer(a VectorizerArtifact) (*TFIDFVectorizer, error) {
	if a.Kind != "" && a.Kind != KindTFIDF {
		return nil, fmt.Errorf("unsupported vectorizer kind %q", a.Kind)
	}
	if len(a.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer vocabulary is empty")
	}

	dim := len(a.Vocabulary)
	seen := make([]bool, dim)
	for term, idx := range a.Vocabulary {
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("vocabulary term %q has column %d outside [0,%d)", term, idx, dim)
		}
		if seen[idx] {
			return nil, fmt.Errorf("vocabulary column %d is assigned twice", idx)
		}
		seen[idx] = true
	}

	useIDF := a.UseIDF == nil || *a.UseIDF
	if useIDF {
		if len(a.IDF) != dim {
			return nil, fmt.Errorf("idf has %d weights, vocabulary has %d terms", len(a.IDF), dim)
		}
		for i, w := range a.IDF {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("idf weight %d is not finite", i)
			}
		}
	}

	ngramMin, ngramMax := 1, 1
	switch len(a.NgramRange) {
	case 0:
	case 2:
		ngramMin, ngramMax = a.NgramRange[0], a.NgramRange[1]
	default:
		return nil, fmt.Errorf("ngram_range must have two values, got %v", a.NgramRange)
	}
	if ngramMin < 1 || ngramMax < ngramMin {
		return nil, fmt.Errorf("invalid ngram_range [%d,%d]", ngramMin, ngramMax)
	}

	pattern := a.TokenPattern
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	tokenRE, err := regexp.Compile(strings.TrimPrefix(pattern, "(?u)"))
	if err != nil {
		return nil, fmt.Errorf("compile token pattern: %w", err)
	}
	if tokenRE.NumSubexp() > 1 {
		return nil, fmt.Errorf("token pattern %q has more than one capturing group", pattern)
	}

	norm := strings.ToLower(strings.TrimSpace(a.Norm))
	switch norm {
	case "":
		norm = normL2
	case "null":
		norm = normNone
	case normL1, normL2, normNone:
	default:
		return nil, fmt.Errorf("unsupported norm %q", a.Norm)
	}

	stopWords := make(map[string]struct{}, len(a.StopWords))
	for _, w := range a.StopWords {
		stopWords[w] = struct{}{}
	}

	return &TFIDFVectorizer{
		vocabulary:  a.Vocabulary,
		idf:         a.IDF,
		dim:         dim,
		ngramMin:    ngramMin,
		ngramMax:    ngramMax,
		tokenRE:     tokenRE,
		tokenGroup:  tokenRE.NumSubexp() == 1,
		stopWords:   stopWords,
		lowercase:   a.Lowercase == nil || *a.Lowercase,
		binary:      a.Binary,
		useIDF:      useIDF,
		sublinearTF: a.SublinearTF,
		norm:        norm,
	}, nil
}

func (v *TFIDFVectorizer) Dim() int {
	return v.dim
}

func (v *TFIDFVectorizer) Transform(text string) domain.SparseVector {
	counts := make(map[int]float64, 32)
	for _, term := range v.terms(text) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return domain.SparseVector{Dim: v.dim}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		tf := counts[idx]
		switch {
		case v.binary:
			tf = 1
		case v.sublinearTF:
			tf = 1 + math.Log(tf)
		}
		if v.useIDF {
			tf *= v.idf[idx]
		}
		values[i] = tf
	}
	normalize(values, v.norm)

	return domain.SparseVector{Dim: v.dim, Indices: indices, Values: values}
}

// terms tokenizes text, drops stop words and expands word n-grams.
func (v *TFIDFVectorizer) terms(text string) []string {
	if v.lowercase {
		text = strings.ToLower(text)
	}

	var tokens []string
	if v.tokenGroup {
		for _, m := range v.tokenRE.FindAllStringSubmatch(text, -1) {
			tokens = append(tokens, m[1])
		}
	} else {
		tokens = v.tokenRE.FindAllString(text, -1)
	}

	if len(v.stopWords) > 0 {
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, stop := v.stopWords[tok]; !stop {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	if v.ngramMax == 1 {
		return tokens
	}

	out := make([]string, 0, len(tokens)*(v.ngramMax-v.ngramMin+1))
	for n := v.ngramMin; n <= v.ngramMax && n <= len(tokens); n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func normalize(values []float64, norm string) {
	var total float64
	switch norm {
	case normL2:
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case normL1:
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
