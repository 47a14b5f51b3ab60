package model

import (
	"math"
	"testing"
)

func boolPtr(v bool) *bool { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTransformWeightsCountsByIDFAndNormalizes(t *testing.T) {
	v, err := NewTFIDFVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"moon": 0, "cheese": 1, "made": 2},
		IDF:        []float64{1, 2, 1},
	})
	if err != nil {
		t.Fatalf("NewTFIDFVectorizer() error = %v", err)
	}

	vec := v.Transform("the moon is made of cheese cheese")
	if vec.Dim != 3 {
		t.Fatalf("expected dim 3, got %d", vec.Dim)
	}
	if len(vec.Indices) != 3 || vec.Indices[0] != 0 || vec.Indices[1] != 1 || vec.Indices[2] != 2 {
		t.Fatalf("unexpected indices: %v", vec.Indices)
	}
	norm := math.Sqrt(18)
	want := []float64{1 / norm, 4 / norm, 1 / norm}
	for i := range want {
		if !almostEqual(vec.Values[i], want[i]) {
			t.Fatalf("value %d: expected %f, got %f", i, want[i], vec.Values[i])
		}
	}
}

func TestTransformDropsSingleCharacterTokens(t *testing.T) {
	v, err := NewTFIDFVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"a": 0, "moon": 1},
		IDF:        []float64{1, 1},
	})
	if err != nil {
		t.Fatalf("NewTFIDFVectorizer() error = %v", err)
	}
	vec := v.Transform("a b moon")
	if len(vec.Indices) != 1 || vec.Indices[0] != 1 {
		t.Fatalf("expected only moon to be counted, got %v", vec.Indices)
	}
	if !almostEqual(vec.Values[0], 1) {
		t.Fatalf("expected unit weight, got %f", vec.Values[0])
	}
}

func TestTransformBuildsNgrams(t *testing.T) {
	v, err := NewTFIDFVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"fake": 0, "news": 1, "fake news": 2},
		NgramRange: []int{1, 2},
		UseIDF:     boolPtr(false),
		Norm:       "none",
	})
	if err != nil {
		t.Fatalf("NewTFIDFVectorizer() error = %v", err)
	}
	vec := v.Transform("fake news is fake")
	want := []float64{2, 1, 1}
	if len(vec.Values) != len(want) {
		t.Fatalf("expected %d values, got %v", len(want), vec.Values)
	}
	for i := range want {
		if vec.Values[i] != want[i] {
			t.Fatalf("value %d: expected %f, got %f", i, want[i], vec.Values[i])
		}
	}
}

func TestTransformBigramOnlyRange(t *testing.T) {
	v, err := NewTFIDFVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"fake": 0, "fake news": 1},
		NgramRange: []int{2, 2},
		UseIDF:     boolPtr(false),
		Norm:       "none",
	})
	if err != nil {
		t.Fatalf("NewTFIDFVectorizer() error = %v", err)
	}
	vec := v.Transform("fake news")
	if len(vec.Indices) != 1 || vec.Indices[0] != 1 {
		t.Fatalf("expected only the bigram column, got %v", vec.Indices)
	}
}

func TestTransformSublinearAndBinary(t *testing.T) {
	sub, err := NewTFIDFVectorizer(VectorizerArtifact{
		Vocabulary:  map[string]int{"hoax": 0},
		UseIDF:      boolPtr(false),
		SublinearTF: true,
		Norm:        "none",
	})
	if err != nil {
		t.Fatalf("NewTFIDFVectorizer() error = %v", err)
	}
	if got := sub.Transform("hoax hoax hoax").Values[0]; !almostEqual(got, 1+math.Log(3)) {
		t.Fatalf("expected sublinear tf %f, got %f", 1+math.Log(3), got)
	}

	bin, err := NewTFIDFVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"hoax": 0},
		IDF:        []float64{2.5},
		Binary:     true,
		Norm:       "none",
	})
	if err != nil {
		t.Fatalf("NewTFIDFVectorizer() error = %v", err)
	}
	if got := bin.Transform("hoax hoax hoax").Values[0]; !almostEqual(got, 2.5) {
		t.Fatalf("expected binary tf times idf 2.5, got %f", got)
	}
}

func TestTransformL1Norm(t *testing.T) {
	v, err := NewTFIDFVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"one": 0, "two": 1},
		IDF:        []float64{1, 3},
		Norm:       "l1",
	})
	if err != nil {
		t.Fatalf("NewTFIDFVectorizer() error = %v", err)
	}
	vec := v.Transform("one two")
	if !almostEqual(vec.Values[0], 0.25) || !almostEqual(vec.Values[1], 0.75) {
		t.Fatalf("unexpected l1 values: %v", vec.Values)
	}
}

func TestTransformRemovesStopWords(t *testing.T) {
	v, err := NewTFIDFVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"the": 0, "moon": 1, "the moon": 2},
		IDF:        []float64{1, 1, 1},
		NgramRange: []int{1, 2},
		StopWords:  []string{"the"},
	})
	if err != nil {
		t.Fatalf("NewTFIDFVectorizer() error = %v", err)
	}
	vec := v.Transform("the moon")
	if len(vec.Indices) != 1 || vec.Indices[0] != 1 {
		t.Fatalf("expected only moon after stop word removal, got %v", vec.Indices)
	}
}

func TestTransformEmptyAndUnknownText(t *testing.T) {
	v, err := NewTFIDFVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"moon": 0},
		IDF:        []float64{1},
	})
	if err != nil {
		t.Fatalf("NewTFIDFVectorizer() error = %v", err)
	}
	for _, text := range []string{"", "completely unrelated words"} {
		vec := v.Transform(text)
		if vec.Dim != 1 || vec.Len() != 0 {
			t.Fatalf("expected empty vector of dim 1 for %q, got %+v", text, vec)
		}
	}
}

func TestTransformIsDeterministic(t *testing.T) {
	v, err := NewTFIDFVectorizer(VectorizerArtifact{
		Vocabulary: map[string]int{"scientists": 0, "confirm": 1, "earth": 2, "flat": 3, "the": 4, "is": 5},
		IDF:        []float64{1.5, 1.2, 1.1, 2.0, 1.0, 1.0},
	})
	if err != nil {
		t.Fatalf("NewTFIDFVectorizer() error = %v", err)
	}
	a := v.Transform("scientists confirm the earth is flat")
	b := v.Transform("scientists confirm the earth is flat")
	if len(a.Indices) != 6 || len(a.Indices) != len(b.Indices) {
		t.Fatalf("unexpected vector sizes: %d vs %d", len(a.Indices), len(b.Indices))
	}
	for i := range a.Indices {
		if a.Indices[i] != b.Indices[i] || a.Values[i] != b.Values[i] {
			t.Fatalf("vectors differ at %d", i)
		}
	}
}

func TestNewTFIDFVectorizerRejectsInvalidArtifacts(t *testing.T) {
	cases := map[string]VectorizerArtifact{
		"empty vocabulary": {},
		"wrong kind":       {Kind: "count", Vocabulary: map[string]int{"a": 0}, IDF: []float64{1}},
		"idf mismatch":     {Vocabulary: map[string]int{"aa": 0, "bb": 1}, IDF: []float64{1}},
		"column range":     {Vocabulary: map[string]int{"aa": 0, "bb": 5}, IDF: []float64{1, 1}},
		"duplicate column": {Vocabulary: map[string]int{"aa": 0, "bb": 0}, IDF: []float64{1, 1}},
		"bad norm":         {Vocabulary: map[string]int{"aa": 0}, IDF: []float64{1}, Norm: "max"},
		"bad ngram":        {Vocabulary: map[string]int{"aa": 0}, IDF: []float64{1}, NgramRange: []int{2, 1}},
		"bad pattern":      {Vocabulary: map[string]int{"aa": 0}, IDF: []float64{1}, TokenPattern: "("},
		"two groups":       {Vocabulary: map[string]int{"aa": 0}, IDF: []float64{1}, TokenPattern: `(\w)(\w)`},
		"nan idf":          {Vocabulary: map[string]int{"aa": 0}, IDF: []float64{math.NaN()}},
	}
	for name, artifact := range cases {
		if _, err := NewTFIDFVectorizer(artifact); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
