package model

import (
	"fmt"
	"math"

	"github.com/kirillkom/fake-news-detector/internal/core/domain"
)

// LinearClassifier evaluates a fitted linear decision function. One coefficient
// row means a binary model whose positive side predicts classes[1].
type LinearClassifier struct {
	coef      [][]float64
	intercept []float64
	classes   []int
	dim       int
}

func NewLinearClassifier(a ClassifierArtifact) (*LinearClassifier, error) {
	switch a.Kind {
	case "", KindRidge, KindLinear:
	default:
		return nil, fmt.Errorf("unsupported classifier kind %q", a.Kind)
	}
	if len(a.Coef) == 0 || len(a.Coef[0]) == 0 {
		return nil, fmt.Errorf("classifier coefficients are empty")
	}

	dim := len(a.Coef[0])
	for i, row := range a.Coef {
		if len(row) != dim {
			return nil, fmt.Errorf("coefficient row %d has %d values, expected %d", i, len(row), dim)
		}
		for j, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("coefficient [%d][%d] is not finite", i, j)
			}
		}
	}
	if len(a.Intercept) != len(a.Coef) {
		return nil, fmt.Errorf("intercept has %d values, expected %d", len(a.Intercept), len(a.Coef))
	}

	wantClasses := len(a.Coef)
	if wantClasses == 1 {
		wantClasses = 2
	}
	if len(a.Classes) != wantClasses {
		return nil, fmt.Errorf("classes has %d labels, expected %d", len(a.Classes), wantClasses)
	}

	return &LinearClassifier{
		coef:      a.Coef,
		intercept: a.Intercept,
		classes:   a.Classes,
		dim:       dim,
	}, nil
}

func (c *LinearClassifier) Dim() int {
	return c.dim
}

func (c *LinearClassifier) Predict(vec domain.SparseVector) (domain.Prediction, error) {
	if vec.Dim != c.dim {
		return domain.Prediction{}, fmt.Errorf("feature vector has dimension %d, classifier expects %d", vec.Dim, c.dim)
	}

	if len(c.coef) == 1 {
		score := c.decision(0, vec)
		label := c.classes[0]
		if score > 0 {
			label = c.classes[1]
		}
		return domain.Prediction{Label: label, Score: score}, nil
	}

	best := 0
	bestScore := c.decision(0, vec)
	for row := 1; row < len(c.coef); row++ {
		if score := c.decision(row, vec); score > bestScore {
			best, bestScore = row, score
		}
	}
	return domain.Prediction{Label: c.classes[best], Score: bestScore}, nil
}

func (c *LinearClassifier) decision(row int, vec domain.SparseVector) float64 {
	weights := c.coef[row]
	score := c.intercept[row]
	for i, idx := range vec.Indices {
		score += weights[idx] * vec.Values[i]
	}
	return score
}
