package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const (
	KindLinear = "linear"
	KindKNN    = "knn"
)

// ClassifierSpec is the exported state of a fitted classifier.
type ClassifierSpec struct {
	Kind      string `json:"kind" yaml:"kind"`
	NFeatures int    `json:"n_features" yaml:"n_features"`
	Classes   []int  `json:"classes" yaml:"classes"`

	// linear
	Coef      [][]float64 `json:"coef,omitempty" yaml:"coef,omitempty"`
	Intercept []float64   `json:"intercept,omitempty" yaml:"intercept,omitempty"`

	// knn
	NNeighbors int            `json:"n_neighbors,omitempty" yaml:"n_neighbors,omitempty"`
	Metric     string         `json:"metric,omitempty" yaml:"metric,omitempty"`
	Samples    []SparseSample `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// SparseSample is one stored training row with its class id.
type SparseSample struct {
	Indices []int     `json:"indices" yaml:"indices"`
	Values  []float64 `json:"values" yaml:"values"`
	Label   int       `json:"label" yaml:"label"`
}

// Classifier predicts one category id per feature vector.
type Classifier interface {
	Predict(features domain.FeatureVector) (int, error)
	NFeatures() int
}

func NewClassifier(spec ClassifierSpec) (Classifier, error) {
	if spec.NFeatures <= 0 {
		return nil, errors.New("classifier n_features must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(spec.Kind)) {
	case KindLinear:
		return newLinearClassifier(spec)
	case KindKNN:
		return newKNNClassifier(spec)
	default:
		return nil, fmt.Errorf("unsupported classifier kind %q", spec.Kind)
	}
}

func checkDim(features domain.FeatureVector, want int) error {
	if features.Dim != want {
		return fmt.Errorf("feature dimension %d does not match classifier input %d", features.Dim, want)
	}
	if len(features.Indices) != len(features.Values) {
		return fmt.Errorf("feature vector has %d indices and %d values", len(features.Indices), len(features.Values))
	}
	for _, idx := range features.Indices {
		if idx < 0 || idx >= want {
			return fmt.Errorf("feature index %d outside [0,%d)", idx, want)
		}
	}
	return nil
}

// LinearClassifier picks the class with the largest decision value. A single
// coefficient row is the binary case: positive means classes[1].
type LinearClassifier struct {
	nFeatures int
	classes   []int
	coef      [][]float64
	intercept []float64
}

func newLinearClassifier(spec ClassifierSpec) (*LinearClassifier, error) {
	rows := len(spec.Coef)
	switch {
	case rows == 0:
		return nil, errors.New("linear classifier has no coefficients")
	case rows == 1 && len(spec.Classes) != 2:
		return nil, fmt.Errorf("binary linear classifier needs 2 classes, got %d", len(spec.Classes))
	case rows > 1 && rows != len(spec.Classes):
		return nil, fmt.Errorf("linear classifier has %d coefficient rows for %d classes", rows, len(spec.Classes))
	}
	if len(spec.Intercept) != rows {
		return nil, fmt.Errorf("linear classifier has %d intercepts for %d rows", len(spec.Intercept), rows)
	}
	for i, row := range spec.Coef {
		if len(row) != spec.NFeatures {
			return nil, fmt.Errorf("coefficient row %d has %d columns, want %d", i, len(row), spec.NFeatures)
		}
	}
	return &LinearClassifier{
		nFeatures: spec.NFeatures,
		classes:   append([]int(nil), spec.Classes...),
		coef:      spec.Coef,
		intercept: append([]float64(nil), spec.Intercept...),
	}, nil
}

func (c *LinearClassifier) NFeatures() int { return c.nFeatures }

func (c *LinearClassifier) Predict(features domain.FeatureVector) (int, error) {
	if err := checkDim(features, c.nFeatures); err != nil {
		return 0, err
	}

	if len(c.coef) == 1 {
		if c.decision(0, features) > 0 {
			return c.classes[1], nil
		}
		return c.classes[0], nil
	}

	best := 0
	bestScore := math.Inf(-1)
	for row := range c.coef {
		// ties keep the first row
		if score := c.decision(row, features); score > bestScore {
			best, bestScore = row, score
		}
	}
	return c.classes[best], nil
}

func (c *LinearClassifier) decision(row int, features domain.FeatureVector) float64 {
	score := c.intercept[row]
	weights := c.coef[row]
	for i, idx := range features.Indices {
		score += weights[idx] * features.Values[i]
	}
	return score
}

// KNNClassifier votes among the nearest stored samples with uniform weights.
type KNNClassifier struct {
	nFeatures int
	k         int
	metric    string
	samples   []knnSample
}

type knnSample struct {
	vec   map[int]float64
	norm  float64
	label int
}

func newKNNClassifier(spec ClassifierSpec) (*KNNClassifier, error) {
	if len(spec.Samples) == 0 {
		return nil, errors.New("knn classifier has no samples")
	}
	k := spec.NNeighbors
	if k <= 0 {
		k = 5
	}
	if k > len(spec.Samples) {
		k = len(spec.Samples)
	}
	metric := strings.ToLower(strings.TrimSpace(spec.Metric))
	switch metric {
	case "", "euclidean", "minkowski":
		metric = "euclidean"
	case "cosine":
	default:
		return nil, fmt.Errorf("unsupported knn metric %q", spec.Metric)
	}

	samples := make([]knnSample, 0, len(spec.Samples))
	for i, s := range spec.Samples {
		if len(s.Indices) != len(s.Values) {
			return nil, fmt.Errorf("sample %d has %d indices and %d values", i, len(s.Indices), len(s.Values))
		}
		vec := make(map[int]float64, len(s.Indices))
		var sq float64
		for j, idx := range s.Indices {
			if idx < 0 || idx >= spec.NFeatures {
				return nil, fmt.Errorf("sample %d index %d outside [0,%d)", i, idx, spec.NFeatures)
			}
			vec[idx] += s.Values[j]
		}
		for _, x := range vec {
			sq += x * x
		}
		samples = append(samples, knnSample{vec: vec, norm: math.Sqrt(sq), label: s.Label})
	}

	return &KNNClassifier{
		nFeatures: spec.NFeatures,
		k:         k,
		metric:    metric,
		samples:   samples,
	}, nil
}

func (c *KNNClassifier) NFeatures() int { return c.nFeatures }

func (c *KNNClassifier) Predict(features domain.FeatureVector) (int, error) {
	if err := checkDim(features, c.nFeatures); err != nil {
		return 0, err
	}

	var qNorm float64
	for _, x := range features.Values {
		qNorm += x * x
	}
	qNorm = math.Sqrt(qNorm)

	type neighbor struct {
		dist  float64
		order int
		label int
	}
	neighbors := make([]neighbor, len(c.samples))
	for i, s := range c.samples {
		var dot float64
		for j, idx := range features.Indices {
			dot += s.vec[idx] * features.Values[j]
		}
		neighbors[i] = neighbor{dist: c.distance(dot, qNorm, s.norm), order: i, label: s.label}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].dist != neighbors[j].dist {
			return neighbors[i].dist < neighbors[j].dist
		}
		return neighbors[i].order < neighbors[j].order
	})

	votes := make(map[int]int, c.k)
	for _, n := range neighbors[:c.k] {
		votes[n.label]++
	}
	best, bestVotes := 0, -1
	for label, count := range votes {
		if count > bestVotes || (count == bestVotes && label < best) {
			best, bestVotes = label, count
		}
	}
	return best, nil
}

func (c *KNNClassifier) distance(dot, qNorm, sNorm float64) float64 {
	if c.metric == "cosine" {
		if qNorm == 0 || sNorm == 0 {
			return 1
		}
		return 1 - dot/(qNorm*sNorm)
	}
	d := qNorm*qNorm + sNorm*sNorm - 2*dot
	if d < 0 {
		d = 0
	}
	return math.Sqrt(d)
}
