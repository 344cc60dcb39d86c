package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Scaler transforms raw feature vectors before they reach a model
type Scaler interface {
	Transform(features []float64) ([]float64, error)
}

// Model produces a 0/1 class for a scaled feature vector
type Model interface {
	Predict(features []float64) (int, error)
}

// Artifact kinds
const (
	KindStandardScaler     = "standard"
	KindMinMaxScaler       = "minmax"
	KindLogisticRegression = "logistic_regression"
	KindDecisionTree       = "decision_tree"
)

type artifactHeader struct {
	Kind         string   `json:"kind"`
	FeatureNames []string `json:"feature_names,omitempty"`
}

// StandardScaler applies (x - mean) / scale per feature
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform implements Scaler
func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) || len(features) != len(s.Scale) {
		return nil, fmt.Errorf("standard scaler expects %d features, got %d", len(s.Mean), len(features))
	}
	out := make([]float64, len(features))
	for i, x := range features {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (x - s.Mean[i]) / scale
	}
	return out, nil
}

// MinMaxScaler applies x * scale + min per feature
type MinMaxScaler struct {
	Min   []float64 `json:"min"`
	Scale []float64 `json:"scale"`
}

// Transform implements Scaler
func (s *MinMaxScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Min) || len(features) != len(s.Scale) {
		return nil, fmt.Errorf("minmax scaler expects %d features, got %d", len(s.Min), len(features))
	}
	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = x*s.Scale[i] + s.Min[i]
	}
	return out, nil
}

// LogisticRegression is a binary linear classifier
type LogisticRegression struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
	Threshold float64   `json:"threshold,omitempty"`
}

// Probability returns the positive-class probability for x
func (m *LogisticRegression) Probability(features []float64) (float64, error) {
	if len(features) != len(m.Coef) {
		return 0, fmt.Errorf("logistic regression expects %d features, got %d", len(m.Coef), len(features))
	}
	z := m.Intercept
	for i, x := range features {
		z += m.Coef[i] * x
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict implements Model
func (m *LogisticRegression) Predict(features []float64) (int, error) {
	p, err := m.Probability(features)
	if err != nil {
		return 0, err
	}
	threshold := m.Threshold
	if threshold == 0 {
		threshold = 0.5
	}
	if p >= threshold {
		return 1, nil
	}
	return 0, nil
}

// DecisionTree mirrors the parallel-array layout of a fitted sklearn tree.
// A node is a leaf when ChildrenLeft[i] == -1. Value[i] holds per-class
// sample counts at that node.
type DecisionTree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
	Classes       []int       `json:"classes,omitempty"`
}

func (t *DecisionTree) validate() error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("decision tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("decision tree arrays have mismatched lengths")
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == -1 {
			continue
		}
		if l <= i || r <= i || l >= n || r >= n {
			return fmt.Errorf("decision tree node %d has invalid children %d/%d", i, l, r)
		}
	}
	return nil
}

// Predict implements Model
func (t *DecisionTree) Predict(features []float64) (int, error) {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		f := t.Feature[node]
		if f < 0 || f >= len(features) {
			return 0, fmt.Errorf("decision tree node %d references feature %d", node, f)
		}
		if features[f] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}

	counts := t.Value[node]
	if len(counts) == 0 {
		return 0, fmt.Errorf("decision tree leaf %d has no class counts", node)
	}
	best := 0
	for i := range counts {
		if counts[i] > counts[best] {
			best = i
		}
	}
	if len(t.Classes) > best {
		return t.Classes[best], nil
	}
	return best, nil
}

// LoadScaler reads a scaler artifact from path
func LoadScaler(path string) (Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scaler %s: %w", path, err)
	}
	return DecodeScaler(data)
}

// DecodeScaler decodes a JSON scaler artifact
func DecodeScaler(data []byte) (Scaler, error) {
	if err := validateArtifact(scalerSchema, data); err != nil {
		return nil, err
	}
	header, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	switch header.Kind {
	case KindStandardScaler, "":
		s := &StandardScaler{}
		if err := json.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to decode standard scaler: %w", err)
		}
		if len(s.Mean) != FeatureCount || len(s.Scale) != FeatureCount {
			return nil, fmt.Errorf("standard scaler must have %d features", FeatureCount)
		}
		return s, nil
	case KindMinMaxScaler:
		s := &MinMaxScaler{}
		if err := json.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to decode minmax scaler: %w", err)
		}
		if len(s.Min) != FeatureCount || len(s.Scale) != FeatureCount {
			return nil, fmt.Errorf("minmax scaler must have %d features", FeatureCount)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown scaler kind %q", header.Kind)
	}
}

// LoadModel reads a model artifact from path
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	return DecodeModel(data)
}

// DecodeModel decodes a JSON model artifact
func DecodeModel(data []byte) (Model, error) {
	if err := validateArtifact(modelSchema, data); err != nil {
		return nil, err
	}
	header, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	switch header.Kind {
	case KindLogisticRegression:
		m := &LogisticRegression{}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to decode logistic regression: %w", err)
		}
		if len(m.Coef) != FeatureCount {
			return nil, fmt.Errorf("logistic regression must have %d coefficients, got %d", FeatureCount, len(m.Coef))
		}
		return m, nil
	case KindDecisionTree:
		m := &DecisionTree{}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to decode decision tree: %w", err)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", header.Kind)
	}
}

func decodeHeader(data []byte) (*artifactHeader, error) {
	var header artifactHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}
	if len(header.FeatureNames) > 0 && !sameFeatures(header.FeatureNames) {
		return nil, fmt.Errorf("artifact feature names %v do not match %v", header.FeatureNames, FeatureNames)
	}
	return &header, nil
}

func sameFeatures(names []string) bool {
	if len(names) != len(FeatureNames) {
		return false
	}
	for i := range names {
		if names[i] != FeatureNames[i] {
			return false
		}
	}
	return true
}
