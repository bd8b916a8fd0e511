package inference

import (
	"context"
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
)

const (
	KindRegressor  = "regressor"
	KindClassifier = "classifier"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LinearModel is a linear regressor or a logistic classifier with optional
// standardisation of its inputs. It is the artifact format written by the
// training notebooks and pushed with modelctl.
type LinearModel struct {
	ModelName    string    `json:"name"`
	Kind         string    `json:"kind"`
	Features     []string  `json:"features"`
	Mean         []float64 `json:"mean,omitempty"`
	Scale        []float64 `json:"scale,omitempty"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Classes      []float64 `json:"classes,omitempty"`
}

// Decode parses and checks a model artifact.
func Decode(data []byte) (*LinearModel, error) {
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *LinearModel) validate() error {
	n := len(m.Coefficients)
	switch {
	case n == 0:
		return fmt.Errorf("model %s: no coefficients", m.ModelName)
	case len(m.Features) != 0 && len(m.Features) != n:
		return fmt.Errorf("model %s: %d feature names for %d coefficients", m.ModelName, len(m.Features), n)
	case len(m.Mean) != 0 && len(m.Mean) != n, len(m.Scale) != 0 && len(m.Scale) != n:
		return fmt.Errorf("model %s: scaler width does not match coefficients", m.ModelName)
	}
	for i, s := range m.Scale {
		if s == 0 {
			return fmt.Errorf("model %s: zero scale for feature %d", m.ModelName, i)
		}
	}

	switch m.Kind {
	case KindRegressor:
	case KindClassifier:
		if len(m.Classes) == 0 {
			m.Classes = []float64{0, 1}
		}
		if len(m.Classes) != 2 {
			return fmt.Errorf("model %s: classifier needs exactly 2 classes", m.ModelName)
		}
	default:
		return fmt.Errorf("model %s: unknown kind %q", m.ModelName, m.Kind)
	}
	return nil
}

func (m *LinearModel) Name() string { return m.ModelName }

// Width is the number of features the model expects.
func (m *LinearModel) Width() int { return len(m.Coefficients) }

func (m *LinearModel) decision(features []float64) (float64, error) {
	if err := checkWidth(m.ModelName, m.Width(), features); err != nil {
		return 0, err
	}
	z := m.Intercept
	for i, x := range features {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("%w: feature %d is not finite", ErrInvalidInput, i)
		}
		if len(m.Mean) != 0 {
			x -= m.Mean[i]
		}
		if len(m.Scale) != 0 {
			x /= m.Scale[i]
		}
		z += m.Coefficients[i] * x
	}
	return z, nil
}

func (m *LinearModel) Predict(_ context.Context, features []float64) (float64, error) {
	z, err := m.decision(features)
	if err != nil {
		return 0, err
	}
	if m.Kind == KindRegressor {
		return z, nil
	}
	if sigmoid(z) >= 0.5 {
		return m.Classes[1], nil
	}
	return m.Classes[0], nil
}

func (m *LinearModel) PredictProba(_ context.Context, features []float64) ([]float64, error) {
	if m.Kind != KindClassifier {
		return nil, fmt.Errorf("%s: %w", m.ModelName, ErrNotClassifier)
	}
	z, err := m.decision(features)
	if err != nil {
		return nil, err
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
