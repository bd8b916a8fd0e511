// Package inference exposes pre-trained models behind a fixed-width
// feature-vector contract. Models are either linear artifacts evaluated in
// process or names served by a remote model service.
package inference

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput means the features do not fit the model.
	ErrInvalidInput = errors.New("invalid model input")
	// ErrNotClassifier is returned by PredictProba on regression models.
	ErrNotClassifier = errors.New("model does not produce probabilities")
)

type Model interface {
	Name() string
	// Predict returns the regression value, or the class label for classifiers.
	Predict(ctx context.Context, features []float64) (float64, error)
	// PredictProba returns one probability per class, in class order.
	PredictProba(ctx context.Context, features []float64) ([]float64, error)
}

func checkWidth(name string, want int, features []float64) error {
	if want > 0 && len(features) != want {
		return fmt.Errorf("%w: model %s expects %d features, got %d", ErrInvalidInput, name, want, len(features))
	}
	return nil
}
