// Package predict serves the power-generation and smart-grid stability
// forms on top of the inference models.
package predict

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayush/sustainawatt/internal/apperr"
	"github.com/ayush/sustainawatt/internal/inference"
	"github.com/ayush/sustainawatt/internal/logging"
	"github.com/ayush/sustainawatt/internal/models"
)

const (
	LabelStable   = "Stable"
	LabelUnstable = "Unstable"
)

// NodeShares splits total generation across the three grid nodes.
var NodeShares = [3]float64{0.20, 0.45, 0.35}

type SensorStore interface {
	CreateSensorReading(ctx context.Context, r *models.SensorReading) error
}

// History records predictions. A nil History disables recording.
type History interface {
	Insert(ctx context.Context, p *models.Prediction) (string, error)
	ListRecent(ctx context.Context, kind string, limit int64) ([]models.Prediction, error)
	GetByID(ctx context.Context, id string) (*models.Prediction, error)
}

// Weather is the input of both power-generation models.
type Weather struct {
	AirTemperature float64
	Pressure       float64
	WindSpeed      float64
}

func (w Weather) features() []float64 {
	return []float64{w.AirTemperature, w.Pressure, w.WindSpeed}
}

func (w Weather) inputs() map[string]float64 {
	return map[string]float64{
		"air_temperature": w.AirTemperature,
		"pressure":        w.Pressure,
		"wind_speed":      w.WindSpeed,
	}
}

// GridInput is the input of the stability classifier: consumer reaction
// times, consumed power per node and the total generated power.
type GridInput struct {
	C        [3]float64
	P        [3]float64
	PowerGen float64
}

// NodeGeneration returns PowerGen split by NodeShares.
func (g GridInput) NodeGeneration() [3]float64 {
	var out [3]float64
	for i, s := range NodeShares {
		out[i] = s * g.PowerGen
	}
	return out
}

// Features builds the 10-wide vector
// [c1, c2, c3, p1, p2, p3, PowerGen, gen1, gen2, gen3].
func (g GridInput) Features() []float64 {
	f := make([]float64, 0, 10)
	f = append(f, g.C[:]...)
	f = append(f, g.P[:]...)
	f = append(f, g.PowerGen)
	gen := g.NodeGeneration()
	return append(f, gen[:]...)
}

func (g GridInput) inputs() map[string]float64 {
	return map[string]float64{
		"c1": g.C[0], "c2": g.C[1], "c3": g.C[2],
		"p1": g.P[0], "p2": g.P[1], "p3": g.P[2],
		"PowerGen": g.PowerGen,
	}
}

type NodeGeneration struct {
	Node  string
	Value float64
}

type Stability struct {
	Label string
	Nodes []NodeGeneration
}

type Service struct {
	models  *inference.Set
	sensors SensorStore
	history History
	log     logging.Logger
}

func NewService(set *inference.Set, sensors SensorStore, history History, log logging.Logger) *Service {
	return &Service{models: set, sensors: sensors, history: history, log: log}
}

// ScorePower logs the reading and returns the positive-class probability of
// the power-score model.
func (s *Service) ScorePower(ctx context.Context, w Weather) (float64, error) {
	reading := &models.SensorReading{
		AirTemperature: w.AirTemperature,
		Pressure:       w.Pressure,
		WindSpeed:      w.WindSpeed,
	}
	if err := s.sensors.CreateSensorReading(ctx, reading); err != nil {
		return 0, apperr.Storage(err)
	}

	m := s.models.PowerScore
	proba, err := m.PredictProba(ctx, w.features())
	if err != nil {
		return 0, inferenceError(err)
	}
	if len(proba) < 2 {
		return 0, fmt.Errorf("model %s returned %d probabilities", m.Name(), len(proba))
	}

	score := proba[1]
	s.record(ctx, &models.Prediction{
		Kind: models.KindPowerScore, Model: m.Name(),
		Inputs: w.inputs(), Features: w.features(), Value: score,
	})
	return score, nil
}

// ForecastPowerGen returns the regression output of the power-generation model.
func (s *Service) ForecastPowerGen(ctx context.Context, w Weather) (float64, error) {
	m := s.models.PowerGen
	v, err := m.Predict(ctx, w.features())
	if err != nil {
		return 0, inferenceError(err)
	}
	s.record(ctx, &models.Prediction{
		Kind: models.KindPowerGen, Model: m.Name(),
		Inputs: w.inputs(), Features: w.features(), Value: v,
	})
	return v, nil
}

// CheckStability classifies the grid. Class 1 is Stable, anything else
// Unstable.
func (s *Service) CheckStability(ctx context.Context, g GridInput) (*Stability, error) {
	m := s.models.GridStability
	features := g.Features()
	class, err := m.Predict(ctx, features)
	if err != nil {
		return nil, inferenceError(err)
	}

	res := &Stability{Label: LabelUnstable}
	if class == 1 {
		res.Label = LabelStable
	}
	for i, v := range g.NodeGeneration() {
		res.Nodes = append(res.Nodes, NodeGeneration{Node: fmt.Sprintf("Node %d", i+1), Value: v})
	}

	s.record(ctx, &models.Prediction{
		Kind: models.KindGridStability, Model: m.Name(),
		Inputs: g.inputs(), Features: features, Value: class, Label: res.Label,
	})
	return res, nil
}

// Recent lists stored predictions, newest first.
func (s *Service) Recent(ctx context.Context, kind string, limit int64) ([]models.Prediction, error) {
	if s.history == nil {
		return nil, ErrNoHistory
	}
	return s.history.ListRecent(ctx, kind, limit)
}

func (s *Service) Prediction(ctx context.Context, id string) (*models.Prediction, error) {
	if s.history == nil {
		return nil, ErrNoHistory
	}
	return s.history.GetByID(ctx, id)
}

// ErrNoHistory is returned when prediction history is not configured.
var ErrNoHistory = errors.New("prediction history is not enabled")

// record stores p when history is enabled. Failures are logged only.
func (s *Service) record(ctx context.Context, p *models.Prediction) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Insert(ctx, p); err != nil {
		s.log.Warn(ctx, "failed to record prediction", "kind", p.Kind, "err", err)
	}
}

func inferenceError(err error) error {
	if errors.Is(err, inference.ErrInvalidInput) {
		return apperr.BadRequest("features", "Invalid input for the model.", err)
	}
	return err
}
