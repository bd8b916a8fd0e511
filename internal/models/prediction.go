package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prediction kinds, one per inference endpoint family.
const (
	KindPowerScore    = "power_score"
	KindPowerGen      = "power_generation"
	KindGridStability = "grid_stability"
)

// Prediction is a single inference request and its result, stored in MongoDB.
type Prediction struct {
	ID        primitive.ObjectID `json:"id"              bson:"_id,omitempty"`
	Kind      string             `json:"kind"            bson:"kind"`
	Model     string             `json:"model"           bson:"model"`
	Inputs    map[string]float64 `json:"inputs"          bson:"inputs"`
	Features  []float64          `json:"features"        bson:"features"`
	Value     float64            `json:"value"           bson:"value"`
	Label     string             `json:"label,omitempty" bson:"label,omitempty"`
	CreatedAt time.Time          `json:"created_at"      bson:"created_at"`
}
