package models

import "time"

// SensorReading logs the weather inputs of a power score request.
type SensorReading struct {
	ID             int64     `json:"id"              gorm:"primaryKey"`
	AirTemperature float64   `json:"air_temperature" gorm:"not null"`
	Pressure       float64   `json:"pressure"        gorm:"not null"`
	WindSpeed      float64   `json:"wind_speed"      gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}
