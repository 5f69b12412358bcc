package models

import (
	"time"

	"github.com/malambomutila/ai-weather-app/internal/units"
)

// Reading is one validated current-weather snapshot. Temperatures are Kelvin,
// exactly as the provider returned them.
type Reading struct {
	City        string  `json:"city"`
	TempK       float64 `json:"tempKelvin"`
	FeelsLikeK  float64 `json:"feelsLikeKelvin"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Description string  `json:"description"`
	Country     string  `json:"country"`
	IconID      string  `json:"icon"`
}

// Report is what presenters render: the reading plus derived values.
type Report struct {
	Reading   Reading         `json:"reading"`
	Temp      units.Converted `json:"temperature"`
	FeelsLike units.Converted `json:"feelsLike"`
	IconURL   string          `json:"iconUrl"`
	Timestamp time.Time       `json:"timestamp"`
}
