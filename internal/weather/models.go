package weather

import "time"

// Record is a single weather observation for one city. A Record is created by
// the fetcher from one successful API response and never mutated afterwards.
type Record struct {
	City         string    `json:"city"`
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPercent"`
	PressureHpa  float64   `json:"pressureHpa"`
	Description  string    `json:"weather"`
	WindSpeedMS  float64   `json:"windSpeed"`
	CapturedAt   time.Time `json:"capturedAt"`
}

// Batch is the ordered set of records collected in one run, at most one per
// city. Cities whose lookup failed are simply absent.
type Batch []Record
