// Package metrics converts raw environmental readings into
// human-interpretable quality signals. Every function here is pure and
// deterministic; all I/O and persistence stays with the caller.
package metrics

import (
	"errors"

	"github.com/agrichain/agrichaingo/internal/models"
)

// ErrInsufficientData is returned when a metric is requested over zero
// readings. The caller decides the fallback; the core never divides by zero
// and never invents a score from no data.
var ErrInsufficientData = errors.New("metrics: insufficient sensor data")

// RiskLevel buckets spoilage risk from the frequency of threshold-exceeding
// readings.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// TrendLabel describes how freshness moved over the most recent samples.
type TrendLabel string

const (
	TrendStable           TrendLabel = "STABLE"
	TrendDeclining        TrendLabel = "DECLINING"
	TrendRapidlyDeclining TrendLabel = "RAPIDLY_DECLINING"
)

// Excursion thresholds shared with the alert generator.
const (
	TempHighThreshold     = 30.0
	TempCriticalThreshold = 35.0
	TempLowThreshold      = 0.0
	HumidityHighThreshold = 80.0
	HumidityCriticalHigh  = 90.0
)

// Freshness scores a single environmental reading on a 0-100 scale.
// Penalties accumulate from temperature outside [0, 30], humidity outside
// [60, 80], and any ethylene or CO2 present.
func Freshness(temp, humidity, ethylene, co2 float64) float64 {
	freshness := 100.0

	if temp > 30 {
		freshness -= (temp - 30) * 5
	}
	if temp < 0 {
		freshness -= -temp * 8
	}

	if humidity > 80 {
		freshness -= (humidity - 80) * 1.5
	}
	if humidity < 60 {
		freshness -= (60 - humidity) * 2
	}

	freshness -= ethylene * 10
	freshness -= co2 * 0.5

	return clamp(freshness, 0, 100)
}

// FreshnessOf scores one sensor reading. Missing ethylene/CO2 are zero in
// the model and contribute no penalty.
func FreshnessOf(r models.SensorReading) float64 {
	return Freshness(r.Temperature, r.Humidity, r.Ethylene, r.CO2)
}

// SpoilageRisk classifies a reading series by the share of excursions:
// temperature outside (0, 30), humidity outside (40, 85), ethylene above 5.
// Zero readings is undefined input and returns ErrInsufficientData.
func SpoilageRisk(readings []models.SensorReading) (RiskLevel, error) {
	if len(readings) == 0 {
		return "", ErrInsufficientData
	}

	var tempExcursions, humidityExcursions, ethyleneExcursions int
	for _, r := range readings {
		if r.Temperature > 30 || r.Temperature < 0 {
			tempExcursions++
		}
		if r.Humidity > 85 || r.Humidity < 40 {
			humidityExcursions++
		}
		if r.Ethylene > 5 {
			ethyleneExcursions++
		}
	}

	excursionPercentage := float64(tempExcursions+humidityExcursions+ethyleneExcursions) /
		(float64(len(readings)) * 3) * 100

	switch {
	case excursionPercentage > 50:
		return RiskCritical, nil
	case excursionPercentage > 30:
		return RiskHigh, nil
	case excursionPercentage > 15:
		return RiskMedium, nil
	default:
		return RiskLow, nil
	}
}

// Trend looks at the drop across the most recent 3-sample window of
// freshness values (ordered oldest to newest). Fewer than 3 samples is
// always STABLE.
func Trend(values []float64) TrendLabel {
	if len(values) < 3 {
		return TrendStable
	}

	decline := values[len(values)-3] - values[len(values)-1]
	switch {
	case decline > 15:
		return TrendRapidlyDeclining
	case decline > 5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Summary bundles the three basic quality signals for one reading series.
type Summary struct {
	Freshness    float64    `json:"freshness"`
	SpoilageRisk RiskLevel  `json:"spoilageRisk"`
	Trend        TrendLabel `json:"trend"`
}

// Compute evaluates freshness of the latest reading, spoilage risk over the
// whole series and the freshness trend. Readings must be ordered oldest to
// newest.
func Compute(readings []models.SensorReading) (Summary, error) {
	risk, err := SpoilageRisk(readings)
	if err != nil {
		return Summary{}, err
	}

	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = FreshnessOf(r)
	}

	return Summary{
		Freshness:    values[len(values)-1],
		SpoilageRisk: risk,
		Trend:        Trend(values),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
