package metrics

import (
	"errors"
	"testing"

	"github.com/agrichain/agrichaingo/internal/models"
)

func TestFreshnessIdealConditions(t *testing.T) {
	if got := Freshness(20, 70, 0, 0); got != 100 {
		t.Errorf("Freshness(20, 70, 0, 0) = %v, want 100", got)
	}
}

func TestFreshnessPenalties(t *testing.T) {
	cases := []struct {
		name                          string
		temp, humidity, ethylene, co2 float64
		want                          float64
	}{
		{"hot", 35, 70, 0, 0, 75},   // 100 - (35-30)*5
		{"frozen", -5, 70, 0, 0, 60}, // 100 - 5*8
		{"humid", 20, 90, 0, 0, 85},  // 100 - (90-80)*1.5
		{"dry", 20, 50, 0, 0, 80},    // 100 - (60-50)*2
		{"ethylene", 20, 70, 2, 0, 80},
		{"co2", 20, 70, 0, 10, 95},
		{"floor", 50, 100, 10, 100, 0}, // clamped at 0
	}

	for _, c := range cases {
		if got := Freshness(c.temp, c.humidity, c.ethylene, c.co2); got != c.want {
			t.Errorf("%s: Freshness(%v, %v, %v, %v) = %v, want %v",
				c.name, c.temp, c.humidity, c.ethylene, c.co2, got, c.want)
		}
	}
}

func readingsAt(temp, humidity, ethylene float64, n int) []models.SensorReading {
	out := make([]models.SensorReading, n)
	for i := range out {
		out[i] = models.SensorReading{
			Timestamp:   int64(i) * 1000,
			Temperature: temp,
			Humidity:    humidity,
			Ethylene:    ethylene,
		}
	}
	return out
}

func TestSpoilageRiskNoExcursions(t *testing.T) {
	risk, err := SpoilageRisk(readingsAt(20, 70, 0, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if risk != RiskLow {
		t.Errorf("risk = %s, want LOW", risk)
	}
}

func TestSpoilageRiskAllExcursions(t *testing.T) {
	// Every reading trips all three thresholds: 100% excursion rate.
	risk, err := SpoilageRisk(readingsAt(36, 95, 8, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if risk != RiskCritical {
		t.Errorf("risk = %s, want CRITICAL", risk)
	}
}

func TestSpoilageRiskBands(t *testing.T) {
	// 5 of 10 readings exceed only the temperature bound: 5/30 ≈ 16.7% -> MEDIUM.
	readings := append(readingsAt(20, 70, 0, 5), readingsAt(32, 70, 0, 5)...)
	risk, err := SpoilageRisk(readings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if risk != RiskMedium {
		t.Errorf("risk = %s, want MEDIUM", risk)
	}
}

func TestSpoilageRiskEmptyInput(t *testing.T) {
	if _, err := SpoilageRisk(nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("SpoilageRisk(nil) error = %v, want ErrInsufficientData", err)
	}
}

func TestTrend(t *testing.T) {
	cases := []struct {
		values []float64
		want   TrendLabel
	}{
		{[]float64{80, 80, 80}, TrendStable},
		{[]float64{90, 70, 60}, TrendRapidlyDeclining}, // decline = 30
		{[]float64{90, 85, 82}, TrendDeclining},        // decline = 8
		{[]float64{60, 70, 90}, TrendStable},           // improving
		{[]float64{90, 60}, TrendStable},               // too few samples
		{nil, TrendStable},
		// Only the last 3-sample window counts.
		{[]float64{10, 90, 85, 84}, TrendDeclining},
	}

	for _, c := range cases {
		if got := Trend(c.values); got != c.want {
			t.Errorf("Trend(%v) = %s, want %s", c.values, got, c.want)
		}
	}
}

func TestCompute(t *testing.T) {
	readings := readingsAt(20, 70, 0, 10)
	summary, err := Compute(readings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Freshness != 100 {
		t.Errorf("freshness = %v, want 100", summary.Freshness)
	}
	if summary.SpoilageRisk != RiskLow {
		t.Errorf("risk = %s, want LOW", summary.SpoilageRisk)
	}
	if summary.Trend != TrendStable {
		t.Errorf("trend = %s, want STABLE", summary.Trend)
	}

	if _, err := Compute(nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Compute(nil) error = %v, want ErrInsufficientData", err)
	}
}
