package alerts

import (
	"testing"

	"github.com/agrichain/agrichaingo/internal/models"
	"gorm.io/datatypes"
)

func TestGenerateTemperatureSeverities(t *testing.T) {
	readings := []models.SensorReading{
		{Timestamp: 1000, Temperature: 32, Humidity: 50},
		{Timestamp: 2000, Temperature: 36, Humidity: 50},
		{Timestamp: 3000, Temperature: 25, Humidity: 50},
	}

	got := Generate("B001", readings, nil, nil)
	if len(got) != 2 {
		t.Fatalf("generated %d alerts, want 2", len(got))
	}

	// Newest first.
	if got[0].Timestamp != 2000 || got[0].Severity != models.SeverityCritical {
		t.Errorf("alert[0] = %+v, want CRITICAL at 2000", got[0])
	}
	if got[1].Timestamp != 1000 || got[1].Severity != models.SeverityHigh {
		t.Errorf("alert[1] = %+v, want HIGH at 1000", got[1])
	}
	if got[0].Type != models.AlertTemperature {
		t.Errorf("alert type = %s, want TEMPERATURE", got[0].Type)
	}
}

func TestGenerateHumiditySeverities(t *testing.T) {
	readings := []models.SensorReading{
		{Timestamp: 1000, Temperature: 20, Humidity: 85},
		{Timestamp: 2000, Temperature: 20, Humidity: 95},
	}

	got := Generate("B001", readings, nil, nil)
	if len(got) != 2 {
		t.Fatalf("generated %d alerts, want 2", len(got))
	}
	if got[0].Severity != models.SeverityHigh {
		t.Errorf("humidity 95%% severity = %s, want HIGH", got[0].Severity)
	}
	if got[1].Severity != models.SeverityMedium {
		t.Errorf("humidity 85%% severity = %s, want MEDIUM", got[1].Severity)
	}
}

func TestGenerateOneReadingBothTypes(t *testing.T) {
	readings := []models.SensorReading{
		{Timestamp: 1000, Temperature: 33, Humidity: 88},
	}

	got := Generate("B001", readings, nil, nil)
	if len(got) != 2 {
		t.Fatalf("generated %d alerts, want temperature + humidity", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Errorf("alert ids collide: %s", got[0].ID)
	}
}

// Re-scanning an unchanged reading set must produce zero new alerts.
func TestGenerateDeduplicates(t *testing.T) {
	readings := []models.SensorReading{
		{Timestamp: 1000, Temperature: 32, Humidity: 85},
		{Timestamp: 2000, Temperature: 36, Humidity: 50},
	}

	first := Generate("B001", readings, nil, nil)
	if len(first) == 0 {
		t.Fatal("first scan produced no alerts")
	}

	known := make(map[string]bool)
	for _, a := range first {
		known[a.ID] = true
	}

	second := Generate("B001", readings, known, nil)
	if len(second) != 0 {
		t.Errorf("second scan produced %d alerts, want 0", len(second))
	}
}

func TestGenerateLocationRequiresRouteCheck(t *testing.T) {
	gps := datatypes.JSONMap{"latitude": 12.5, "longitude": 41.9}
	readings := []models.SensorReading{
		{Timestamp: 1000, Temperature: 20, Humidity: 50, GPSLocation: &gps},
	}

	// No collaborator: no LOCATION alerts, ever.
	if got := Generate("B001", readings, nil, nil); len(got) != 0 {
		t.Errorf("nil route check produced %d alerts, want 0", len(got))
	}

	outside := func(batchID string, loc models.GeoLocation) bool { return true }
	got := Generate("B001", readings, nil, outside)
	if len(got) != 1 || got[0].Type != models.AlertLocation {
		t.Fatalf("got %+v, want one LOCATION alert", got)
	}
	if got[0].Severity != models.SeverityMedium {
		t.Errorf("severity = %s, want MEDIUM", got[0].Severity)
	}

	inside := func(batchID string, loc models.GeoLocation) bool { return false }
	if got := Generate("B001", readings, nil, inside); len(got) != 0 {
		t.Errorf("on-route reading produced %d alerts, want 0", len(got))
	}
}

func TestAlertIDDeterministic(t *testing.T) {
	a := AlertID(models.AlertTemperature, "B001", 12345)
	b := AlertID(models.AlertTemperature, "B001", 12345)
	if a != b {
		t.Errorf("ids differ for identical inputs: %s vs %s", a, b)
	}
	if a == AlertID(models.AlertHumidity, "B001", 12345) {
		t.Error("ids collide across alert types")
	}
	if a == AlertID(models.AlertTemperature, "B002", 12345) {
		t.Error("ids collide across batches")
	}
}
