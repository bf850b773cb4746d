// Package alerts scans sensor readings for threshold violations and derives
// acknowledgeable alert records. The generator itself is pure: persistence
// and acknowledgment belong to the caller.
package alerts

import (
	"fmt"
	"sort"

	"github.com/agrichain/agrichaingo/internal/metrics"
	"github.com/agrichain/agrichaingo/internal/models"
)

// RouteCheck is the external geofence collaborator: it reports whether a GPS
// fix lies outside the batch's declared route. A nil check disables LOCATION
// alerts entirely — the core never guesses at routes.
type RouteCheck func(batchID string, loc models.GeoLocation) bool

// AlertID derives the deterministic id for an alert so re-scanning the same
// reading can never produce a duplicate.
func AlertID(t models.AlertType, batchID string, timestamp int64) string {
	return fmt.Sprintf("%s-%s-%d", t, batchID, timestamp)
}

// Generate evaluates each reading independently against the operational
// thresholds and returns only alerts whose ids are not already in known,
// newest first. Readings may arrive in any order.
func Generate(batchID string, readings []models.SensorReading, known map[string]bool, outsideRoute RouteCheck) []models.Alert {
	var out []models.Alert

	appendAlert := func(a models.Alert) {
		if known[a.ID] {
			return
		}
		out = append(out, a)
	}

	for _, r := range readings {
		if r.Temperature > metrics.TempHighThreshold {
			severity := models.SeverityHigh
			if r.Temperature > metrics.TempCriticalThreshold {
				severity = models.SeverityCritical
			}
			appendAlert(models.Alert{
				ID:        AlertID(models.AlertTemperature, batchID, r.Timestamp),
				BatchID:   batchID,
				Type:      models.AlertTemperature,
				Severity:  severity,
				Message:   fmt.Sprintf("High temperature detected: %.1f°C", r.Temperature),
				Timestamp: r.Timestamp,
				Location:  r.GPSLocation,
			})
		}

		if r.Humidity > metrics.HumidityHighThreshold {
			severity := models.SeverityMedium
			if r.Humidity > metrics.HumidityCriticalHigh {
				severity = models.SeverityHigh
			}
			appendAlert(models.Alert{
				ID:        AlertID(models.AlertHumidity, batchID, r.Timestamp),
				BatchID:   batchID,
				Type:      models.AlertHumidity,
				Severity:  severity,
				Message:   fmt.Sprintf("High humidity detected: %.1f%%", r.Humidity),
				Timestamp: r.Timestamp,
				Location:  r.GPSLocation,
			})
		}

		if outsideRoute != nil && r.GPSLocation != nil {
			loc := toGeoLocation(*r.GPSLocation)
			if outsideRoute(batchID, loc) {
				appendAlert(models.Alert{
					ID:        AlertID(models.AlertLocation, batchID, r.Timestamp),
					BatchID:   batchID,
					Type:      models.AlertLocation,
					Severity:  models.SeverityMedium,
					Message:   "Shipment detected outside expected route",
					Timestamp: r.Timestamp,
					Location:  r.GPSLocation,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

func toGeoLocation(m map[string]interface{}) models.GeoLocation {
	loc := models.GeoLocation{}
	if v, ok := m["latitude"].(float64); ok {
		loc.Latitude = v
	}
	if v, ok := m["longitude"].(float64); ok {
		loc.Longitude = v
	}
	if v, ok := m["timestamp"].(float64); ok {
		loc.Timestamp = int64(v)
	}
	return loc
}
