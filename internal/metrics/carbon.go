package metrics

import (
	"github.com/agrichain/agrichaingo/internal/models"
)

// FootprintBreakdown scores each supply-chain phase 0-100 (higher = lower
// emissions) plus a weighted total. Like the shelf-life model this is an
// illustrative heuristic, deterministic over the batch record alone.
type FootprintBreakdown struct {
	BatchID        string   `json:"batchId"`
	TotalScore     float64  `json:"totalScore"`
	Farming        float64  `json:"farming"`
	Processing     float64  `json:"processing"`
	Packaging      float64  `json:"packaging"`
	Transportation float64  `json:"transportation"`
	Storage        float64  `json:"storage"`
	Badges         []string `json:"sustainabilityBadges,omitempty"`
}

// transitStages counts how many history entries are transit legs.
func transitStages(batch *models.Batch) int {
	n := 0
	for _, s := range batch.History {
		if s.Name == models.StageInTransit || s.Name == models.StageInTransitToConsumer {
			n++
		}
	}
	return n
}

// CarbonFootprint derives a per-phase emissions score from the batch record:
// weight drives farming/processing/packaging, transit legs drive
// transportation, and time between first and last event drives storage.
func CarbonFootprint(batch *models.Batch) FootprintBreakdown {
	farming := clamp(100-batch.BatchWeight*0.02, 0, 100)
	processing := clamp(95-batch.BatchWeight*0.01, 0, 100)
	packaging := clamp(90-batch.BatchWeight*0.015, 0, 100)

	transportation := clamp(100-float64(transitStages(batch))*12, 0, 100)

	storage := 100.0
	if n := len(batch.History); n >= 2 {
		elapsed := batch.History[n-1].Timestamp.Sub(batch.History[0].Timestamp)
		storage = clamp(100-elapsed.Hours()/24*3, 0, 100)
	}

	total := farming*0.3 + processing*0.15 + packaging*0.15 + transportation*0.25 + storage*0.15

	var badges []string
	if total >= 85 {
		badges = append(badges, "Eco Champion")
	}
	if transportation >= 80 {
		badges = append(badges, "Low Mileage")
	}
	for _, c := range batch.Certifications {
		if c == "Organic" {
			badges = append(badges, "Organic Certified")
		}
	}

	return FootprintBreakdown{
		BatchID:        batch.ID,
		TotalScore:     total,
		Farming:        farming,
		Processing:     processing,
		Packaging:      packaging,
		Transportation: transportation,
		Storage:        storage,
		Badges:         badges,
	}
}

// SustainabilityScore collapses the footprint breakdown to the single 0-100
// figure shown on batch cards.
func SustainabilityScore(batch *models.Batch) float64 {
	return CarbonFootprint(batch).TotalScore
}
