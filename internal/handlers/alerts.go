package handlers

import (
	"errors"
	"net/http"

	"github.com/agrichain/agrichaingo/internal/alerts"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/store"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// getAlerts scans the batch's readings for fresh threshold crossings,
// persists anything new, and returns all alerts newest-first. Deterministic
// alert IDs plus DoNothing-on-conflict make the scan idempotent.
func (r *Router) getAlerts(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	batchID := vars["id"]

	_, readings, err := r.batchReadings(req, 0)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Batch not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch readings")
		return
	}

	var existing []models.Alert
	if err := r.db.Where("batch_id = ?", batchID).Find(&existing).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch alerts")
		return
	}
	known := make(map[string]bool, len(existing))
	for _, a := range existing {
		known[a.ID] = true
	}

	fresh := alerts.Generate(batchID, readings, known, nil)
	if len(fresh) > 0 {
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to record alerts")
			return
		}
	}

	var all []models.Alert
	if err := r.db.Where("batch_id = ?", batchID).Order("timestamp DESC").Find(&all).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch alerts")
		return
	}
	respondJSON(w, http.StatusOK, all)
}

// acknowledgeAlert marks one alert as seen. Acknowledging an already
// acknowledged alert is a no-op success.
func (r *Router) acknowledgeAlert(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var alert models.Alert
	err := r.db.First(&alert, "id = ?", vars["id"]).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "Alert not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch alert")
		return
	}

	if !alert.Acknowledged {
		if err := r.db.Model(&alert).Update("acknowledged", true).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to acknowledge alert")
			return
		}
		alert.Acknowledged = true
	}
	respondJSON(w, http.StatusOK, alert)
}
