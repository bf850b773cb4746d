package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/agrichain/agrichaingo/internal/metrics"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/store"
	"github.com/gorilla/mux"
)

// batchReadings loads the reading series for a batch's sensor, ordered
// oldest to newest. limit==0 means the full series.
func (r *Router) batchReadings(req *http.Request, limit int) (*models.Batch, []models.SensorReading, error) {
	vars := mux.Vars(req)

	batch, err := r.store.GetBatch(req.Context(), vars["id"])
	if err != nil {
		return nil, nil, err
	}

	var readings []models.SensorReading
	q := r.db.Where("sensor_id = ?", batch.IoTSensorID).Order("timestamp ASC")
	if limit > 0 {
		// Trailing window: take the newest N, then flip back to ascending.
		sub := r.db.Model(&models.SensorReading{}).
			Select("id").
			Where("sensor_id = ?", batch.IoTSensorID).
			Order("timestamp DESC").
			Limit(limit)
		q = r.db.Where("id IN (?)", sub).Order("timestamp ASC")
	}
	if err := q.Find(&readings).Error; err != nil {
		return nil, nil, err
	}
	return batch, readings, nil
}

// getReadings returns the batch's sensor series. ?limit=N keeps the N most
// recent samples.
func (r *Router) getReadings(w http.ResponseWriter, req *http.Request) {
	limit := 0
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	_, readings, err := r.batchReadings(req, limit)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Batch not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch readings")
		return
	}
	respondJSON(w, http.StatusOK, readings)
}

// getMetrics returns the freshness / spoilage risk / trend summary for a
// batch. A sensor with no data yet is 422: the metrics are undefined, not
// zero.
func (r *Router) getMetrics(w http.ResponseWriter, req *http.Request) {
	_, readings, err := r.batchReadings(req, 0)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Batch not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch readings")
		return
	}

	summary, err := metrics.Compute(readings)
	if errors.Is(err, metrics.ErrInsufficientData) {
		respondError(w, http.StatusUnprocessableEntity, "No sensor data for this batch yet")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute metrics")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// getShelfLife returns the long-horizon spoilage prediction.
func (r *Router) getShelfLife(w http.ResponseWriter, req *http.Request) {
	batch, readings, err := r.batchReadings(req, 0)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Batch not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch readings")
		return
	}

	prediction, err := metrics.PredictShelfLife(batch, readings, time.Now())
	if errors.Is(err, metrics.ErrInsufficientData) {
		respondError(w, http.StatusUnprocessableEntity, "No sensor data for this batch yet")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute shelf life")
		return
	}
	respondJSON(w, http.StatusOK, prediction)
}

// getSustainability returns the carbon footprint breakdown derived from the
// batch record alone; no sensor data required.
func (r *Router) getSustainability(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	batch, err := r.store.GetBatch(req.Context(), vars["id"])
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Batch not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch batch")
		return
	}
	respondJSON(w, http.StatusOK, metrics.CarbonFootprint(batch))
}
