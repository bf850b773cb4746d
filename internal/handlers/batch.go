package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agrichain/agrichaingo/internal/middleware"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/store"
	"github.com/agrichain/agrichaingo/internal/trace"
	"github.com/gorilla/mux"
)

// CreateBatchRequest carries the farmer's new-batch form.
type CreateBatchRequest struct {
	CropType     string  `json:"cropType"`
	FarmLocation string  `json:"farmLocation"`
	HarvestDate  string  `json:"harvestDate"`
	ExpiryDate   string  `json:"expiryDate"`
	BatchWeight  float64 `json:"batchWeight"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Quantity     string  `json:"quantity"`
	SensorID     string  `json:"iotSensorId"`
}

// createBatch registers a new batch for the authenticated farmer.
func (r *Router) createBatch(w http.ResponseWriter, req *http.Request) {
	actorID, actorName, actorRole, ok := middleware.Actor(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unknown actor")
		return
	}

	var in CreateBatchRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if in.CropType == "" {
		respondError(w, http.StatusBadRequest, "cropType is required")
		return
	}

	farmer := &models.UserAuth{ID: actorID, Name: actorName, Role: actorRole}
	batch, err := r.trace.CreateBatch(req.Context(), trace.CreateBatchInput{
		CropType:     in.CropType,
		FarmLocation: in.FarmLocation,
		HarvestDate:  in.HarvestDate,
		ExpiryDate:   in.ExpiryDate,
		BatchWeight:  in.BatchWeight,
		PricePerUnit: in.PricePerUnit,
		Quantity:     in.Quantity,
		SensorID:     in.SensorID,
	}, farmer)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create batch")
		return
	}
	respondJSON(w, http.StatusCreated, batch)
}

// listBatches returns the batches visible to the authenticated role.
func (r *Router) listBatches(w http.ResponseWriter, req *http.Request) {
	actorID, _, actorRole, ok := middleware.Actor(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unknown actor")
		return
	}

	batches, err := r.store.ListBatchesForRole(req.Context(), actorRole, actorID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch batches")
		return
	}
	respondJSON(w, http.StatusOK, batches)
}

// getBatch returns one batch with its full history.
func (r *Router) getBatch(w http.ResponseWriter, req *http.Request) {
	r.serveBatch(w, req)
}

// getBatchPublic is the unauthenticated consumer trace view the QR code
// points at.
func (r *Router) getBatchPublic(w http.ResponseWriter, req *http.Request) {
	r.serveBatch(w, req)
}

func (r *Router) serveBatch(w http.ResponseWriter, req *http.Request) {
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
	respondJSON(w, http.StatusOK, batch)
}

// AdvanceStageRequest optionally carries stage metadata (vehicle, warehouse...).
type AdvanceStageRequest struct {
	Details map[string]interface{} `json:"details"`
}

// advanceStage moves a batch to the single next stage the actor's role
// permits. Declined transitions return the permitted next stage (if any) as
// guidance and never mutate the batch.
func (r *Router) advanceStage(w http.ResponseWriter, req *http.Request) {
	_, actorName, actorRole, ok := middleware.Actor(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unknown actor")
		return
	}

	vars := mux.Vars(req)
	var in AdvanceStageRequest
	// Body is optional
	_ = json.NewDecoder(req.Body).Decode(&in)

	res, err := r.trace.AdvanceStage(req.Context(), vars["id"], actorRole, actorName, in.Details)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "Batch not found")
		return
	case errors.Is(err, trace.ErrIllegalTransition):
		body := map[string]interface{}{"error": err.Error()}
		if next, role, ok, perr := r.trace.PermittedNext(req.Context(), vars["id"]); perr == nil && ok {
			body["permittedNext"] = next
			body["requiredRole"] = role
		}
		respondJSON(w, http.StatusForbidden, body)
		return
	case errors.Is(err, store.ErrConcurrentModification):
		respondError(w, http.StatusConflict, "Batch was updated concurrently, retry")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to advance stage")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"newStage": res.NewStage,
		"batch":    res.Batch,
	})
}
