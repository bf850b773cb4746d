package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/agrichain/agrichaingo/internal/ledger"
	"github.com/agrichain/agrichaingo/internal/metrics"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/services/report"
	"github.com/agrichain/agrichaingo/internal/store"
	"github.com/gorilla/mux"
	"gorm.io/gorm/clause"
)

// getLedger returns the batch's blockchain-style transaction chain. The
// chain is derived from the stage history and persisted on read; content
// hashes plus DoNothing-on-conflict make re-derivation idempotent, same as
// the alert scan.
func (r *Router) getLedger(w http.ResponseWriter, req *http.Request) {
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

	derived := ledger.BuildChain(batch)
	if len(derived) > 0 {
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&derived).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to record ledger entries")
			return
		}
	}

	var chain []models.LedgerEntry
	if err := r.db.Where("batch_id = ?", batch.ID).Order("timestamp ASC, id ASC").Find(&chain).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch ledger")
		return
	}
	respondJSON(w, http.StatusOK, chain)
}

// getQRCode serves the batch's trace QR code as a PNG. Public, so a printed
// label resolves without a login.
func (r *Router) getQRCode(w http.ResponseWriter, req *http.Request) {
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

	png, err := report.QRPNG(batch, 256)
	if err != nil {
		log.Printf("⚠️ QR generation failed for %s: %v", batch.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// getCertificate serves the traceability certificate PDF. The quality
// summary section is included when sensor data exists and omitted otherwise.
func (r *Router) getCertificate(w http.ResponseWriter, req *http.Request) {
	batch, readings, err := r.batchReadings(req, 0)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Batch not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch batch")
		return
	}

	var summary *metrics.Summary
	if s, err := metrics.Compute(readings); err == nil {
		summary = &s
	}

	pdf, err := report.CertificatePDF(batch, summary)
	if err != nil {
		log.Printf("⚠️ Certificate generation failed for %s: %v", batch.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to generate certificate")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=certificate-%s.pdf", batch.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// getRecipes suggests recipes for a crop type (?crop=strawberries).
func (r *Router) getRecipes(w http.ResponseWriter, req *http.Request) {
	crop := req.URL.Query().Get("crop")
	if crop == "" {
		respondError(w, http.StatusBadRequest, "crop query parameter is required")
		return
	}

	recipes, err := r.suggester.Suggest(req.Context(), crop)
	if err != nil {
		log.Printf("⚠️ Recipe suggestion failed for %q: %v", crop, err)
		respondError(w, http.StatusInternalServerError, "Failed to suggest recipes")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"crop":    crop,
		"recipes": recipes,
	})
}
