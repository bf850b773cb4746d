// Package report renders consumer-facing artifacts for a batch: the QR code
// that links to the public trace view and a printable traceability
// certificate.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/agrichain/agrichaingo/internal/metrics"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// QRPNG renders the batch's consumer URL as a PNG QR code.
func QRPNG(batch *models.Batch, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(batch.QRCodeURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode QR for %s: %w", batch.ID, err)
	}
	return png, nil
}

// CertificatePDF builds the one-page traceability certificate: batch header,
// stage timeline, quality summary and the trace QR code.
func CertificatePDF(batch *models.Batch, summary *metrics.Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "AgriChain Traceability Certificate")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Batch ID", batch.ID},
		{"Crop", batch.CropType},
		{"Farmer", batch.FarmerName},
		{"Farm", batch.FarmLocation},
		{"Harvest Date", batch.HarvestDate},
		{"Current Stage", string(batch.CurrentStage)},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(40, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Stage timeline
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Supply Chain Timeline")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(55, 7, "Stage", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 7, "Timestamp", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Actor", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, s := range batch.History {
		pdf.CellFormat(55, 7, models.StageDescriptions[s.Name], "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, s.Timestamp.Format(time.RFC3339), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, s.Actor, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Quality summary, when sensor data was available
	if summary != nil {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Quality Summary")
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("Freshness score: %.0f / 100", summary.Freshness), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("Spoilage risk: %s", summary.SpoilageRisk), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("Freshness trend: %s", summary.Trend), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}

	// Trace QR
	png, err := QRPNG(batch, 256)
	if err != nil {
		return nil, err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("trace-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("trace-qr", 15, pdf.GetY(), 40, 40, false, opts, 0, "")

	pdf.SetY(pdf.GetY() + 42)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Scan to verify provenance. Generated %s", time.Now().UTC().Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate for %s: %w", batch.ID, err)
	}
	return buf.Bytes(), nil
}
