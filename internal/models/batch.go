package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role is the actor type that determines which stage transitions a user may
// perform.
type Role string

const (
	RoleFarmer      Role = "FARMER"
	RoleDistributor Role = "DISTRIBUTOR"
	RoleRetailer    Role = "RETAILER"
	RoleConsumer    Role = "CONSUMER"
	RoleInspector   Role = "INSPECTOR"
)

// ValidRole reports whether r is one of the known actor roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleFarmer, RoleDistributor, RoleRetailer, RoleConsumer, RoleInspector:
		return true
	}
	return false
}

// StageName is the lifecycle position of a batch. Wire spellings must stay
// exactly as listed; existing consumers match on them.
type StageName string

const (
	StageHarvested           StageName = "HARVESTED"
	StageInTransit           StageName = "IN_TRANSIT"
	StageAtDistributor       StageName = "AT_DISTRIBUTOR"
	StageInTransitToConsumer StageName = "IN_TRANSIT_TO_CONSUMER"
	StageAtConsumer          StageName = "AT_CONSUMER"
	StageAvailableForSale    StageName = "AVAILABLE_FOR_SALE"
	StageSold                StageName = "SOLD"
)

// stageOrder is the canonical total order over stages. Comparisons go through
// StageRank, never through declaration order.
var stageOrder = map[StageName]int{
	StageHarvested:           0,
	StageInTransit:           1,
	StageAtDistributor:       2,
	StageInTransitToConsumer: 3,
	StageAtConsumer:          4,
	StageAvailableForSale:    5,
	StageSold:                6,
}

// StageRank returns the position of s in the canonical stage order.
// Unknown stages rank as -1.
func StageRank(s StageName) int {
	rank, ok := stageOrder[s]
	if !ok {
		return -1
	}
	return rank
}

// StageDescriptions maps each stage to its display description.
var StageDescriptions = map[StageName]string{
	StageHarvested:           "Harvested at the Farm",
	StageInTransit:           "In Transit to Distributor",
	StageAtDistributor:       "Received by Distributor",
	StageInTransitToConsumer: "In Transit to Consumer",
	StageAtConsumer:          "Received by Consumer",
	StageAvailableForSale:    "Available for Sale",
	StageSold:                "Sold to Consumer",
}

// GeoLocation is a GPS fix attached to a stage event or sensor reading.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude,omitempty"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// Stage is one immutable lifecycle event in a batch's history.
// Timestamps serialize as ISO-8601 strings (RFC 3339), unlike sensor
// readings which use epoch milliseconds.
type Stage struct {
	ID        int64              `gorm:"primaryKey;autoIncrement" json:"-"`
	BatchID   string             `gorm:"index;not null" json:"-"`
	Name      StageName          `gorm:"not null" json:"name"`
	Timestamp time.Time          `gorm:"not null" json:"timestamp"`
	Actor     string             `gorm:"not null" json:"actor"`
	Details   datatypes.JSONMap  `gorm:"type:jsonb" json:"details"`
	TxHash    string             `json:"txHash"`
	Location  *datatypes.JSONMap `gorm:"type:jsonb" json:"location,omitempty"`

	CreatedAt time.Time `json:"-"`
}

func (Stage) TableName() string { return "batch_stages" }

// Batch is the aggregate root: one traceable unit of produce with an
// append-only history of lifecycle events.
// Invariants: history is non-empty once the batch exists (creation is the
// first entry), CurrentStage always equals the name of the last history
// entry, and stages only ever move forward in the canonical order.
type Batch struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	CropType      string    `gorm:"not null" json:"cropType"`
	FarmerID      string    `gorm:"index;not null" json:"farmerId"`
	FarmerName    string    `json:"farmerName"`
	FarmLocation  string    `json:"farmLocation"`
	QRCodeURL     string    `json:"qrCodeUrl"`
	RFIDTag       string    `json:"rfidTag,omitempty"`
	CurrentStage  StageName `gorm:"index;not null" json:"currentStage"`
	IoTSensorID   string    `gorm:"index" json:"iotSensorId"`
	HarvestDate   string    `json:"harvestDate"`
	ExpiryDate    string    `json:"expiryDate"`
	BatchWeight   float64   `json:"batchWeight"`
	PricePerUnit  float64   `json:"pricePerUnit"`
	Certifications datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"certifications,omitempty"`

	// Derived, refreshed on read; not ground truth.
	SustainabilityScore *float64 `json:"sustainabilityScore,omitempty"`
	PredictedShelfLife  *int     `json:"predictedShelfLife,omitempty"`

	History []Stage `gorm:"foreignKey:BatchID;references:ID" json:"history"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Batch) TableName() string { return "batches" }

// LastStage returns the most recent history entry, or nil for a batch whose
// history was not loaded.
func (b *Batch) LastStage() *Stage {
	if len(b.History) == 0 {
		return nil
	}
	return &b.History[len(b.History)-1]
}
