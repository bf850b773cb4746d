package models

import (
	"time"

	"gorm.io/datatypes"
)

// AlertType classifies what threshold a reading crossed.
type AlertType string

const (
	AlertTemperature  AlertType = "TEMPERATURE"
	AlertHumidity     AlertType = "HUMIDITY"
	AlertLocation     AlertType = "LOCATION"
	AlertTampering    AlertType = "TAMPERING"
	AlertDelay        AlertType = "DELAY"
	AlertSpoilageRisk AlertType = "SPOILAGE_RISK"
)

// Severity buckets an alert's urgency.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Alert is a derived, acknowledgeable notification. Its ID is deterministic
// over (type, batch id, reading timestamp) so re-scanning the same readings
// never duplicates it. Acknowledgment is the only mutation; alerts are never
// deleted.
type Alert struct {
	ID           string             `gorm:"primaryKey" json:"id"`
	BatchID      string             `gorm:"index;not null" json:"batchId"`
	Type         AlertType          `gorm:"not null" json:"type"`
	Severity     Severity           `gorm:"not null" json:"severity"`
	Message      string             `json:"message"`
	Timestamp    int64              `gorm:"index;not null" json:"timestamp"`
	Acknowledged bool               `gorm:"default:false" json:"acknowledged"`
	Location     *datatypes.JSONMap `gorm:"type:jsonb" json:"location,omitempty"`

	CreatedAt time.Time `json:"-"`
}

func (Alert) TableName() string { return "alerts" }
