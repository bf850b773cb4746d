package models

import (
	"time"

	"gorm.io/datatypes"
)

// SensorReading is one immutable point sample from a batch's IoT sensor.
// The wire timestamp is epoch milliseconds (not ISO-8601 — that format is
// reserved for stage events).
type SensorReading struct {
	ID          int64              `gorm:"primaryKey;autoIncrement" json:"-"`
	SensorID    string             `gorm:"index;not null" json:"-"`
	Timestamp   int64              `gorm:"index;not null" json:"timestamp"`
	Temperature float64            `json:"temperature"`
	Humidity    float64            `json:"humidity"`
	Ethylene    float64            `json:"ethylene,omitempty"`
	CO2         float64            `json:"co2,omitempty"`
	Light       float64            `json:"light,omitempty"`
	BatteryLevel float64           `json:"batteryLevel,omitempty"`
	GPSLocation *datatypes.JSONMap `gorm:"type:jsonb" json:"gpsLocation,omitempty"`

	CreatedAt time.Time `json:"-"`
}

func (SensorReading) TableName() string { return "sensor_readings" }

// Time converts the epoch-millis timestamp to a time.Time.
func (r SensorReading) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}
