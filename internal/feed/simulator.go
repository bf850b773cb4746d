// Package feed simulates the external IoT sensor network. Every tick it
// random-walks each active batch's sensor, persists the sample and pushes it
// to live viewers. Randomness is confined to this collaborator; everything
// downstream (metrics, alerts) is deterministic over the stored samples.
package feed

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/agrichain/agrichaingo/internal/lifecycle"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/websocket"
	"gorm.io/gorm"
)

// Simulator owns the background generation loop. Lifecycle is tied to the
// process: Start at boot, Stop on shutdown.
type Simulator struct {
	db       *gorm.DB
	hub      *websocket.Hub
	interval time.Duration
	retain   int
	rng      *rand.Rand

	mu        sync.Mutex
	isRunning bool
	stopChan  chan struct{}
}

// NewSimulator builds a simulator ticking at the given interval and keeping
// the trailing retain samples per sensor.
func NewSimulator(db *gorm.DB, hub *websocket.Hub, interval time.Duration, retain int) *Simulator {
	return &Simulator{
		db:       db,
		hub:      hub,
		interval: interval,
		retain:   retain,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		stopChan: make(chan struct{}),
	}
}

// Start starts the feed loop
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("feed simulator already running")
	}
	s.isRunning = true

	go s.loop()
	log.Printf("✅ Sensor feed simulator started (every %s)", s.interval)
	return nil
}

// Stop stops the feed loop
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
	log.Println("🛑 Sensor feed simulator stopped")
}

func (s *Simulator) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopChan:
			return
		}
	}
}

// tick emits one new reading per sensor attached to a non-terminal batch.
func (s *Simulator) tick() {
	var batches []models.Batch
	err := s.db.Model(&models.Batch{}).
		Select("iot_sensor_id", "current_stage").
		Where("iot_sensor_id <> ''").
		Find(&batches).Error
	if err != nil {
		log.Printf("⚠️ Feed: failed to list sensors: %v", err)
		return
	}

	for _, sensorID := range activeSensors(batches) {
		reading, err := s.nextReading(sensorID)
		if err != nil {
			log.Printf("⚠️ Feed: sensor %s: %v", sensorID, err)
			continue
		}

		if err := s.db.Create(&reading).Error; err != nil {
			log.Printf("⚠️ Feed: save reading for %s: %v", sensorID, err)
			continue
		}
		s.hub.BroadcastReading(sensorID, reading)
		s.prune(sensorID)
	}
}

// activeSensors returns the distinct sensor ids of batches still moving
// through the chain. Terminal batches keep their history but stop feeding.
func activeSensors(batches []models.Batch) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range batches {
		if b.IoTSensorID == "" || seen[b.IoTSensorID] || lifecycle.IsTerminal(b.CurrentStage) {
			continue
		}
		seen[b.IoTSensorID] = true
		out = append(out, b.IoTSensorID)
	}
	return out
}

// nextReading continues the sensor's random walk from its last sample, or
// starts a fresh baseline for a new sensor.
func (s *Simulator) nextReading(sensorID string) (models.SensorReading, error) {
	lastTemp, lastHumidity := 20.0, 65.0

	var last models.SensorReading
	err := s.db.Where("sensor_id = ?", sensorID).
		Order("timestamp DESC").
		First(&last).Error
	switch {
	case err == nil:
		lastTemp, lastHumidity = last.Temperature, last.Humidity
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return models.SensorReading{}, err
	}

	temp := round2(lastTemp + (s.rng.Float64()-0.5)*0.2)
	humidity := round2(lastHumidity + (s.rng.Float64()-0.5)*0.5)

	return models.SensorReading{
		SensorID:     sensorID,
		Timestamp:    time.Now().UnixMilli(),
		Temperature:  temp,
		Humidity:     humidity,
		BatteryLevel: round2(80 + s.rng.Float64()*20),
	}, nil
}

// prune keeps the working set bounded, mirroring the 200-sample cap of the
// original feed.
func (s *Simulator) prune(sensorID string) {
	var count int64
	if err := s.db.Model(&models.SensorReading{}).Where("sensor_id = ?", sensorID).Count(&count).Error; err != nil {
		return
	}
	if count <= int64(s.retain) {
		return
	}

	excess := count - int64(s.retain)
	err := s.db.Exec(`DELETE FROM sensor_readings WHERE id IN (
		SELECT id FROM sensor_readings WHERE sensor_id = ? ORDER BY timestamp ASC LIMIT ?)`,
		sensorID, excess).Error
	if err != nil {
		log.Printf("⚠️ Feed: prune %s: %v", sensorID, err)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
