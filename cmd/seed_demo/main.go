package main

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/agrichain/agrichaingo/internal/config"
	"github.com/agrichain/agrichaingo/internal/database"
	"github.com/agrichain/agrichaingo/internal/ledger"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/utils"
	"gorm.io/gorm/clause"
)

func main() {
	fmt.Println("🌱 AgriChain Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Batch{},
		&models.Stage{},
		&models.SensorReading{},
		&models.Alert{},
		&models.LedgerEntry{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	seedUsers(db)
	seedBatches(db)
	seedReadings(db)

	fmt.Println()
	fmt.Println("✅ Demo data seeded. Login with farmer@test.com / demo1234")
}

func seedUsers(db *database.DB) {
	fmt.Println("👤 Seeding demo users...")

	hash, err := utils.HashPassword("demo1234")
	if err != nil {
		log.Fatalf("❌ Failed to hash demo password: %v", err)
	}

	users := []models.UserAuth{
		{ID: "b0a1c2d3-0001-4000-8000-000000000001", Name: "Alice Farmer", Email: "farmer@test.com", Password: hash, Role: models.RoleFarmer},
		{ID: "b0a1c2d3-0002-4000-8000-000000000002", Name: "Bob Distributor", Email: "distributor@test.com", Password: hash, Role: models.RoleDistributor},
		{ID: "b0a1c2d3-0003-4000-8000-000000000003", Name: "Charlie Consumer", Email: "consumer@test.com", Password: hash, Role: models.RoleConsumer},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error; err != nil {
		log.Fatalf("❌ Failed to seed users: %v", err)
	}
	fmt.Printf("   %d users\n", len(users))
}

func seedBatches(db *database.DB) {
	fmt.Println("📦 Seeding demo batches...")

	harvestB001 := time.Date(2023, 10, 25, 8, 0, 0, 0, time.UTC)
	harvestB002 := time.Date(2023, 10, 26, 11, 0, 0, 0, time.UTC)

	batches := []models.Batch{
		{
			ID:           "B001",
			CropType:     "Organic Tomatoes",
			FarmerID:     "b0a1c2d3-0001-4000-8000-000000000001",
			FarmerName:   "Alice Farmer",
			FarmLocation: "Green Valley Farms, CA",
			QRCodeURL:    "#/consumer/B001",
			CurrentStage: models.StageAtConsumer,
			IoTSensorID:  "SENSOR-A1",
			HarvestDate:  "2023-10-25",
			BatchWeight:  500,
			History: []models.Stage{
				demoStage("B001", models.StageHarvested, harvestB001, "Alice Farmer", map[string]interface{}{"quantity": "500 kg"}),
				demoStage("B001", models.StageInTransit, harvestB001.Add(6*time.Hour), "Speedy Logistics", map[string]interface{}{"vehicleId": "TRUCK-01"}),
				demoStage("B001", models.StageAtDistributor, harvestB001.Add(25*time.Hour), "Bob Distributor", map[string]interface{}{"warehouse": "Central Hub"}),
				demoStage("B001", models.StageInTransitToConsumer, harvestB001.Add(34*time.Hour), "Speedy Logistics", map[string]interface{}{"vehicleId": "TRUCK-05"}),
				demoStage("B001", models.StageAtConsumer, harvestB001.Add(50*time.Hour), "Charlie Consumer", map[string]interface{}{"store": "Fresh Mart"}),
			},
		},
		{
			ID:           "B002",
			CropType:     "Golden Apples",
			FarmerID:     "b0a1c2d3-0001-4000-8000-000000000001",
			FarmerName:   "Alice Farmer",
			FarmLocation: "Sunny Orchard, WA",
			QRCodeURL:    "#/consumer/B002",
			CurrentStage: models.StageInTransit,
			IoTSensorID:  "SENSOR-B2",
			HarvestDate:  "2023-10-26",
			BatchWeight:  1200,
			History: []models.Stage{
				demoStage("B002", models.StageHarvested, harvestB002, "Alice Farmer", map[string]interface{}{"quantity": "1200 kg"}),
				demoStage("B002", models.StageInTransit, harvestB002.Add(270*time.Minute), "Cold Chain Movers", map[string]interface{}{"vehicleId": "REEFER-12"}),
			},
		},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&batches).Error; err != nil {
		log.Fatalf("❌ Failed to seed batches: %v", err)
	}
	fmt.Printf("   %d batches\n", len(batches))
}

func demoStage(batchID string, name models.StageName, ts time.Time, actor string, details map[string]interface{}) models.Stage {
	return models.Stage{
		Name:      name,
		Timestamp: ts,
		Actor:     actor,
		Details:   details,
		TxHash:    ledger.TxHash(batchID, name, ts, actor),
	}
}

func seedReadings(db *database.DB) {
	fmt.Println("🌡️ Seeding sensor readings...")

	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	// SENSOR-A1: 50 hourly samples around 18°C / 60% RH
	var readings []models.SensorReading
	for i := 0; i < 50; i++ {
		readings = append(readings, models.SensorReading{
			SensorID:    "SENSOR-A1",
			Timestamp:   now.Add(time.Duration(i-50) * time.Hour).UnixMilli(),
			Temperature: round2(18 + math.Sin(float64(i)/5)*2 + rng.Float64()*0.5),
			Humidity:    round2(60 + math.Cos(float64(i)/5)*5 + rng.Float64()),
		})
	}

	// SENSOR-B2: 20 hourly samples around 22°C / 70% RH
	for i := 0; i < 20; i++ {
		readings = append(readings, models.SensorReading{
			SensorID:    "SENSOR-B2",
			Timestamp:   now.Add(time.Duration(i-20) * time.Hour).UnixMilli(),
			Temperature: round2(22 + math.Sin(float64(i)/3)*3 + rng.Float64()*0.8),
			Humidity:    round2(70 + math.Cos(float64(i)/3)*8 + rng.Float64()),
		})
	}

	if err := db.Create(&readings).Error; err != nil {
		log.Fatalf("❌ Failed to seed readings: %v", err)
	}
	fmt.Printf("   %d readings\n", len(readings))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
