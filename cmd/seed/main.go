package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"fintrack/internal/database"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/shopspring/decimal"
)

var seedCategories = []string{
	"Food", "Utilities", "Entertainment", "Transportation",
	"Housing", "Healthcare", "Education", "Shopping",
}

func main() {
	year := flag.Int("year", 2025, "calendar year to generate records for")
	userID := flag.String("user", models.DefaultUserID, "owner of the generated records")
	flag.Parse()

	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(*year, *userID); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run(year int, userID string) error {
	log := logger.Get()
	ctx := context.Background()

	cfg, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	dbManager := database.NewManager(cfg)
	defer func() { _ = dbManager.Close() }()

	db, err := dbManager.Connect(ctx)
	if err != nil {
		return err
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	svc := services.NewRecordService(db)

	removed, err := svc.DeleteUserRecords(ctx, userID)
	if err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	log.Infow("cleared existing records", "user_id", userID, "count", removed)

	inserted, err := svc.SeedRecords(ctx, generate(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), userID, year))
	if err != nil {
		return fmt.Errorf("seeding records: %w", err)
	}
	log.Infow("seeded records", "user_id", userID, "year", year, "count", inserted)
	return nil
}

// generate builds three to seven expense records for every month of year.
func generate(rng *rand.Rand, userID string, year int) []models.Record {
	var records []models.Record
	for month := time.January; month <= time.December; month++ {
		days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
		n := 3 + rng.IntN(5)
		for range n {
			category := seedCategories[rng.IntN(len(seedCategories))]
			cents := 5000 + rng.Int64N(45001)
			records = append(records, models.Record{
				UserID:        userID,
				Date:          time.Date(year, month, 1+rng.IntN(days), 0, 0, 0, 0, time.UTC),
				Description:   fmt.Sprintf("%s expense", category),
				Amount:        decimal.New(cents, -2),
				Category:      category,
				PaymentMethod: models.PaymentMethods[rng.IntN(len(models.PaymentMethods))],
			})
		}
	}
	return records
}
