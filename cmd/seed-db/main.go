// Command seed-db fills the database with sample users and CGM
// readings for demoing the intake pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/aduro-health/intake-assistant/internal/config"
	"github.com/aduro-health/intake-assistant/internal/database"
	"github.com/aduro-health/intake-assistant/internal/domain"
	"github.com/aduro-health/intake-assistant/internal/logger"
	"github.com/aduro-health/intake-assistant/internal/services"
	"github.com/joho/godotenv"
)

var (
	firstNames = []string{"Maya", "Arjun", "Sofia", "Liam", "Priya", "Noah", "Elena", "Ravi", "Grace", "Omar"}
	lastNames  = []string{"Patel", "Garcia", "Chen", "Okafor", "Silva", "Nakamura", "Kowalski", "Hansen", "Rossi", "Iyer"}
	cities     = []string{"Pune", "Austin", "Lisbon", "Nairobi", "Osaka", "Kraków", "Toronto", "Valencia", "Leeds", "Chennai"}

	medicalConditions = []string{"", "Type 2 diabetes", "Hypertension", "High cholesterol"}
	limitations       = []string{"", "Knee pain", "Limited mobility"}
)

func main() {
	count := flag.Int("users", 10, "number of sample users to create")
	readings := flag.Int("readings", 12, "CGM readings per user")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	profiles := services.NewProfileService(db)
	ctx := context.Background()

	for i := 0; i < *count; i++ {
		first := firstNames[rand.Intn(len(firstNames))]
		last := lastNames[rand.Intn(len(lastNames))]
		dob := time.Now().AddDate(-18-rand.Intn(60), -rand.Intn(12), -rand.Intn(28))

		userID, err := profiles.CreateProfile(ctx, &domain.UserProfile{
			FirstName:           first,
			LastName:            last,
			City:                cities[rand.Intn(len(cities))],
			Email:               fmt.Sprintf("%s.%s%d@example.com", first, last, i),
			DateOfBirth:         dob.Format("2006-01-02"),
			DietaryPreference:   domain.DietaryPreferences[rand.Intn(len(domain.DietaryPreferences))],
			MedicalConditions:   medicalConditions[rand.Intn(len(medicalConditions))],
			PhysicalLimitations: limitations[rand.Intn(len(limitations))],
		})
		if err != nil {
			logger.Fatal("Failed to create sample user", "error", err)
		}

		for j := 0; j < *readings; j++ {
			ts := time.Now().Add(-time.Duration(rand.Intn(7*24)) * time.Hour)
			// Centered on a normal-ish range with occasional spikes.
			value := float64(80 + rand.Intn(120))
			if _, err := profiles.SaveCGMReading(ctx, userID, value, ts, domain.InferReadingType(ts)); err != nil {
				logger.Fatal("Failed to create sample reading", "error", err)
			}
		}

		fmt.Printf("Created user #%d (%s %s) with %d readings\n", userID, first, last, *readings)
	}

	fmt.Printf("Done: %d users seeded.\n", *count)
}
