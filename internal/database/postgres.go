package database

import (
	"fmt"
	"time"

	"github.com/aduro-health/intake-assistant/internal/config"
	"github.com/aduro-health/intake-assistant/internal/database/migrations"
	"github.com/aduro-health/intake-assistant/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	TelegramID          int64 `gorm:"uniqueIndex;default:null"`
	FirstName           string
	LastName            string
	City                string
	Email               string `gorm:"index"`
	DateOfBirth         string // Format: "YYYY-MM-DD"
	DietaryPreference   string // vegetarian, non-vegetarian or vegan
	MedicalConditions   string
	PhysicalLimitations string
}

type CGMReading struct {
	gorm.Model
	UserID      uint `gorm:"index"`
	User        User
	Value       float64
	Timestamp   time.Time `gorm:"index"`
	ReadingType string    // breakfast, lunch, dinner or snack
}

func init() {
	// Readings are queried by user and time window when building meal plans.
	migrations.Register("202406_cgm_reading_user_ts_idx", func(db *gorm.DB) error {
		return db.Exec(
			"CREATE INDEX IF NOT EXISTS idx_cgm_readings_user_ts ON cgm_readings (user_id, timestamp)",
		).Error
	}, nil)
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&User{}, &CGMReading{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed")
	return db, nil
}
