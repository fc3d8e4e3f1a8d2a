package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aduro-health/intake-assistant/internal/database"
	"github.com/aduro-health/intake-assistant/internal/domain"
	"gorm.io/gorm"
)

// Outer sanity bounds for a glucose reading in mg/dL.
const (
	MinGlucoseValue = 0
	MaxGlucoseValue = 1000
)

// allowedColumns whitelists the profile columns UpdateField may touch.
var allowedColumns = map[string]bool{
	domain.FieldFirstName:           true,
	domain.FieldLastName:            true,
	domain.FieldCity:                true,
	domain.FieldEmail:               true,
	domain.FieldDateOfBirth:         true,
	domain.FieldDietaryPreference:   true,
	domain.FieldMedicalConditions:   true,
	domain.FieldPhysicalLimitations: true,
}

// ProfileService is the gorm-backed ProfileStore implementation.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// RegisterTelegramUser finds or creates the bare profile row backing a
// Telegram account. Profile fields stay empty so the intake pipeline
// collects validated values instead of trusting Telegram metadata.
func (s *ProfileService) RegisterTelegramUser(ctx context.Context, telegramID int64) (uint, error) {
	user := database.User{TelegramID: telegramID}
	result := s.db.WithContext(ctx).FirstOrCreate(&user, database.User{TelegramID: telegramID})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to register telegram user: %w", result.Error)
	}
	return user.ID, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*domain.UserProfile, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d not found: %w", userID, err)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return toDomainProfile(&user), nil
}

func (s *ProfileService) CreateProfile(ctx context.Context, profile *domain.UserProfile) (uint, error) {
	user := database.User{
		FirstName:           profile.FirstName,
		LastName:            profile.LastName,
		City:                profile.City,
		Email:               profile.Email,
		DateOfBirth:         profile.DateOfBirth,
		DietaryPreference:   profile.DietaryPreference,
		MedicalConditions:   profile.MedicalConditions,
		PhysicalLimitations: profile.PhysicalLimitations,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return 0, fmt.Errorf("failed to create user profile: %w", err)
	}
	return user.ID, nil
}

// UpdateField writes one profile column. An empty value clears the column.
func (s *ProfileService) UpdateField(ctx context.Context, userID uint, field, value string) error {
	if !allowedColumns[field] {
		return fmt.Errorf("invalid field name: %s", field)
	}

	result := s.db.WithContext(ctx).
		Model(&database.User{}).
		Where("id = ?", userID).
		Update(field, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s for user %d: %w", field, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d not found", userID)
	}
	return nil
}

func (s *ProfileService) UserExists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&database.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user %d: %w", userID, err)
	}
	return count > 0, nil
}

// MissingFields returns the required profile fields still empty for the
// user, in prompt priority order.
func (s *ProfileService) MissingFields(ctx context.Context, userID uint) ([]string, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.MissingFields(), nil
}

func (s *ProfileService) SaveCGMReading(ctx context.Context, userID uint, value float64, ts time.Time, readingType string) (uint, error) {
	if value < MinGlucoseValue || value > MaxGlucoseValue {
		return 0, fmt.Errorf("invalid glucose value: must be between %d and %d mg/dL", MinGlucoseValue, MaxGlucoseValue)
	}

	exists, err := s.UserExists(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("unknown user: user %d not found", userID)
	}

	if ts.IsZero() {
		ts = time.Now()
	}
	if readingType == "" {
		readingType = domain.InferReadingType(ts)
	}

	reading := database.CGMReading{
		UserID:      userID,
		Value:       value,
		Timestamp:   ts,
		ReadingType: readingType,
	}
	if err := s.db.WithContext(ctx).Create(&reading).Error; err != nil {
		return 0, fmt.Errorf("failed to save CGM reading: %w", err)
	}
	return reading.ID, nil
}

func (s *ProfileService) RecentReadings(ctx context.Context, userID uint, since time.Time) ([]domain.CGMReading, error) {
	var rows []database.CGMReading
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get CGM readings for user %d: %w", userID, err)
	}

	readings := make([]domain.CGMReading, 0, len(rows))
	for i := range rows {
		readings = append(readings, domain.CGMReading{
			ID:          rows[i].ID,
			CreatedAt:   rows[i].CreatedAt,
			UserID:      rows[i].UserID,
			Value:       rows[i].Value,
			Timestamp:   rows[i].Timestamp,
			ReadingType: rows[i].ReadingType,
		})
	}
	return readings, nil
}

func toDomainProfile(u *database.User) *domain.UserProfile {
	return &domain.UserProfile{
		ID:                  u.ID,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		City:                u.City,
		Email:               u.Email,
		DateOfBirth:         u.DateOfBirth,
		DietaryPreference:   u.DietaryPreference,
		MedicalConditions:   u.MedicalConditions,
		PhysicalLimitations: u.PhysicalLimitations,
	}
}
