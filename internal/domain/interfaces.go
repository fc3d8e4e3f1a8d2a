package domain

import (
	"context"
	"time"
)

// ProfileStore handles user profile and CGM reading persistence.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID uint) (*UserProfile, error)
	CreateProfile(ctx context.Context, profile *UserProfile) (uint, error)
	UpdateField(ctx context.Context, userID uint, field, value string) error
	UserExists(ctx context.Context, userID uint) (bool, error)
	MissingFields(ctx context.Context, userID uint) ([]string, error)
	SaveCGMReading(ctx context.Context, userID uint, value float64, ts time.Time, readingType string) (uint, error)
	RecentReadings(ctx context.Context, userID uint, since time.Time) ([]CGMReading, error)
}

// MealPlanner generates a meal plan for a user. Implementations must not
// mutate stored data; they only read the profile and CGM history.
type MealPlanner interface {
	Plan(ctx context.Context, userID uint, message string) (string, error)
}
