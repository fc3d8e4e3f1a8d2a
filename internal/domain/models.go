package domain

import (
	"time"
)

// Dietary preferences accepted in a user profile.
const (
	DietVegetarian    = "vegetarian"
	DietNonVegetarian = "non-vegetarian"
	DietVegan         = "vegan"
)

// DietaryPreferences lists the allowed values in canonical order.
var DietaryPreferences = []string{DietVegetarian, DietNonVegetarian, DietVegan}

// Profile field names.
const (
	FieldFirstName           = "first_name"
	FieldLastName            = "last_name"
	FieldCity                = "city"
	FieldEmail               = "email"
	FieldDateOfBirth         = "date_of_birth"
	FieldDietaryPreference   = "dietary_preference"
	FieldMedicalConditions   = "medical_conditions"
	FieldPhysicalLimitations = "physical_limitations"
)

// RequiredFields is the fixed priority order used when prompting for
// missing profile data. The order is an implementation choice but must
// stay total and deterministic.
var RequiredFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldDateOfBirth,
	FieldCity,
	FieldDietaryPreference,
}

// UserProfile represents a user of the intake assistant.
// A profile is complete when every field in RequiredFields is non-empty.
type UserProfile struct {
	ID                  uint
	CreatedAt           time.Time
	UpdatedAt           time.Time
	FirstName           string
	LastName            string
	City                string
	Email               string
	DateOfBirth         string // YYYY-MM-DD
	DietaryPreference   string
	MedicalConditions   string
	PhysicalLimitations string
}

// Complete reports whether all required fields are filled in.
func (p *UserProfile) Complete() bool {
	return len(p.MissingFields()) == 0
}

// MissingFields returns the required fields that are still empty, in
// priority order.
func (p *UserProfile) MissingFields() []string {
	var missing []string
	for _, field := range RequiredFields {
		if p.FieldValue(field) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// FieldValue returns the current value of a named profile field, or the
// empty string for unknown names.
func (p *UserProfile) FieldValue(field string) string {
	switch field {
	case FieldFirstName:
		return p.FirstName
	case FieldLastName:
		return p.LastName
	case FieldCity:
		return p.City
	case FieldEmail:
		return p.Email
	case FieldDateOfBirth:
		return p.DateOfBirth
	case FieldDietaryPreference:
		return p.DietaryPreference
	case FieldMedicalConditions:
		return p.MedicalConditions
	case FieldPhysicalLimitations:
		return p.PhysicalLimitations
	}
	return ""
}

// Meal-context labels inferred from a reading's timestamp.
const (
	ReadingBreakfast = "breakfast"
	ReadingLunch     = "lunch"
	ReadingDinner    = "dinner"
	ReadingSnack     = "snack"
)

// CGMReading represents a single glucose measurement in mg/dL.
// Readings are append-only: created on ingestion, never mutated.
type CGMReading struct {
	ID          uint
	CreatedAt   time.Time
	UserID      uint
	Value       float64
	Timestamp   time.Time
	ReadingType string
}

// InferReadingType maps a timestamp's local time of day onto a meal label:
// 06:00-10:59 breakfast, 11:00-15:59 lunch, 16:00-21:59 dinner, else snack.
func InferReadingType(ts time.Time) string {
	switch h := ts.Hour(); {
	case h >= 6 && h < 11:
		return ReadingBreakfast
	case h >= 11 && h < 16:
		return ReadingLunch
	case h >= 16 && h < 22:
		return ReadingDinner
	default:
		return ReadingSnack
	}
}
