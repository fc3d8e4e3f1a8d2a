package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/aduro-health/intake-assistant/internal/domain"
)

// fakeStore is an in-memory ProfileStore with call counters and
// injectable failures.
type fakeStore struct {
	profile  *domain.UserProfile
	readings []domain.CGMReading

	getCalls     int
	updateCalls  int
	missingCalls int
	saveCalls    int

	updateErr  error
	missingErr error
	saveErr    func(value float64) error
}

func newFakeStore(profile *domain.UserProfile) *fakeStore {
	return &fakeStore{profile: profile}
}

func (s *fakeStore) GetProfile(ctx context.Context, userID uint) (*domain.UserProfile, error) {
	s.getCalls++
	if s.profile == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}
	copied := *s.profile
	return &copied, nil
}

func (s *fakeStore) CreateProfile(ctx context.Context, profile *domain.UserProfile) (uint, error) {
	copied := *profile
	copied.ID = 1
	s.profile = &copied
	return copied.ID, nil
}

func (s *fakeStore) UpdateField(ctx context.Context, userID uint, field, value string) error {
	s.updateCalls++
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.profile == nil {
		return fmt.Errorf("user %d not found", userID)
	}
	switch field {
	case domain.FieldFirstName:
		s.profile.FirstName = value
	case domain.FieldLastName:
		s.profile.LastName = value
	case domain.FieldCity:
		s.profile.City = value
	case domain.FieldEmail:
		s.profile.Email = value
	case domain.FieldDateOfBirth:
		s.profile.DateOfBirth = value
	case domain.FieldDietaryPreference:
		s.profile.DietaryPreference = value
	case domain.FieldMedicalConditions:
		s.profile.MedicalConditions = value
	case domain.FieldPhysicalLimitations:
		s.profile.PhysicalLimitations = value
	default:
		return fmt.Errorf("invalid field name: %s", field)
	}
	return nil
}

func (s *fakeStore) UserExists(ctx context.Context, userID uint) (bool, error) {
	return s.profile != nil, nil
}

func (s *fakeStore) MissingFields(ctx context.Context, userID uint) ([]string, error) {
	s.missingCalls++
	if s.missingErr != nil {
		return nil, s.missingErr
	}
	if s.profile == nil {
		return append([]string(nil), domain.RequiredFields...), nil
	}
	return s.profile.MissingFields(), nil
}

func (s *fakeStore) SaveCGMReading(ctx context.Context, userID uint, value float64, ts time.Time, readingType string) (uint, error) {
	s.saveCalls++
	if s.saveErr != nil {
		if err := s.saveErr(value); err != nil {
			return 0, err
		}
	}
	reading := domain.CGMReading{
		ID:          uint(len(s.readings) + 1),
		UserID:      userID,
		Value:       value,
		Timestamp:   ts,
		ReadingType: readingType,
	}
	s.readings = append(s.readings, reading)
	return reading.ID, nil
}

func (s *fakeStore) RecentReadings(ctx context.Context, userID uint, since time.Time) ([]domain.CGMReading, error) {
	return append([]domain.CGMReading(nil), s.readings...), nil
}

func (s *fakeStore) totalCalls() int {
	return s.getCalls + s.updateCalls + s.missingCalls + s.saveCalls
}

// fakePlanner returns a canned plan or error.
type fakePlanner struct {
	response string
	err      error
	calls    int
	lastMsg  string
}

func (p *fakePlanner) Plan(ctx context.Context, userID uint, message string) (string, error) {
	p.calls++
	p.lastMsg = message
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func completeProfile() *domain.UserProfile {
	return &domain.UserProfile{
		ID:                1,
		FirstName:         "Maya",
		LastName:          "Patel",
		City:              "Pune",
		Email:             "maya@example.com",
		DateOfBirth:       "1990-01-01",
		DietaryPreference: domain.DietVegetarian,
	}
}
