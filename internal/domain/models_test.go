package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestMissingFieldsOrder(t *testing.T) {
	p := &UserProfile{FirstName: "Maya", City: "Pune"}

	want := []string{FieldLastName, FieldEmail, FieldDateOfBirth, FieldDietaryPreference}
	if got := p.MissingFields(); !reflect.DeepEqual(got, want) {
		t.Errorf("MissingFields() = %v, want %v", got, want)
	}
	if p.Complete() {
		t.Error("Complete() = true with missing fields")
	}

	p.LastName = "Patel"
	p.Email = "maya@example.com"
	p.DateOfBirth = "1990-01-01"
	p.DietaryPreference = DietVegetarian
	if !p.Complete() {
		t.Errorf("Complete() = false, missing %v", p.MissingFields())
	}
}

func TestFieldValueUnknownField(t *testing.T) {
	p := &UserProfile{FirstName: "Maya"}
	if got := p.FieldValue("shoe_size"); got != "" {
		t.Errorf("FieldValue(shoe_size) = %q, want empty", got)
	}
}

func TestInferReadingType(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, ReadingSnack},
		{6, ReadingBreakfast},
		{10, ReadingBreakfast},
		{11, ReadingLunch},
		{15, ReadingLunch},
		{16, ReadingDinner},
		{21, ReadingDinner},
		{22, ReadingSnack},
		{0, ReadingSnack},
	}
	for _, tt := range tests {
		ts := time.Date(2026, 8, 29, tt.hour, 0, 0, 0, time.UTC)
		if got := InferReadingType(ts); got != tt.want {
			t.Errorf("InferReadingType(%02d:00) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}
