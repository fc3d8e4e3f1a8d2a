package intake

import (
	"strings"
	"testing"

	"github.com/aduro-health/intake-assistant/internal/domain"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		raw         string
		wantOK      bool
		wantCleaned string
		wantErrPart string
	}{
		{
			name:        "first name accepted and trimmed",
			field:       domain.FieldFirstName,
			raw:         "  Maya  ",
			wantOK:      true,
			wantCleaned: "Maya",
		},
		{
			name:        "required field empty",
			field:       domain.FieldFirstName,
			raw:         "",
			wantErrPart: "First name is required.",
		},
		{
			name:        "required field whitespace only",
			field:       domain.FieldCity,
			raw:         "   ",
			wantErrPart: "City is required.",
		},
		{
			name:        "name below minimum length",
			field:       domain.FieldLastName,
			raw:         "P",
			wantErrPart: "Last name must be at least 2 characters long.",
		},
		{
			name:        "two character name is enough",
			field:       domain.FieldLastName,
			raw:         "Ng",
			wantOK:      true,
			wantCleaned: "Ng",
		},
		{
			name:        "valid email",
			field:       domain.FieldEmail,
			raw:         "maya@example.com",
			wantOK:      true,
			wantCleaned: "maya@example.com",
		},
		{
			name:        "email without at sign",
			field:       domain.FieldEmail,
			raw:         "maya.example.com",
			wantErrPart: "Invalid email format.",
		},
		{
			name:        "email without domain dot",
			field:       domain.FieldEmail,
			raw:         "maya@example",
			wantErrPart: "Invalid email format.",
		},
		{
			name:        "valid date of birth",
			field:       domain.FieldDateOfBirth,
			raw:         "1990-05-14",
			wantOK:      true,
			wantCleaned: "1990-05-14",
		},
		{
			name:        "date with wrong shape",
			field:       domain.FieldDateOfBirth,
			raw:         "14/05/1990",
			wantErrPart: "Date must be in YYYY-MM-DD format.",
		},
		{
			name:        "well shaped but impossible date",
			field:       domain.FieldDateOfBirth,
			raw:         "1990-02-30",
			wantErrPart: "Date must be a real calendar date",
		},
		{
			name:        "optional date left empty",
			field:       domain.FieldDateOfBirth,
			raw:         "",
			wantOK:      true,
			wantCleaned: "",
		},
		{
			name:        "dietary preference canonicalized",
			field:       domain.FieldDietaryPreference,
			raw:         "VEGAN",
			wantOK:      true,
			wantCleaned: "vegan",
		},
		{
			name:        "dietary preference outside allowed set",
			field:       domain.FieldDietaryPreference,
			raw:         "carnivore",
			wantErrPart: "Must be one of: vegetarian, non-vegetarian, vegan.",
		},
		{
			name:        "free text field passes through",
			field:       domain.FieldMedicalConditions,
			raw:         "type 2 diabetes",
			wantOK:      true,
			wantCleaned: "type 2 diabetes",
		},
		{
			name:        "unknown field name",
			field:       "shoe_size",
			raw:         "42",
			wantErrPart: "Invalid field name: shoe_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, cleaned, errMsg := ValidateField(tt.field, tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ValidateField(%q, %q) ok = %v, want %v (errMsg=%q)",
					tt.field, tt.raw, ok, tt.wantOK, errMsg)
			}
			if tt.wantOK {
				if cleaned != tt.wantCleaned {
					t.Errorf("cleaned = %q, want %q", cleaned, tt.wantCleaned)
				}
				if errMsg != "" {
					t.Errorf("unexpected error message %q on success", errMsg)
				}
				return
			}
			if !strings.Contains(errMsg, tt.wantErrPart) {
				t.Errorf("error message %q does not contain %q", errMsg, tt.wantErrPart)
			}
			if cleaned != "" {
				t.Errorf("cleaned = %q on failure, want empty", cleaned)
			}
		})
	}
}

func TestFieldLabel(t *testing.T) {
	if got := fieldLabel(domain.FieldFirstName); got != "First name" {
		t.Errorf("fieldLabel(first_name) = %q, want %q", got, "First name")
	}
	if got := fieldLabel(domain.FieldDietaryPreference); got != "Dietary preference" {
		t.Errorf("fieldLabel(dietary_preference) = %q, want %q", got, "Dietary preference")
	}
}
