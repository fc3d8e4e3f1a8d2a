package intake

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aduro-health/intake-assistant/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// fieldRule describes the validation applied to one profile field.
type fieldRule struct {
	required  bool
	minLength int
	validate  func(value string) (string, string) // cleaned, error message
}

var fieldRules = map[string]fieldRule{
	domain.FieldFirstName:           {required: true, minLength: 2},
	domain.FieldLastName:            {required: true, minLength: 2},
	domain.FieldCity:                {required: true, minLength: 2},
	domain.FieldEmail:               {required: true, validate: validateEmail},
	domain.FieldDateOfBirth:         {validate: validateDate},
	domain.FieldDietaryPreference:   {validate: validateDietaryPreference},
	domain.FieldMedicalConditions:   {},
	domain.FieldPhysicalLimitations: {},
}

// ValidateField checks a raw value for a profile field and returns the
// cleaned value on success or a user-facing error message on failure.
// A cleaned empty string on an optional field means the caller should
// clear the stored column. ValidateField is pure: failures are returned,
// never raised, so the caller can map them one-to-one to chat output.
func ValidateField(field, raw string) (ok bool, cleaned string, errMsg string) {
	rule, known := fieldRules[field]
	if !known {
		return false, "", fmt.Sprintf("Invalid field name: %s", field)
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		if rule.required {
			return false, "", fmt.Sprintf("%s is required.", fieldLabel(field))
		}
		return true, "", ""
	}

	if rule.validate != nil {
		cleaned, msg := rule.validate(value)
		if msg != "" {
			return false, "", msg
		}
		return true, cleaned, ""
	}

	if rule.minLength > 0 && len(value) < rule.minLength {
		return false, "", fmt.Sprintf("%s must be at least %d characters long.", fieldLabel(field), rule.minLength)
	}
	return true, value, ""
}

func validateEmail(value string) (string, string) {
	if !emailPattern.MatchString(value) {
		return "", "Invalid email format."
	}
	return value, ""
}

func validateDate(value string) (string, string) {
	if !datePattern.MatchString(value) {
		return "", "Date must be in YYYY-MM-DD format."
	}
	// The shape check alone admits dates like 1990-02-30.
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return "", "Date must be a real calendar date in YYYY-MM-DD format."
	}
	return value, ""
}

func validateDietaryPreference(value string) (string, string) {
	for _, allowed := range domain.DietaryPreferences {
		if strings.EqualFold(value, allowed) {
			return allowed, ""
		}
	}
	return "", fmt.Sprintf("Invalid dietary preference. Must be one of: %s.",
		strings.Join(domain.DietaryPreferences, ", "))
}

// fieldLabel turns a field name into prompt-friendly text, e.g.
// "first_name" becomes "First name".
func fieldLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// fieldPrompt is the question asked for a missing field.
func fieldPrompt(field string) string {
	return fmt.Sprintf("What's your %s?", strings.ReplaceAll(field, "_", " "))
}
