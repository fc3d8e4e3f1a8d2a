package intake

import (
	"strings"
)

// Intent labels produced by the router.
const (
	IntentGreeting      = "greeting"
	IntentProfileQuery  = "profile_query"
	IntentProfileUpdate = "profile_update"
	IntentCGMQuery      = "cgm_query"
	IntentCGMUpdate     = "cgm_update"
	IntentMealPlan      = "meal_plan"
	IntentUnknown       = "unknown"
)

// Intent is a coarse classification of a free-text message.
type Intent struct {
	Label      string
	Confidence float64
	Reasoning  string
}

// IntentRouter maps a message onto an intent label by keyword matching.
// It is deliberately a heuristic, not an NLU model: the phase machine
// only consults it once the pipeline is complete and free navigation is
// allowed.
type IntentRouter struct{}

// NewIntentRouter creates a keyword-based intent router.
func NewIntentRouter() *IntentRouter {
	return &IntentRouter{}
}

var (
	greetingWords = []string{"hello", "hi", "hey", "greetings"}
	profileWords  = []string{"profile", "my info", "my details"}
	updateWords   = []string{"update", "change", "log", "record"}
	cgmWords      = []string{"glucose", "sugar", "cgm", "blood"}
	mealWords     = []string{"meal", "food", "diet", "eat"}
)

// Classify returns the detected intent for a message. An empty message
// yields unknown with zero confidence; an unmatched one yields unknown
// with low confidence.
func (r *IntentRouter) Classify(message string) Intent {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return Intent{Label: IntentUnknown, Confidence: 0, Reasoning: "Empty or invalid message"}
	}

	switch {
	case containsAny(text, greetingWords):
		return Intent{Label: IntentGreeting, Confidence: 0.9, Reasoning: "Message contains common greeting words"}
	case containsAny(text, profileWords):
		if containsAny(text, updateWords) {
			return Intent{Label: IntentProfileUpdate, Confidence: 0.8, Reasoning: "User wants to update their profile information"}
		}
		return Intent{Label: IntentProfileQuery, Confidence: 0.7, Reasoning: "User is asking about their profile"}
	case containsAny(text, cgmWords):
		if containsAny(text, updateWords) {
			return Intent{Label: IntentCGMUpdate, Confidence: 0.85, Reasoning: "User wants to log CGM or blood sugar data"}
		}
		return Intent{Label: IntentCGMQuery, Confidence: 0.85, Reasoning: "Message relates to CGM or blood sugar data"}
	case containsAny(text, mealWords):
		return Intent{Label: IntentMealPlan, Confidence: 0.8, Reasoning: "Message relates to meal planning or diet"}
	}

	return Intent{Label: IntentUnknown, Confidence: 0.3, Reasoning: "Could not determine specific intent from message"}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
