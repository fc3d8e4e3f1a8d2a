package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aduro-health/intake-assistant/internal/domain"
	"github.com/aduro-health/intake-assistant/internal/logger"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultPlanDays is how many days of CGM history feed a plan.
const DefaultPlanDays = 7

// MealPlanService generates meal plans from the user's profile and
// recent CGM readings. With a Gemini API key it asks the model for the
// plan; without one, or when the model call fails, it falls back to a
// deterministic template so the pipeline always completes.
type MealPlanService struct {
	store        domain.ProfileStore
	geminiClient *genai.Client
}

// NewMealPlanService creates a meal plan service. An empty API key
// disables the LLM path.
func NewMealPlanService(store domain.ProfileStore, geminiAPIKey string) *MealPlanService {
	var client *genai.Client
	if geminiAPIKey != "" {
		var err error
		client, err = genai.NewClient(context.Background(), option.WithAPIKey(geminiAPIKey))
		if err != nil {
			logger.Warn("Failed to create Gemini client, using template plans", "error", err)
			client = nil
		}
	}
	return &MealPlanService{store: store, geminiClient: client}
}

// Plan implements domain.MealPlanner.
func (s *MealPlanService) Plan(ctx context.Context, userID uint, message string) (string, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load profile for meal plan: %w", err)
	}

	since := time.Now().AddDate(0, 0, -DefaultPlanDays)
	readings, err := s.store.RecentReadings(ctx, userID, since)
	if err != nil {
		return "", fmt.Errorf("failed to load CGM readings for meal plan: %w", err)
	}

	if s.geminiClient != nil {
		plan, err := s.planWithGemini(ctx, profile, readings)
		if err == nil {
			return plan, nil
		}
		logger.Warn("Gemini meal plan failed, using template", "user_id", userID, "error", err)
	}

	return s.templatePlan(profile, readings), nil
}

func (s *MealPlanService) planWithGemini(ctx context.Context, profile *domain.UserProfile, readings []domain.CGMReading) (string, error) {
	model := s.geminiClient.GenerativeModel("gemini-1.5-flash")

	prompt := fmt.Sprintf(`You are a clinical dietitian assistant. Create a one-day meal plan with three meals (breakfast, lunch, dinner) for the user below.

REQUIREMENTS:
- Match the dietary preference exactly: %s
- Consider medical conditions: %s
- Consider physical limitations: %s
- The user's average glucose over the last %d days is %.0f mg/dL across %d readings; favor meals that limit post-prandial spikes
- Include per-meal calories, carbohydrates, protein and fats
- Use Markdown with a "## Breakfast", "## Lunch", "## Dinner" heading per meal and bullet points for items
- Do not include any text outside the meal plan`,
		orUnspecified(profile.DietaryPreference),
		orUnspecified(profile.MedicalConditions),
		orUnspecified(profile.PhysicalLimitations),
		DefaultPlanDays, averageReading(readings), len(readings))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type")
	}
	return "Your personalized meal plan:\n\n" + string(text), nil
}

// mealTemplates maps a dietary preference onto three fixed meals.
var mealTemplates = map[string][3]string{
	domain.DietVegetarian: {
		"Oatmeal with berries and almonds (320 kcal, 45g carbs, 10g protein, 11g fat)",
		"Lentil soup with whole-grain bread and a side salad (450 kcal, 60g carbs, 20g protein, 12g fat)",
		"Paneer and vegetable stir-fry with brown rice (520 kcal, 55g carbs, 24g protein, 20g fat)",
	},
	domain.DietVegan: {
		"Tofu scramble with spinach and whole-grain toast (300 kcal, 30g carbs, 18g protein, 12g fat)",
		"Chickpea and quinoa bowl with roasted vegetables (480 kcal, 65g carbs, 18g protein, 14g fat)",
		"Black bean chili with avocado and corn tortillas (510 kcal, 62g carbs, 21g protein, 16g fat)",
	},
	domain.DietNonVegetarian: {
		"Vegetable omelette with whole-grain toast (350 kcal, 25g carbs, 22g protein, 16g fat)",
		"Grilled chicken salad with olive oil dressing (430 kcal, 20g carbs, 35g protein, 22g fat)",
		"Baked salmon with quinoa and steamed broccoli (540 kcal, 40g carbs, 38g protein, 22g fat)",
	},
}

func (s *MealPlanService) templatePlan(profile *domain.UserProfile, readings []domain.CGMReading) string {
	meals, ok := mealTemplates[profile.DietaryPreference]
	if !ok {
		meals = mealTemplates[domain.DietNonVegetarian]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your personalized meal plan:\n\n")
	fmt.Fprintf(&b, "Based on your %s preference and %d CGM readings (average %.0f mg/dL):\n\n",
		orUnspecified(profile.DietaryPreference), len(readings), averageReading(readings))
	fmt.Fprintf(&b, "## Breakfast\n- %s\n\n", meals[0])
	fmt.Fprintf(&b, "## Lunch\n- %s\n\n", meals[1])
	fmt.Fprintf(&b, "## Dinner\n- %s\n", meals[2])

	if profile.MedicalConditions != "" {
		fmt.Fprintf(&b, "\nNoted medical conditions: %s. Please confirm this plan with your care team.", profile.MedicalConditions)
	}
	return b.String()
}

func averageReading(readings []domain.CGMReading) float64 {
	if len(readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range readings {
		sum += r.Value
	}
	return sum / float64(len(readings))
}

func orUnspecified(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}
