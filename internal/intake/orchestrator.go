package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/aduro-health/intake-assistant/internal/domain"
	apperrors "github.com/aduro-health/intake-assistant/internal/errors"
	"github.com/aduro-health/intake-assistant/internal/logger"
)

// User-visible prompts and transitions.
const (
	msgGreeting          = "Hi! I'm your Aduro health assistant. Let's finish setting up your profile."
	msgProfileDone       = "Your profile is now complete! Let's collect your CGM readings next."
	msgCGMPrompt         = "Please enter your latest CGM readings in mg/dL as a comma-separated list (e.g. `95,110,102`)."
	msgCGMRetry          = "I didn't understand. Send readings like `95,110,102`."
	msgCGMRetryExhausted = "Maximum retry attempts reached. Please try again later."
	msgCGMDone           = "Now that we have your CGM readings, I can create a personalized meal plan for you. Type 'plan' to generate your meal plan."
	msgMealPlanDown      = "I'm having trouble generating your meal plan right now. Please try again later."
)

// Orchestrator is the conversation phase machine. It derives the
// current phase (profile collection, CGM collection, meal planning)
// from the context flags on every call, routes the message to the
// right collaborator and advances the flags when a completion
// predicate holds. All collaborators are injected; the orchestrator
// owns no connections and no session state.
type Orchestrator struct {
	store    domain.ProfileStore
	ingestor *CGMIngestor
	planner  domain.MealPlanner
	router   *IntentRouter
	errs     *apperrors.Handler
}

// NewOrchestrator wires the phase machine to its collaborators.
func NewOrchestrator(store domain.ProfileStore, planner domain.MealPlanner) *Orchestrator {
	return &Orchestrator{
		store:    store,
		ingestor: NewCGMIngestor(store),
		planner:  planner,
		router:   NewIntentRouter(),
		errs:     apperrors.NewHandler(logger.GetLogger()),
	}
}

// Handle processes one inbound message. It never returns an error:
// faults are logged and translated to user-facing text at this
// boundary. The context is mutated only when the call succeeds, so a
// failed call leaves it exactly as it was.
func (o *Orchestrator) Handle(ctx context.Context, message string, conv *ConversationContext) string {
	response, err := o.HandleMessage(ctx, message, conv)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		o.errs.Handle(ctx, appErr)
		return appErr.UserMessage()
	}
	return response
}

// HandleMessage is the typed-error entry point for direct callers. It
// shares Handle's at-most-once semantics: on a returned error the
// context is untouched.
func (o *Orchestrator) HandleMessage(ctx context.Context, message string, conv *ConversationContext) (string, error) {
	if conv == nil || conv.UserID == 0 {
		return "", apperrors.ErrInvalidUserID
	}

	// Route against a scratch copy so that a collaborator fault can
	// never leave a half-applied transition behind.
	work := *conv
	response, err := o.route(ctx, message, &work)
	if err != nil {
		return "", err
	}
	*conv = work
	return response, nil
}

func (o *Orchestrator) route(ctx context.Context, message string, conv *ConversationContext) (string, error) {
	if !conv.ProfileComplete {
		return o.profilePhase(ctx, message, conv)
	}
	if !conv.CGMCollected {
		return o.cgmPhase(ctx, message, conv), nil
	}
	return o.mealPlanningPhase(ctx, message, conv)
}

// profilePhase greets the user and walks through missing required
// fields one at a time, in the fixed priority order the store reports.
func (o *Orchestrator) profilePhase(ctx context.Context, message string, conv *ConversationContext) (string, error) {
	if conv.AwaitingProfileField && conv.FieldToUpdate != "" {
		return o.profileFieldUpdate(ctx, message, conv)
	}

	missing, err := o.store.MissingFields(ctx, conv.UserID)
	if err != nil {
		return "", apperrors.NewDatabaseError(err).WithContext("user_id", conv.UserID)
	}

	if len(missing) == 0 {
		conv.ProfileComplete = true
		return msgGreeting + "\n\n" + msgProfileDone, nil
	}

	conv.AwaitingProfileField = true
	conv.FieldToUpdate = missing[0]
	return msgGreeting + "\n\n" + fieldPrompt(missing[0]), nil
}

// profileFieldUpdate validates and persists the field the machine is
// waiting on, then either advances to the next missing field or closes
// the profile phase.
func (o *Orchestrator) profileFieldUpdate(ctx context.Context, message string, conv *ConversationContext) (string, error) {
	field := conv.FieldToUpdate

	ok, cleaned, errMsg := ValidateField(field, message)
	if !ok {
		// Validation failures are conversational, not faults: the
		// machine re-prompts and the context stays as it was.
		return errMsg + "\n\n" + fieldPrompt(field), nil
	}

	if err := o.store.UpdateField(ctx, conv.UserID, field, cleaned); err != nil {
		return "", apperrors.NewDatabaseError(err).
			WithContext("user_id", conv.UserID).
			WithContext("field", field)
	}

	conv.AwaitingProfileField = false
	conv.FieldToUpdate = ""

	missing, err := o.store.MissingFields(ctx, conv.UserID)
	if err != nil {
		return "", apperrors.NewDatabaseError(err).WithContext("user_id", conv.UserID)
	}

	response := fmt.Sprintf("Successfully updated %s.", strings.ReplaceAll(field, "_", " "))
	if len(missing) == 0 {
		conv.ProfileComplete = true
		return response + "\n\n" + msgProfileDone, nil
	}

	conv.AwaitingProfileField = true
	conv.FieldToUpdate = missing[0]
	return response + "\n\n" + fieldPrompt(missing[0]), nil
}

// cgmPhase prompts for readings, gates their shape with a bounded
// retry counter and ingests well-formed batches. Store-level failures
// are reported per reading and never retried here.
func (o *Orchestrator) cgmPhase(ctx context.Context, message string, conv *ConversationContext) string {
	if !conv.AwaitingCGM {
		conv.AwaitingCGM = true
		return msgCGMPrompt
	}

	if !o.ingestor.ValidFormat(message) {
		conv.CGMFormatRetries++
		if conv.CGMFormatRetries > MaxFormatRetries {
			conv.CGMFormatRetries = 0
			return msgCGMRetryExhausted
		}
		return msgCGMRetry
	}
	conv.CGMFormatRetries = 0

	report, _ := o.ingestor.Ingest(ctx, conv.UserID, message)
	response := o.ingestor.FormatReport(report, conv.UserID)

	if report.AllSaved() {
		conv.CGMCollected = true
		conv.AwaitingCGM = false
		response += "\n\n" + msgCGMDone
	}
	return response
}

// mealPlanningPhase delegates to the meal planner. Once the pipeline is
// complete the machine allows free navigation, so a profile question is
// answered directly instead of producing yet another plan. Planner
// faults degrade to an apology and are never propagated.
func (o *Orchestrator) mealPlanningPhase(ctx context.Context, message string, conv *ConversationContext) (string, error) {
	if intent := o.router.Classify(message); intent.Label == IntentProfileQuery {
		return o.profileSummary(ctx, conv.UserID)
	}

	plan, err := o.planner.Plan(ctx, conv.UserID, message)
	if err != nil {
		logger.Error("Meal planning failed", "user_id", conv.UserID, "error", err)
		return msgMealPlanDown, nil
	}
	return plan, nil
}

func (o *Orchestrator) profileSummary(ctx context.Context, userID uint) (string, error) {
	profile, err := o.store.GetProfile(ctx, userID)
	if err != nil {
		return "", apperrors.NewDatabaseError(err).WithContext("user_id", userID)
	}

	lines := []string{"Here's your profile:"}
	for _, field := range domain.RequiredFields {
		lines = append(lines, fmt.Sprintf("- %s: %s", fieldLabel(field), profile.FieldValue(field)))
	}
	if profile.MedicalConditions != "" {
		lines = append(lines, fmt.Sprintf("- %s: %s", fieldLabel(domain.FieldMedicalConditions), profile.MedicalConditions))
	}
	if profile.PhysicalLimitations != "" {
		lines = append(lines, fmt.Sprintf("- %s: %s", fieldLabel(domain.FieldPhysicalLimitations), profile.PhysicalLimitations))
	}
	return strings.Join(lines, "\n"), nil
}
