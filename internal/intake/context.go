// Package intake implements the conversational intake pipeline: a
// phase machine that walks a user through profile collection, CGM
// reading ingestion and meal planning.
package intake

// ConversationContext carries all per-session state for the phase
// machine. It is caller-owned and mutated in place by Handle; the
// machine itself holds no session state, so a single machine instance
// can serve any number of concurrent sessions as long as each context
// is used by one in-flight call at a time.
type ConversationContext struct {
	// UserID identifies the authenticated user. Zero means
	// unauthenticated and fails every call.
	UserID uint `json:"user_id"`

	// SessionID labels the session in logs. Not read by the machine.
	SessionID string `json:"session_id,omitempty"`

	// Phase gates, derived data only. The phase is recomputed from
	// these on every call, so a session survives a restart as long as
	// the flags and the underlying rows do.
	ProfileComplete bool `json:"profile_complete"`
	CGMCollected    bool `json:"cgm_collected"`

	// Set while the machine waits for the value of one profile field.
	AwaitingProfileField bool   `json:"awaiting_profile_field"`
	FieldToUpdate        string `json:"field_to_update,omitempty"`

	// Set while the machine waits for a batch of CGM readings.
	AwaitingCGM bool `json:"awaiting_cgm"`

	// CGMFormatRetries counts consecutive shape-invalid CGM
	// submissions. Session-scoped on purpose: a counter on the machine
	// itself would leak across sessions.
	CGMFormatRetries int `json:"cgm_format_retries"`
}

// NewConversationContext returns a context at the start of the pipeline
// for the given user.
func NewConversationContext(userID uint) *ConversationContext {
	return &ConversationContext{UserID: userID}
}
