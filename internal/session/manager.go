// Package session stores per-user conversation contexts between
// messages. The phase machine itself is stateless; adapters load the
// context here before a call and save it back after.
package session

import (
	"context"
	"sync"

	"github.com/aduro-health/intake-assistant/internal/intake"
)

// Manager persists conversation contexts keyed by user ID.
type Manager interface {
	Load(ctx context.Context, userID uint) (*intake.ConversationContext, error)
	Save(ctx context.Context, userID uint, conv *intake.ConversationContext) error
	Clear(ctx context.Context, userID uint) error
}

// MemoryManager keeps contexts in process memory. Suitable for a single
// instance; state is lost on restart, but the pipeline resumes from the
// persisted profile and readings because the phase is derived data.
type MemoryManager struct {
	contexts map[uint]*intake.ConversationContext
	mu       sync.RWMutex
}

// NewMemoryManager creates an in-memory session manager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		contexts: make(map[uint]*intake.ConversationContext),
	}
}

// Load returns the stored context for a user, or nil when none exists.
func (m *MemoryManager) Load(ctx context.Context, userID uint) (*intake.ConversationContext, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, exists := m.contexts[userID]
	if !exists {
		return nil, nil
	}
	copied := *conv
	return &copied, nil
}

// Save stores the context for a user.
func (m *MemoryManager) Save(ctx context.Context, userID uint, conv *intake.ConversationContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *conv
	m.contexts[userID] = &copied
	return nil
}

// Clear removes the stored context for a user.
func (m *MemoryManager) Clear(ctx context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contexts, userID)
	return nil
}
