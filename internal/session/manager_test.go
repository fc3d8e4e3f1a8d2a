package session

import (
	"context"
	"sync"
	"testing"

	"github.com/aduro-health/intake-assistant/internal/intake"
)

func TestMemoryManagerRoundTrip(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	loaded, err := m.Load(ctx, 7)
	if err != nil {
		t.Fatalf("Load on empty manager: %v", err)
	}
	if loaded != nil {
		t.Fatalf("Load on empty manager = %+v, want nil", loaded)
	}

	conv := intake.NewConversationContext(7)
	conv.ProfileComplete = true
	conv.CGMFormatRetries = 1
	if err := m.Save(ctx, 7, conv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err = m.Load(ctx, 7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil || *loaded != *conv {
		t.Fatalf("Load = %+v, want %+v", loaded, conv)
	}
}

func TestMemoryManagerStoresCopies(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	conv := intake.NewConversationContext(7)
	if err := m.Save(ctx, 7, conv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the caller's copy must not change what was stored.
	conv.CGMCollected = true

	loaded, err := m.Load(ctx, 7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.CGMCollected {
		t.Error("stored context changed through the caller's pointer")
	}

	// And mutating a loaded copy must not change the store either.
	loaded.ProfileComplete = true
	reloaded, err := m.Load(ctx, 7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.ProfileComplete {
		t.Error("stored context changed through a loaded copy")
	}
}

func TestMemoryManagerClear(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	if err := m.Save(ctx, 7, intake.NewConversationContext(7)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := m.Clear(ctx, 7); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	loaded, err := m.Load(ctx, 7)
	if err != nil {
		t.Fatalf("Load after Clear: %v", err)
	}
	if loaded != nil {
		t.Errorf("Load after Clear = %+v, want nil", loaded)
	}

	// Clearing an absent user is a no-op.
	if err := m.Clear(ctx, 99); err != nil {
		t.Errorf("Clear on missing user: %v", err)
	}
}

func TestMemoryManagerConcurrentAccess(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			conv := intake.NewConversationContext(userID)
			for j := 0; j < 50; j++ {
				if err := m.Save(ctx, userID, conv); err != nil {
					t.Errorf("Save(%d): %v", userID, err)
					return
				}
				if _, err := m.Load(ctx, userID); err != nil {
					t.Errorf("Load(%d): %v", userID, err)
					return
				}
			}
		}(uint(i))
	}
	wg.Wait()
}
