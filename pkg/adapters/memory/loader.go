package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/colloquy/pkg/domain"
)

// Loader implements ports.ConversationLoader over conversations held in memory.
type Loader struct {
	mu    sync.RWMutex
	convs map[string]*domain.Conversation
}

// NewLoader creates a loader serving the given conversations.
func NewLoader(convs ...*domain.Conversation) *Loader {
	l := &Loader{convs: make(map[string]*domain.Conversation)}
	for _, c := range convs {
		l.convs[c.ID] = c
	}
	return l
}

// Add registers or replaces a conversation.
func (l *Loader) Add(c *domain.Conversation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.convs[c.ID] = c
}

// Load returns the conversation with the given id.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Conversation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.convs[id]
	if !ok {
		return nil, fmt.Errorf("conversation %q: %w", id, domain.ErrConversationNotFound)
	}
	return c, nil
}

// List returns all conversation ids, sorted.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.convs))
	for id := range l.convs {
		ids = append(ids, id)
	}
	sort.Strings(ids) // Deterministic order
	return ids, nil
}
