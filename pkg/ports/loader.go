package ports

import (
	"context"

	"github.com/aretw0/colloquy/pkg/domain"
)

// ConversationLoader defines how hosts retrieve conversations.
// This allows the storage layer (YAML files, memory) to be decoupled.
type ConversationLoader interface {
	// Load returns the conversation with the given id.
	// Returns domain.ErrConversationNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Conversation, error)

	// List returns the available conversation ids in a deterministic order.
	List(ctx context.Context) ([]string, error)
}
