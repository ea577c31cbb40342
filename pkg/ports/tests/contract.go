package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
)

// ConversationLoaderContractTest is a reusable test suite that verifies if an
// adapter complies with ports.ConversationLoader. want maps each expected
// conversation id to its entry node id.
func ConversationLoaderContractTest(t *testing.T, loader ports.ConversationLoader, want map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Success", func(t *testing.T) {
		for id, entry := range want {
			conv, err := loader.Load(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error loading %s: %v", id, err)
			}
			if conv.ID != id {
				t.Errorf("conversation id mismatch: got %q, want %q", conv.ID, id)
			}
			if conv.Entry != entry {
				t.Errorf("conversation %s entry: got %q, want %q", id, conv.Entry, entry)
			}
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, "non_existent_conversation_12345")
		if err == nil {
			t.Fatal("expected error for non-existent conversation, got nil")
		}
		if !errors.Is(err, domain.ErrConversationNotFound) {
			t.Errorf("expected ErrConversationNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := loader.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing: %v", err)
		}
		found := make(map[string]bool)
		for _, id := range ids {
			found[id] = true
		}
		for id := range want {
			if !found[id] {
				t.Errorf("expected %s in List(), got %v", id, ids)
			}
		}
	})
}
