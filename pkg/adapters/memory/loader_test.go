package memory_test

import (
	"testing"

	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/domain"
	contract "github.com/aretw0/colloquy/pkg/ports/tests"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	intro := domain.NewConversation("intro", "Introductions")
	if err := intro.AddNode(&domain.Node{ID: "start", Type: "start"}); err != nil {
		t.Fatal(err)
	}
	market := domain.NewConversation("market", "At the market")
	if err := market.AddNode(&domain.Node{ID: "hello", Type: "message"}); err != nil {
		t.Fatal(err)
	}

	loader := memory.NewLoader(intro, market)

	contract.ConversationLoaderContractTest(t, loader, map[string]string{
		"intro":  "start",
		"market": "hello",
	})
}
