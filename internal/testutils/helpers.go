// Package testutils holds fixtures shared by the adapter and runner tests.
package testutils

import (
	"testing"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/dsl"
	"github.com/stretchr/testify/require"
)

// BakeryID is the id of the Bakery conversation.
const BakeryID = "bakery"

// Bakery returns a conversation where the baker sells a loaf for 3 coins.
// Paying leads through "bag" to the "thanks" message; without the coins it
// ends at "broke". The "leave" option is not connected.
func Bakery() *domain.Conversation {
	b := dsl.New(BakeryID, "Bakery")
	b.Add("start", "start").Next("ask")
	b.Add("ask", "choice").Set("speaker", "Baker").Set("text", "Fresh bread?").
		Option("buy", "Buy a loaf", "pay").
		Option("leave", "Leave", "")
	b.Add("pay", "spend_resource").Set("resource", "money").Set("amount", 3).
		Go("success", "bag").
		Go("failure", "broke")
	b.Add("bag", "add_item").Set("item", "bread").Set("name", "Bread").Next("thanks")
	b.Add("thanks", "message").Set("text", "Thank you!")
	b.Add("broke", "message").Set("text", "Come back with coins.")
	return b.MustBuild()
}

// NewEngine builds an engine serving convs from memory. It fails the test
// immediately on error.
func NewEngine(t *testing.T, convs ...*domain.Conversation) *colloquy.Engine {
	t.Helper()
	engine, err := colloquy.New("", colloquy.WithLoader(memory.NewLoader(convs...)))
	require.NoError(t, err, "Failed to init engine")
	return engine
}

// NewWorld builds the world seed describes.
func NewWorld(t *testing.T, seed memory.Seed) *memory.World {
	t.Helper()
	w, err := seed.Build()
	require.NoError(t, err, "Failed to build world")
	return w
}
