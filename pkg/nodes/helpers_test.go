package nodes_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/stretchr/testify/require"
)

// fakeContext resolves slots from a fixed map.
type fakeContext struct {
	node     *domain.Node
	world    *ports.World
	slots    map[string]any
	degraded []string
}

func (c *fakeContext) Context() context.Context { return context.Background() }
func (c *fakeContext) Node() *domain.Node       { return c.node }
func (c *fakeContext) World() *ports.World      { return c.world }
func (c *fakeContext) Logger() *slog.Logger     { return slog.New(slog.DiscardHandler) }

func (c *fakeContext) ReadSlot(slotID string) (any, bool) {
	v, ok := c.slots[slotID]
	return v, ok
}

func (c *fakeContext) Degrade(reason string, _ ...any) {
	c.degraded = append(c.degraded, reason)
}

// build creates a node of typ with cfg applied over its defaults and binds it.
func build(t *testing.T, typ string, cfg map[string]any) (*domain.Node, nodes.Behavior) {
	t.Helper()
	cat := nodes.Standard()
	n, err := cat.NewNode(typ, typ+"-1")
	require.NoError(t, err)
	for k, v := range cfg {
		n.Config[k] = v
	}
	b, err := cat.Bind(n)
	require.NoError(t, err)
	return n, b
}

func newContext(n *domain.Node, w *memory.World) *fakeContext {
	ec := &fakeContext{node: n, slots: map[string]any{}}
	if w != nil {
		ec.world = w.Ports()
	} else {
		ec.world = &ports.World{}
	}
	return ec
}

// process runs a hybrid node of typ against w.
func process(t *testing.T, typ string, cfg map[string]any, w *memory.World) (nodes.Outcome, *fakeContext) {
	t.Helper()
	n, b := build(t, typ, cfg)
	h, ok := b.(nodes.Hybrid)
	require.True(t, ok, "%s is not a hybrid node", typ)
	ec := newContext(n, w)
	return h.Process(ec), ec
}
