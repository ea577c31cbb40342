package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hybridNode(id string, outs ...string) *Node {
	n := &Node{
		ID:   id,
		Type: "test",
		Flow: []FlowPort{{ID: PortIn, Direction: In, Capacity: Many}},
		Slots: []SlotPort{
			{ID: PortResult, Type: TypeBool, Direction: Out, Capacity: Many},
		},
	}
	for _, o := range outs {
		n.Flow = append(n.Flow, FlowPort{ID: o, Direction: Out, Capacity: One})
	}
	return n
}

func readerNode(id string) *Node {
	return &Node{
		ID:   id,
		Type: "reader",
		Slots: []SlotPort{
			{ID: "text", Type: TypeString, Direction: In, Capacity: One},
			{ID: "flag", Type: TypeBool, Direction: In, Capacity: Many},
		},
	}
}

func TestConversation_Connect(t *testing.T) {
	conv := NewConversation("c", "Test")
	require.NoError(t, conv.AddNode(hybridNode("a", PortNext)))
	require.NoError(t, conv.AddNode(hybridNode("b", PortNext)))
	require.NoError(t, conv.AddNode(hybridNode("c", PortNext)))
	require.NoError(t, conv.AddNode(readerNode("r")))

	assert.Equal(t, "a", conv.Entry, "first node becomes entry")

	tests := []struct {
		name    string
		from    PortRef
		to      PortRef
		wantErr error
	}{
		{"flow out to in", Ref("a", PortNext), Ref("b", PortIn), nil},
		{"capacity one exceeded", Ref("a", PortNext), Ref("c", PortIn), ErrPortCapacity},
		{"duplicate edge", Ref("a", PortNext), Ref("b", PortIn), ErrDuplicateEdge},
		{"in to in", Ref("b", PortIn), Ref("c", PortIn), ErrIncompatiblePorts},
		{"flow to slot", Ref("b", PortNext), Ref("r", "flag"), ErrIncompatiblePorts},
		{"slot type mismatch", Ref("b", PortResult), Ref("r", "text"), ErrIncompatiblePorts},
		{"slot fan-in", Ref("b", PortResult), Ref("r", "flag"), nil},
		{"slot fan-in second", Ref("c", PortResult), Ref("r", "flag"), nil},
		{"unknown port", Ref("b", "nope"), Ref("c", PortIn), ErrPortNotFound},
		{"unknown node", Ref("x", PortNext), Ref("c", PortIn), ErrNodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := conv.Connect(tt.from, tt.to)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestConversation_GetOppositeNodes(t *testing.T) {
	conv := NewConversation("c", "Test")
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, conv.AddNode(hybridNode(id, PortNext)))
	}
	require.NoError(t, conv.AddNode(readerNode("r")))

	require.NoError(t, conv.Connect(Ref("c", PortResult), Ref("r", "flag")))
	require.NoError(t, conv.Connect(Ref("a", PortResult), Ref("r", "flag")))
	require.NoError(t, conv.Connect(Ref("a", PortNext), Ref("b", PortIn)))

	t.Run("Insertion Order", func(t *testing.T) {
		got := conv.GetOppositeNodes(Ref("r", "flag"))
		require.Len(t, got, 2)
		assert.Equal(t, "c", got[0].ID)
		assert.Equal(t, "a", got[1].ID)
	})

	t.Run("Flow Next", func(t *testing.T) {
		got := conv.GetOppositeNodes(Ref("a", PortNext))
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].ID)
	})

	t.Run("Unconnected Port", func(t *testing.T) {
		got := conv.GetOppositeNodes(Ref("b", PortNext))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Unknown Port", func(t *testing.T) {
		assert.Empty(t, conv.GetOppositeNodes(Ref("zzz", "zzz")))
	})

	t.Run("Upstream and Downstream", func(t *testing.T) {
		up := conv.Upstream("r")
		require.Len(t, up, 2)
		assert.Equal(t, "c", up[0].ID)

		down := conv.Downstream("a")
		require.Len(t, down, 2)
		assert.Equal(t, "r", down[0].ID)
		assert.Equal(t, "b", down[1].ID)
	})
}

func TestNode_DynamicPorts(t *testing.T) {
	conv := NewConversation("c", "Test")
	choice := &Node{ID: "q", Type: "choice", Flow: []FlowPort{{ID: PortIn, Direction: In, Capacity: Many}}}
	require.NoError(t, conv.AddNode(choice))
	require.NoError(t, conv.AddNode(hybridNode("yes", PortNext)))

	assert.False(t, choice.ContainsPort("opt-yes", Out))

	require.NoError(t, choice.AddOption("opt-yes", "Yes"))
	assert.True(t, choice.ContainsPort("opt-yes", Out))
	assert.False(t, choice.ContainsPort("opt-yes", In))
	assert.ErrorIs(t, choice.AddOption("opt-yes", "Again"), ErrDuplicatePort)
	assert.ErrorIs(t, choice.AddOption(PortIn, "Clash"), ErrDuplicatePort)

	require.NoError(t, conv.Connect(Ref("q", "opt-yes"), Ref("yes", PortIn)))
	assert.ErrorIs(t, conv.Connect(Ref("q", "opt-yes"), Ref("yes", PortIn)), ErrDuplicateEdge)

	assert.True(t, conv.RemoveOption("q", "opt-yes"))
	assert.False(t, choice.ContainsPort("opt-yes", Out))
	assert.Empty(t, conv.Edges(), "edges of a removed option are dropped")
}

func TestConversation_RemoveNode(t *testing.T) {
	conv := NewConversation("c", "Test")
	require.NoError(t, conv.AddNode(hybridNode("a", PortNext)))
	require.NoError(t, conv.AddNode(hybridNode("b", PortNext)))
	require.NoError(t, conv.Connect(Ref("a", PortNext), Ref("b", PortIn)))

	assert.ErrorIs(t, conv.AddNode(hybridNode("a")), ErrDuplicateNode)
	assert.True(t, conv.RemoveNode("a"))
	assert.Empty(t, conv.Edges())
	assert.Equal(t, "", conv.Entry)
	assert.ErrorIs(t, conv.SetEntry("a"), ErrNodeNotFound)
	require.NoError(t, conv.SetEntry("b"))
}

func TestParsePortRef(t *testing.T) {
	ref, err := ParsePortRef(" chapter.one.next ")
	require.NoError(t, err)
	assert.Equal(t, Ref("chapter.one", "next"), ref)

	for _, bad := range []string{"", "noport", ".port", "node."} {
		_, err := ParsePortRef(bad)
		assert.Error(t, err, bad)
	}
}
