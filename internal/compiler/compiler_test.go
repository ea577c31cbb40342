package compiler_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/colloquy/internal/compiler"
	"github.com/aretw0/colloquy/internal/runtime"
	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFile(t *testing.T) {
	conv, err := compiler.New().CompileFile("testdata/tea.yaml")
	require.NoError(t, err)

	assert.Equal(t, "tea", conv.ID)
	assert.Equal(t, "Tea with Ana", conv.Title)
	assert.Equal(t, "start", conv.Entry)
	assert.Len(t, conv.Nodes(), 6)

	greet, ok := conv.Node("greet")
	require.True(t, ok)
	assert.Equal(t, "Greeting", greet.Label)
	assert.Equal(t, "Good evening!", greet.Config["text"])
	assert.Equal(t, "Continue", greet.Config["continue"], "defaults are filled in")

	ask, _ := conv.Node("ask")
	want := []domain.DynamicPort{{ID: "yes", Label: "Yes please"}, {ID: "no", Label: "No thanks"}}
	if diff := cmp.Diff(want, ask.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	var edges []string
	for _, e := range conv.Edges() {
		edges = append(edges, e.String())
	}
	assert.Equal(t, []string{
		"start.next -> greet.in",
		"ana.actor -> greet.actor",
		"greet.continue -> ask.in",
		"ask.yes -> open.in",
		"open.true -> pour.in",
	}, edges)
}

func TestCompile_RunsEndToEnd(t *testing.T) {
	conv, err := compiler.New().CompileFile("testdata/tea.yaml")
	require.NoError(t, err)

	world := memory.NewWorld()
	world.Clock.Set(nodes.MinutesPerDay + 23*60)
	sink := &ports.Recorder{}
	engine := runtime.NewEngine()
	ctx := context.Background()

	exec, err := engine.Start(ctx, conv, world.Ports(), sink)
	require.NoError(t, err)
	require.NoError(t, engine.Resume(ctx, exec, 0))
	require.NoError(t, engine.Resume(ctx, exec, 0))

	assert.Equal(t, "pour", exec.Current())
	require.Len(t, sink.Events, 3)
	assert.Equal(t, "Ana", sink.Events[0].Actor.Name)
	assert.Equal(t, "Here you go.", sink.Events[2].Text)
}

func TestCompile_EntryDefaultsToFirstNode(t *testing.T) {
	conv, err := compiler.New().Compile(strings.NewReader(`
id: solo
nodes:
  - id: first
    type: start
  - id: second
    type: message
`))
	require.NoError(t, err)
	assert.Equal(t, "first", conv.Entry)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
		msg    string
	}{
		{
			name:  "empty document",
			input: "",
			msg:   "empty document",
		},
		{
			name:  "missing id",
			input: "title: nameless\n",
			msg:   "conversation id is required",
		},
		{
			name:  "unknown top-level field",
			input: "id: x\nnodez: []\n",
			msg:   "nodez",
		},
		{
			name:   "unknown node type",
			input:  "id: x\nnodes:\n  - {id: a, type: teleport}\n",
			target: nodes.ErrUnknownType,
		},
		{
			name:   "unknown property",
			input:  "id: x\nnodes:\n  - {id: a, type: message, config: {colour: red}}\n",
			target: nodes.ErrUnknownProperty,
		},
		{
			name:  "bad property value",
			input: "id: x\nnodes:\n  - {id: a, type: time_after, config: {at: \"25:00\"}}\n",
			msg:   "at",
		},
		{
			name:   "duplicate node",
			input:  "id: x\nnodes:\n  - {id: a, type: start}\n  - {id: a, type: start}\n",
			target: domain.ErrDuplicateNode,
		},
		{
			name:  "options on a fixed node",
			input: "id: x\nnodes:\n  - id: a\n    type: message\n    options: [{id: go}]\n",
			msg:   "does not take options",
		},
		{
			name:  "malformed edge",
			input: "id: x\nnodes:\n  - {id: a, type: start}\nedges:\n  - a.next b.in\n",
			msg:   "expected",
		},
		{
			name:   "edge to unknown node",
			input:  "id: x\nnodes:\n  - {id: a, type: start}\nedges:\n  - a.next -> ghost.in\n",
			target: domain.ErrNodeNotFound,
		},
		{
			name:   "incompatible slot types",
			input:  "id: x\nnodes:\n  - {id: n, type: number}\n  - {id: m, type: message}\nedges:\n  - n.value -> m.actor\n",
			target: domain.ErrIncompatiblePorts,
		},
		{
			name:   "unknown entry",
			input:  "id: x\nentry: ghost\nnodes:\n  - {id: a, type: start}\n",
			target: domain.ErrNodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.New().Compile(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestCompile_ErrorsCarryLines(t *testing.T) {
	input := `id: x
nodes:
  - id: a
    type: start
  - id: b
    type: teleport
edges:
  - a.next -> ghost.in
`
	_, err := compiler.New().Compile(strings.NewReader(input))
	require.Error(t, err)

	var pe *compiler.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 5, pe.Line)
	assert.Contains(t, err.Error(), "<input>:5:")
	assert.Contains(t, err.Error(), "<input>:8:", "every problem is reported")
}
