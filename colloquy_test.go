package colloquy_test

import (
	"context"
	"testing"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/dsl"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresPathOrLoader(t *testing.T) {
	_, err := colloquy.New("")
	assert.Error(t, err)
}

func TestEngine_FromYAML(t *testing.T) {
	eng, err := colloquy.New("testdata")
	require.NoError(t, err)
	assert.Equal(t, "testdata", eng.Name)
	assert.NotNil(t, eng.Catalog())

	ctx := context.Background()
	ids, err := eng.Conversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bakery"}, ids)

	conv, err := eng.Conversation(ctx, "bakery")
	require.NoError(t, err)
	assert.Equal(t, "start", conv.Entry)

	_, err = eng.Start(ctx, "tavern", nil, nil)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestEngine_PlayAndRestore(t *testing.T) {
	eng, err := colloquy.New("testdata")
	require.NoError(t, err)
	ctx := context.Background()

	var published []domain.Presentation
	sink := ports.SinkFunc(func(_ context.Context, p domain.Presentation) {
		published = append(published, p)
	})

	world, err := memory.Seed{Money: 5}.Build()
	require.NoError(t, err)
	exec, err := eng.Start(ctx, "bakery", world.Ports(), sink)
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuspended, exec.Status())
	require.Len(t, published, 1)
	assert.Equal(t, "Baker", published[0].Actor.Name)
	assert.Equal(t, exec.ID(), published[0].ExecutionID)

	snap, err := exec.Snapshot()
	require.NoError(t, err)

	restored, err := eng.Restore(ctx, snap, world.Ports(), sink)
	require.NoError(t, err)
	assert.Equal(t, exec.ID(), restored.ID())
	require.NoError(t, eng.Resume(ctx, restored, 0))
	assert.Equal(t, domain.StatusSuspended, restored.Status(), "thank-you message")
	assert.Equal(t, "thanks", restored.Current())
	assert.Equal(t, 2, world.Resources.Money())
	assert.Equal(t, 1, world.Inventory.Count("bread"))

	require.NoError(t, eng.Resume(ctx, restored, 0))
	assert.Equal(t, domain.StatusIdle, restored.Status())
}

func TestEngine_Restore_Nil(t *testing.T) {
	eng, err := colloquy.New("testdata")
	require.NoError(t, err)
	_, err = eng.Restore(context.Background(), nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrSuspensionNotFound)
}

func TestEngine_StartConversation(t *testing.T) {
	b := dsl.New("note", "")
	b.Add("start", "start").Next("hi")
	b.Add("hi", "message").Set("text", "Hi.")

	eng, err := colloquy.New("", colloquy.WithLoader(memory.NewLoader()))
	require.NoError(t, err)

	exec, err := eng.StartConversation(context.Background(), b.MustBuild(), nil, nil)
	require.NoError(t, err)
	p, ok := exec.Pending()
	require.True(t, ok)
	assert.Equal(t, "Hi.", p.Text)
	assert.Equal(t, domain.PresentMessage, p.Kind)
}

func TestEngine_StepBudget(t *testing.T) {
	b := dsl.New("loop", "")
	b.Add("start", "start").Next("check")
	b.Add("check", "check_flag").Set("flag", "never").Go("false", "check")

	eng, err := colloquy.New("", colloquy.WithLoader(memory.NewLoader(b.MustBuild())), colloquy.WithStepBudget(50))
	require.NoError(t, err)

	world, err := memory.Seed{}.Build()
	require.NoError(t, err)
	exec, err := eng.Start(context.Background(), "loop", world.Ports(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, exec.Status(), "an exhausted budget goes idle")
}
