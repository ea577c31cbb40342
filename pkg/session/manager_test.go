package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/dsl"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/aretw0/colloquy/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shop sells a loaf of bread for 3 coins.
func shop(t *testing.T) *domain.Conversation {
	t.Helper()
	b := dsl.New("shop", "Bakery")
	b.Add("start", "start").Next("ask")
	b.Add("ask", "choice").Set("text", "Bread?").
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

func setup(t *testing.T, store ports.SuspensionStore, opts ...session.Option) (*session.Manager, *memory.Worlds) {
	t.Helper()
	engine, err := colloquy.New("", colloquy.WithLoader(memory.NewLoader(shop(t))))
	require.NoError(t, err)
	worlds := memory.NewWorlds(memory.Seed{Money: 5})
	return session.NewManager(engine, store, worlds, opts...), worlds
}

func TestManager_StartChooseFinish(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mgr, worlds := setup(t, store)

	st, err := mgr.Start(ctx, "ana", "shop")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuspended, st.Status)
	assert.Equal(t, "ask", st.NodeID)
	require.NotNil(t, st.Presentation)
	assert.Len(t, st.Presentation.Options, 2)

	stored, err := mgr.Get(ctx, st.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, "ana", stored.Player)
	assert.Equal(t, "ask", stored.NodeID)

	st, err = mgr.Choose(ctx, st.ExecutionID, 0)
	require.NoError(t, err)
	assert.Equal(t, "thanks", st.NodeID)

	world, err := worlds.Get("ana")
	require.NoError(t, err)
	assert.Equal(t, 2, world.Resources.Money())
	assert.Equal(t, 1, world.Inventory.Count("bread"))

	st, err = mgr.Choose(ctx, st.ExecutionID, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, st.Status)
	assert.Nil(t, st.Presentation)

	_, err = mgr.Get(ctx, st.ExecutionID)
	assert.ErrorIs(t, err, domain.ErrSuspensionNotFound, "finished executions are forgotten")
}

func TestManager_WorldsArePerPlayer(t *testing.T) {
	ctx := context.Background()
	mgr, worlds := setup(t, memory.NewStore())

	for _, player := range []string{"ana", "ana", "bo"} {
		st, err := mgr.Start(ctx, player, "shop")
		require.NoError(t, err)
		_, err = mgr.Choose(ctx, st.ExecutionID, 0)
		require.NoError(t, err)
	}

	ana, _ := worlds.Get("ana")
	bo, _ := worlds.Get("bo")
	assert.Equal(t, 1, ana.Inventory.Count("bread"), "second purchase is refused")
	assert.Equal(t, 2, ana.Resources.Money())
	assert.Equal(t, 1, bo.Inventory.Count("bread"))
}

func TestManager_Errors(t *testing.T) {
	ctx := context.Background()
	mgr, _ := setup(t, memory.NewStore())

	_, err := mgr.Start(ctx, "", "shop")
	assert.Error(t, err)

	_, err = mgr.Start(ctx, "ana", "missing")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	_, err = mgr.Choose(ctx, "nope", 0)
	assert.ErrorIs(t, err, domain.ErrSuspensionNotFound)

	st, err := mgr.Start(ctx, "ana", "shop")
	require.NoError(t, err)
	_, err = mgr.Choose(ctx, st.ExecutionID, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)

	still, err := mgr.Get(ctx, st.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, "ask", still.NodeID, "a rejected choice leaves the snapshot alone")
}

func TestManager_Abandon(t *testing.T) {
	ctx := context.Background()
	mgr, _ := setup(t, memory.NewStore())

	st, err := mgr.Start(ctx, "ana", "shop")
	require.NoError(t, err)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{st.ExecutionID}, ids)

	require.NoError(t, mgr.Abandon(ctx, st.ExecutionID))
	_, err = mgr.Choose(ctx, st.ExecutionID, 0)
	assert.ErrorIs(t, err, domain.ErrSuspensionNotFound)
	assert.ErrorIs(t, mgr.Abandon(ctx, st.ExecutionID), domain.ErrSuspensionNotFound)
}

// slowStore simulates IO latency to provoke races if locking is missing.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Save(ctx context.Context, snap *domain.Suspension) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Save(ctx, snap)
}

func TestManager_SerializesPlayerSteps(t *testing.T) {
	ctx := context.Background()
	mgr, worlds := setup(t, slowStore{memory.NewStore()})

	var ids []string
	for i := 0; i < 5; i++ {
		st, err := mgr.Start(ctx, "ana", "shop")
		require.NoError(t, err)
		ids = append(ids, st.ExecutionID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := mgr.Choose(ctx, id, 0)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	world, _ := worlds.Get("ana")
	assert.Equal(t, 1, world.Inventory.Count("bread"), "only one purchase fits the budget")
	assert.Equal(t, 2, world.Resources.Money())
}

type recordingLocker struct {
	mu   sync.Mutex
	keys []string
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	return func(context.Context) error { return nil }, nil
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &recordingLocker{}
	mgr, _ := setup(t, memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))

	_, err := mgr.Start(context.Background(), "ana", "shop")
	require.NoError(t, err)
	assert.Equal(t, []string{"world:ana"}, locker.keys)
}
