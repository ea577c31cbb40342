package cli_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/colloquy/internal/cli"
	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/adapters/redis"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newApp builds an App over testdata with the environment isolated from the
// user's configuration.
func newApp(t *testing.T, env map[string]string) *cli.App {
	t.Helper()
	content, err := filepath.Abs("testdata/content")
	require.NoError(t, err)
	world, err := filepath.Abs("testdata/world.yaml")
	require.NoError(t, err)

	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	for k, v := range env {
		t.Setenv(k, v)
	}

	app, err := cli.NewApp(cli.Options{
		Content:   content,
		WorldPath: world,
		LogOutput: io.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNewApp(t *testing.T) {
	app := newApp(t, nil)

	ids, err := app.Engine.Conversations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bakery"}, ids)
	assert.Equal(t, 5, app.Seed.Money)
	assert.Nil(t, app.Locker())

	w, err := app.World()
	require.NoError(t, err)
	assert.Equal(t, 5, w.Resources.Money())
}

func TestNewApp_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	t.Run("invalid backend", func(t *testing.T) {
		t.Setenv("COLLOQUY_STORE_BACKEND", "s3")
		_, err := cli.NewApp(cli.Options{Content: t.TempDir(), LogOutput: io.Discard})
		assert.ErrorContains(t, err, "invalid configuration")
	})

	t.Run("missing world", func(t *testing.T) {
		_, err := cli.NewApp(cli.Options{
			Content:   t.TempDir(),
			WorldPath: filepath.Join(t.TempDir(), "nope.yaml"),
			LogOutput: io.Discard,
		})
		assert.Error(t, err)
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := cli.NewApp(cli.Options{LogOutput: io.Discard})
		assert.Error(t, err)
	})
}

func TestApp_Store(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		app := newApp(t, nil)
		store, err := app.Store()
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)

		again, err := app.Store()
		require.NoError(t, err)
		assert.Same(t, store, again)
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		app := newApp(t, map[string]string{
			"COLLOQUY_STORE_BACKEND": "file",
			"COLLOQUY_STORE_DIR":     dir,
		})
		store, err := app.Store()
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, store.Save(ctx, &domain.Suspension{
			ExecutionID:    "x1",
			ConversationID: "bakery",
			NodeID:         "ask",
		}))
		assert.FileExists(t, filepath.Join(dir, "x1.json"))
	})

	t.Run("encrypted file", func(t *testing.T) {
		dir := t.TempDir()
		app := newApp(t, map[string]string{
			"COLLOQUY_STORE_BACKEND":        "file",
			"COLLOQUY_STORE_DIR":            dir,
			"COLLOQUY_STORE_ENCRYPTION_KEY": "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
		})
		store, err := app.Store()
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, store.Save(ctx, &domain.Suspension{
			ExecutionID:    "x1",
			ConversationID: "bakery",
			NodeID:         "ask",
		}))
		raw, err := os.ReadFile(filepath.Join(dir, "x1.json"))
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "bakery")

		loaded, err := store.Load(ctx, "x1")
		require.NoError(t, err)
		assert.Equal(t, "bakery", loaded.ConversationID)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		app := newApp(t, map[string]string{
			"COLLOQUY_STORE_BACKEND": "redis",
			"COLLOQUY_REDIS_ADDR":    mr.Addr(),
		})
		store, err := app.Store()
		require.NoError(t, err)
		assert.IsType(t, &redis.Store{}, store)
		assert.NotNil(t, app.Locker())
		require.NoError(t, app.Close())
		require.NoError(t, app.Close())
	})
}

func TestPlay(t *testing.T) {
	app := newApp(t, nil)
	out := &bytes.Buffer{}

	exec, err := cli.Play(context.Background(), app, cli.PlayOptions{
		In:  strings.NewReader("1\n\n"),
		Out: out,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, exec.Status())
	assert.Contains(t, out.String(), "Baker: Fresh bread?")
	assert.Contains(t, out.String(), "Thank you!")
	assert.NotContains(t, out.String(), "Come back with coins.")
}

func TestPlay_JSON(t *testing.T) {
	app := newApp(t, nil)
	out := &bytes.Buffer{}

	exec, err := cli.Play(context.Background(), app, cli.PlayOptions{
		Conversation: "bakery",
		JSON:         true,
		In:           strings.NewReader("1\n"),
		Out:          out,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, exec.Status(), "leave is not connected")
	assert.Contains(t, out.String(), `"type":"presentation"`)
}

func TestPlay_PersistAndResume(t *testing.T) {
	app := newApp(t, map[string]string{
		"COLLOQUY_STORE_BACKEND": "file",
		"COLLOQUY_STORE_DIR":     "suspensions",
	})
	ctx := context.Background()

	exec, err := cli.Play(ctx, app, cli.PlayOptions{
		Persist: true,
		In:      strings.NewReader("quit\n"),
		Out:     io.Discard,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuspended, exec.Status())

	graphOut := &bytes.Buffer{}
	require.NoError(t, cli.Graph(ctx, app, "", exec.ID(), graphOut))
	assert.Contains(t, graphOut.String(), "class ask current;")

	out := &bytes.Buffer{}
	resumed, err := cli.Play(ctx, app, cli.PlayOptions{
		Resume: exec.ID(),
		In:     strings.NewReader("1\n\n"),
		Out:    out,
	})
	require.NoError(t, err)
	assert.Equal(t, exec.ID(), resumed.ID())
	assert.Equal(t, domain.StatusIdle, resumed.Status())
	assert.Contains(t, out.String(), "Thank you!")

	store, err := app.Store()
	require.NoError(t, err)
	_, err = store.Load(ctx, exec.ID())
	assert.ErrorIs(t, err, domain.ErrSuspensionNotFound)
}

func TestPlay_UnknownConversation(t *testing.T) {
	app := newApp(t, nil)
	_, err := cli.Play(context.Background(), app, cli.PlayOptions{
		Conversation: "tavern",
		In:           strings.NewReader(""),
		Out:          io.Discard,
	})
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestGraph(t *testing.T) {
	app := newApp(t, nil)
	out := &bytes.Buffer{}

	require.NoError(t, cli.Graph(context.Background(), app, "bakery", "", out))
	assert.True(t, strings.HasPrefix(out.String(), "graph TD"))
	assert.Contains(t, out.String(), "ask")
	assert.NotContains(t, out.String(), "class ask current;")

	err := cli.Graph(context.Background(), app, "bakery", "missing", io.Discard)
	assert.ErrorIs(t, err, domain.ErrSuspensionNotFound)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
		output  []string
	}{
		{
			name: "warnings pass",
			path: "testdata/content",
			output: []string{
				"bakery: warning:",
				"1 conversation(s) checked, no errors",
			},
		},
		{
			name:    "value entry fails",
			path:    "testdata/invalid",
			wantErr: "1 of 1 conversations have errors",
			output:  []string{"backwards: error: node name: entry node is a value node and cannot run"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			err := cli.Validate(context.Background(), tt.path, nil, out)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.output {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	app := newApp(t, nil)
	srv, err := cli.NewServer(app)
	require.NoError(t, err)
	assert.Equal(t, ":8080", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServe_StopsWithContext(t *testing.T) {
	app := newApp(t, map[string]string{"COLLOQUY_SERVER_ADDR": "127.0.0.1:0"})
	srv, err := cli.NewServer(app)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, cli.Serve(ctx, app, srv))
}
