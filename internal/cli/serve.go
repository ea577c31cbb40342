package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/colloquy/pkg/adapters/http"
	"github.com/aretw0/colloquy/pkg/session"
)

// ShutdownTimeout bounds how long in-flight requests may take on shutdown.
const ShutdownTimeout = 5 * time.Second

// NewSessions builds the session manager over the configured store, locking
// across replicas when the backend supports it.
func NewSessions(app *App) (*session.Manager, error) {
	store, err := app.Store()
	if err != nil {
		return nil, err
	}
	opts := []session.Option{
		session.WithLogger(app.Logger),
		session.WithLockTTL(app.Config.Server.LockTTL),
	}
	if locker := app.Locker(); locker != nil {
		opts = append(opts, session.WithLocker(locker))
	}
	return session.NewManager(app.Engine, store, app.Worlds(), opts...), nil
}

// NewServer builds the HTTP server for the session API.
func NewServer(app *App) (*http.Server, error) {
	mgr, err := NewSessions(app)
	if err != nil {
		return nil, err
	}

	handler := httpadapter.NewHandler(app.Engine, mgr,
		httpadapter.WithLogger(app.Logger),
		httpadapter.WithMetrics(app.Registry),
	)
	return &http.Server{
		Addr:              app.Config.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Serve runs the server until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, app *App, srv *http.Server) error {
	errs := make(chan error, 1)
	go func() {
		app.Logger.Info("server listening", "addr", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		app.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		return nil
	}
}
