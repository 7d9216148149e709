package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/critter-checklist/internal/domain/checklist"
	"github.com/yanqian/critter-checklist/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	checklist checklist.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, svc checklist.Service) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, checklist: svc}
}

// Run primes the checklist, starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	a.warm(ctx)

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address, "state_backend", a.cfg.State.Backend)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// warm loads the persisted state and the datasets of the current tab. A
// failure here is logged only; the first request retries the load.
func (a *App) warm(ctx context.Context) {
	warmCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	st, err := a.checklist.Snapshot(warmCtx)
	if err != nil {
		a.logger.Warn("state warmup failed", "error", err)
		return
	}
	view, err := a.checklist.List(warmCtx, st.Tab)
	if err != nil {
		a.logger.Warn("dataset warmup failed", "tab", st.Tab, "error", err)
		return
	}
	if view.Progress.IsZero() {
		a.logger.Warn("dataset is empty", "tab", st.Tab)
		return
	}
	a.logger.Info("checklist ready", "tab", st.Tab, "items", view.Progress.Total, "caught", view.Progress.Caught, "percent", view.Percent)
}
