package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Logger
	app.server = &http.Server{
		Addr:              app.Config.HTTP.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", app.server.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}
