package app

import (
	"context"
	"errors"
	"fmt"
)

// Shutdown stops the HTTP server and releases the publisher and database.
func (app *App) Shutdown(ctx context.Context) error {
	logger := app.Observability.Logger
	logger.Info("Shutting down application...")

	var errs []error
	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("Shutdown finished with errors", "error", err)
		return err
	}
	logger.Info("Application shut down gracefully.")
	return nil
}
