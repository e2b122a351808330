package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/toria/pkg/adapters/http"
	"github.com/aretw0/toria/pkg/notify"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Port           int
	NotifySchedule string
	NoScheduler    bool
}

// Serve runs the REST API (and the notification scheduler) until ctx is done.
func Serve(ctx context.Context, app *App, opts ServeOptions) error {
	handler := httpadapter.NewHandler(httpadapter.Config{
		Assistant: app.Assistant,
		Store:     app.Store,
		Discovery: app.Discovery,
		Planner:   app.Planner,
		Notifier:  app.Notifier,
		Metrics:   app.MetricsHandler(),
		Logger:    app.Logger,
	})

	if !opts.NoScheduler {
		scheduler, err := notify.NewScheduler(app.Notifier, opts.NotifySchedule, app.Logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = scheduler.Stop(stopCtx)
		}()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("HTTP server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		app.Logger.Info("Shutdown signal received, shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}
