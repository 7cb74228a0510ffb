package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	httpdelivery "signaldesk/internal/delivery/http"
	"signaldesk/internal/fakeapi"
	"signaldesk/internal/infra"
	"signaldesk/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (default $PORT)")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, port string) error {
	a, err := opts.load()
	if err != nil {
		return err
	}
	if port == "" {
		port = a.cfg.Server.Port
	}

	templates, err := httpdelivery.ParseTemplates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	state := httpdelivery.NewViewState()
	service := usecase.NewDashboardService(a.api, state, a.catalog)
	handler := httpdelivery.NewWebHandler(templates, service, state, a.catalog, a.api.BaseURL())
	e := httpdelivery.NewServer(&httpdelivery.RouterConfig{
		WebHandler: handler,
		Service:    "signaldesk",
	})
	e.Debug = !a.cfg.IsProduction()

	// /api/state and the scheduler start from live counters
	if err := service.RefreshLists(ctx); err != nil {
		glog.Warningf("[SERVE] Initial refresh failed: %v", err)
	}

	if a.cfg.Refresh.Schedule != "" {
		scheduler := infra.NewScheduler(service, a.cfg.Refresh.Schedule, a.cfg.API.Timeout)
		if err := scheduler.Start(); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	addr := ":" + port
	glog.Infof("[SERVE] Dashboard starting on %s", addr)
	glog.Infof("[SERVE] Backend: %s", a.api.BaseURL())
	glog.Infof("[SERVE] Environment: %s", a.cfg.Server.Env)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if err := waitForShutdown(ctx, errCh); err != nil {
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	glog.Info("[OK] Server exited gracefully")
	return nil
}

func newMockAPICommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Run an in-memory backend for local use",
		Long: `Run an in-memory stand-in for the asset and signal API. Data lives only
as long as the process. Point the dashboard at it with --api.

Examples:
  signaldesk mock-api --port 8000
  signaldesk serve --api http://localhost:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMockAPI(cmd.Context(), port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "8000", "Port to listen on")
	return cmd
}

func runMockAPI(ctx context.Context, port string) error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Mount("/", fakeapi.NewRouter(fakeapi.NewStore()))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	glog.Infof("[MOCK] In-memory API starting on %s", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if err := waitForShutdown(ctx, errCh); err != nil {
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	glog.Info("[OK] Mock API stopped")
	return nil
}

// waitForShutdown blocks until SIGINT/SIGTERM, ctx is done or the server fails
func waitForShutdown(ctx context.Context, errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	glog.Info("[SERVE] Shutting down server...")
	return nil
}
