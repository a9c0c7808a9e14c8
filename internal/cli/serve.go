package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpDelivery "github.com/labelwise/backend/internal/delivery/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	a := newApp(cfg, logger)
	defer a.close()

	logger.Info("starting Labelwise backend",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("mode", string(a.analysis.Mode())),
		zap.Bool("proxy_endpoint", cfg.Proxy.Enabled),
		zap.Bool("auth_required", cfg.Auth.Required))

	if cfg.Proxy.Enabled && cfg.Gemini.APIKey == "" {
		logger.Warn("proxy endpoint enabled without LABELWISE_GEMINI_API_KEY; proxied analyses will fail")
	}

	handler := httpDelivery.NewHandler(a.workspace, a.analysis, logger)
	router := httpDelivery.SetupRouter(cfg, httpDelivery.Dependencies{
		Handler:  handler,
		Proxy:    a.proxy,
		Identity: a.identity,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
