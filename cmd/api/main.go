package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	httpadapter "github.com/kirillkom/loan-approval-predictor/internal/adapters/http"
	"github.com/kirillkom/loan-approval-predictor/internal/bootstrap"
	"github.com/kirillkom/loan-approval-predictor/internal/config"
	"github.com/kirillkom/loan-approval-predictor/internal/observability/logging"
	"github.com/kirillkom/loan-approval-predictor/internal/observability/metrics"
)

const serviceName = "api"

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, serviceName, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()
	logger.Info("model_loaded", "kind", app.Model.Kind, "version", app.Model.Version, "backend", cfg.ModelBackend)

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	httpMetrics.SetModelInfo(serviceName, app.Model.Kind, app.Model.Version)

	router := httpadapter.NewRouter(cfg, app.AssessUC, app.ReportUC, httpMetrics).Handler()
	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		logger.Error("api_listen_failed", "addr", server.Addr, "error", err)
		os.Exit(1)
	}
	if cfg.APIMaxConnections > 0 {
		listener = netutil.LimitListener(listener, cfg.APIMaxConnections)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("api_listening",
			"addr", server.Addr,
			"max_connections", cfg.APIMaxConnections,
			"rate_limit_rps", cfg.APIRateLimitRPS,
		)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.Error("api_server_failed", "error", err)
			app.Close()
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown_failed", "error", err)
	}
	logger.Info("api_stopped")
}
