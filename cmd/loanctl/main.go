package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"charm.land/lipgloss/v2"

	"github.com/kirillkom/loan-approval-predictor/internal/adapters/cli"
	"github.com/kirillkom/loan-approval-predictor/internal/bootstrap"
	"github.com/kirillkom/loan-approval-predictor/internal/config"
)

// version is set via -ldflags at build time.
var version = "(devel)"

func loadPredictor(ctx context.Context, cfg config.Config, logger *slog.Logger) (cli.Predictor, error) {
	uc, info, err := bootstrap.NewPredictor(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("model_loaded", "kind", info.Kind, "version", info.Version)
	return uc, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.Env{
		Config:       config.Load(),
		NewPredictor: loadPredictor,
		Version:      version,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = lipgloss.Fprintln(os.Stderr, cli.ErrorLine(err))
		stop()
		os.Exit(1)
	}
}
