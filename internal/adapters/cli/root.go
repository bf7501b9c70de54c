package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kirillkom/loan-approval-predictor/internal/config"
	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/ports"
	"github.com/kirillkom/loan-approval-predictor/internal/observability/logging"
)

// Predictor is what every loanctl command scores with.
type Predictor interface {
	ports.LoanPredictor
	ScoreBatch(ctx context.Context, rows []domain.BatchRow) ([]domain.BatchResult, error)
}

// PredictorFactory loads the classifier for one invocation.
type PredictorFactory func(ctx context.Context, cfg config.Config, logger *slog.Logger) (Predictor, error)

// Env carries everything the command tree touches outside itself.
type Env struct {
	Config       config.Config
	NewPredictor PredictorFactory
	Version      string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type rootOptions struct {
	modelPath    string
	modelBackend string
	modelServer  string
	logLevel     string
}

// app is the per-invocation state shared by subcommands once flags are
// parsed.
type app struct {
	env    Env
	cfg    config.Config
	logger *slog.Logger
}

func (a *app) predictor(ctx context.Context) (Predictor, error) {
	return a.env.NewPredictor(ctx, a.cfg, a.logger)
}

func NewRootCommand(env Env) *cobra.Command {
	opts := &rootOptions{}
	a := &app{env: env}

	root := &cobra.Command{
		Use:           "loanctl",
		Short:         "Loan approval predictions from the terminal",
		Long:          "loanctl scores loan applications with the pre-trained classifier, renders reports and serves the model over MCP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.cfg = env.Config
			if opts.modelPath != "" {
				a.cfg.ModelPath = opts.modelPath
			}
			if opts.modelBackend != "" {
				a.cfg.ModelBackend = opts.modelBackend
			}
			if opts.modelServer != "" {
				a.cfg.ModelServerURL = opts.modelServer
			}
			if opts.logLevel != "" {
				a.cfg.LogLevel = opts.logLevel
			}
			a.logger = logging.New(cmd.ErrOrStderr(), "loanctl", a.cfg.LogLevel, "text")
			return nil
		},
	}
	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.modelPath, "model", "", "Path to the model artifact (overrides MODEL_PATH)")
	flags.StringVar(&opts.modelBackend, "model-backend", "", "Model backend: artifact or remote (overrides MODEL_BACKEND)")
	flags.StringVar(&opts.modelServer, "model-server", "", "Model server base URL (overrides MODEL_SERVER_URL)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")

	root.AddCommand(
		newPredictCommand(a),
		newAssessCommand(a),
		newBatchCommand(a),
		newReportCommand(a),
		newMCPCommand(a),
		newVersionCommand(a),
	)
	return root
}
