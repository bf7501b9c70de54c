package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/kirillkom/loan-approval-predictor/internal/adapters/mcp"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the prediction tool over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			predictor, err := a.predictor(cmd.Context())
			if err != nil {
				return err
			}
			s := mcpadapter.NewServer(mcpadapter.NewHandler(predictor, a.logger), a.env.Version)
			a.logger.Info("mcp_server_started", "tool", mcpadapter.PredictToolName)
			return server.NewStdioServer(s).Listen(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
