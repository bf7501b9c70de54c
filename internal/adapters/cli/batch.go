package cli

import (
	"errors"
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/spreadsheet"
)

func newBatchCommand(a *app) *cobra.Command {
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score every application in a spreadsheet",
		Long: "Reads form-unit applications from the first sheet of --in (one per row, header row first)\n" +
			"and writes the input columns with Verdict, Confidence and Error to --out.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if inPath == outPath {
				return errors.New("--in and --out must be different files")
			}
			predictor, err := a.predictor(cmd.Context())
			if err != nil {
				return err
			}

			in, err := os.Open(inPath)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			rows, err := spreadsheet.ReadApplications(in)
			_ = in.Close()
			if err != nil {
				return err
			}

			results, err := predictor.ScoreBatch(cmd.Context(), rows)
			if err != nil {
				return err
			}
			for _, res := range results {
				if res.Err != nil {
					a.logger.Warn("batch_row_failed", "line", res.Row.Line, "error", res.Err)
				}
			}

			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := spreadsheet.WriteResults(out, results); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}

			printSummary(cmd, domain.Summarize(results), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "Input .xlsx file")
	cmd.Flags().StringVar(&outPath, "out", "", "Output .xlsx file")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func printSummary(cmd *cobra.Command, s domain.BatchSummary, outPath string) {
	out := cmd.OutOrStdout()
	_, _ = lipgloss.Fprintf(out, "%s %d  %s %d  %s %d  %s %d\n",
		labelStyle.Render("Total:"), s.Total,
		approvedStyle.Render("Approved:"), s.Approved,
		rejectedStyle.Render("Rejected:"), s.Rejected,
		errorStyle.Render("Failed:"), s.Failed,
	)
	_, _ = lipgloss.Fprintln(out, labelStyle.Render("Results:")+" "+outPath)
}
