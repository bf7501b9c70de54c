package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/pdf"
)

func newReportCommand(_ *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect generated reports",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "text <file.pdf>",
		Short: "Print the text of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open report: %w", err)
			}
			defer f.Close()

			text, err := pdf.ExtractTextFrom(f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	})
	return cmd
}
