package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/report"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/pdf"
)

func newAssessCommand(a *app) *cobra.Command {
	form := domain.DefaultApplication()
	var reportPath string

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score one application given in form units",
		Long: "Score one application given in form units (incomes in LPA, loan amount in Lakhs, term in years).\n" +
			"Unset flags take the form defaults. --report writes the PDF report to a file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			predictor, err := a.predictor(cmd.Context())
			if err != nil {
				return err
			}
			result, err := predictor.PredictApplication(cmd.Context(), form)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = lipgloss.Fprintln(out, verdictLine(result))
			_, _ = lipgloss.Fprintln(out, confidenceLine(result))

			if reportPath == "" {
				return nil
			}
			if err := writeReport(cmd, reportPath, form, result); err != nil {
				return err
			}
			_, _ = lipgloss.Fprintln(out, labelStyle.Render("Report:")+" "+reportPath)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Gender, "gender", form.Gender, "Male or Female")
	f.StringVar(&form.Married, "married", form.Married, "Yes or No")
	f.StringVar(&form.Dependents, "dependents", form.Dependents, "0, 1, 2 or 3+")
	f.StringVar(&form.Education, "education", form.Education, "Graduate or Not Graduate")
	f.StringVar(&form.SelfEmployed, "self-employed", form.SelfEmployed, "Yes or No")
	f.Float64Var(&form.ApplicantIncome, "applicant-income", form.ApplicantIncome, "Applicant income in LPA")
	f.Float64Var(&form.CoapplicantIncome, "coapplicant-income", form.CoapplicantIncome, "Coapplicant income in LPA")
	f.Float64Var(&form.LoanAmount, "loan-amount", form.LoanAmount, "Loan amount in Lakhs")
	f.IntVar(&form.LoanTermYears, "loan-term", form.LoanTermYears,
		fmt.Sprintf("Loan term in years (%d-%d)", domain.MinLoanTermYears, domain.MaxLoanTermYears))
	f.StringVar(&form.CreditHistory, "credit-history", form.CreditHistory, "Yes or No")
	f.StringVar(&form.PropertyArea, "property-area", form.PropertyArea, "Urban, Semiurban or Rural")
	f.StringVar(&reportPath, "report", "", "Write the PDF report to this path")
	return cmd
}

// writeReport renders next to the target and renames, so a failed render
// never leaves a truncated PDF behind.
func writeReport(cmd *cobra.Command, path string, form domain.Application, result domain.PredictionResult) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".loanctl-report-*")
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	doc := report.Build(form, result, time.Now())
	if err := pdf.NewRenderer("loanctl").Render(cmd.Context(), doc, tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
