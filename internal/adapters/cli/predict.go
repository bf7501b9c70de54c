package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/encoding"
)

type question struct {
	label string
	dst   func(*domain.PromptAnswers) *string
}

func choices(tokens []string) string {
	return " (" + strings.Join(tokens, "/") + ")"
}

// promptQuestions are asked alphabetically by label, not in feature order.
// Amounts are taken at dataset scale: monthly incomes, loan amount in
// thousands, term in months.
func promptQuestions() []question {
	v := encoding.PromptVocabulary
	return []question{
		{"Applicant Income", func(a *domain.PromptAnswers) *string { return &a.ApplicantIncome }},
		{"Coapplicant Income", func(a *domain.PromptAnswers) *string { return &a.CoapplicantIncome }},
		{"Credit History" + choices(encoding.Tokens(v.CreditHistory)), func(a *domain.PromptAnswers) *string { return &a.CreditHistory }},
		{"Dependents" + choices(encoding.Tokens(v.Dependents)), func(a *domain.PromptAnswers) *string { return &a.Dependents }},
		{"Education" + choices(encoding.Tokens(v.Education)), func(a *domain.PromptAnswers) *string { return &a.Education }},
		{"Gender" + choices(encoding.Tokens(v.Gender)), func(a *domain.PromptAnswers) *string { return &a.Gender }},
		{"Loan Amount", func(a *domain.PromptAnswers) *string { return &a.LoanAmount }},
		{"Loan Amount Term", func(a *domain.PromptAnswers) *string { return &a.LoanTermMonths }},
		{"Married" + choices(encoding.Tokens(v.Married)), func(a *domain.PromptAnswers) *string { return &a.Married }},
		{"Property Area" + choices(encoding.Tokens(v.PropertyArea)), func(a *domain.PromptAnswers) *string { return &a.PropertyArea }},
		{"Self Employed" + choices(encoding.Tokens(v.SelfEmployed)), func(a *domain.PromptAnswers) *string { return &a.SelfEmployed }},
	}
}

// collectAnswers asks every question in turn. Answers are passed through
// untouched apart from the line ending; validation is the encoder's job.
func collectAnswers(in io.Reader, out io.Writer) (domain.PromptAnswers, error) {
	var answers domain.PromptAnswers
	scanner := bufio.NewScanner(in)
	for _, q := range promptQuestions() {
		if _, err := lipgloss.Fprint(out, promptStyle.Render(q.label+": ")); err != nil {
			return answers, err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return answers, fmt.Errorf("read answer: %w", err)
			}
			return answers, errors.New("input ended before every question was answered")
		}
		*q.dst(&answers) = strings.TrimRight(scanner.Text(), "\r")
	}
	return answers, nil
}

func newPredictCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Answer the application questions and print the verdict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			predictor, err := a.predictor(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			answers, err := collectAnswers(cmd.InOrStdin(), out)
			if err != nil {
				return err
			}
			result, err := predictor.PredictPrompt(cmd.Context(), answers)
			if err != nil {
				return err
			}

			_, _ = lipgloss.Fprintln(out)
			_, _ = lipgloss.Fprintln(out, verdictLine(result))
			_, _ = lipgloss.Fprintln(out, confidenceLine(result))
			return nil
		},
	}
}
