package cli

import (
	"errors"

	"charm.land/lipgloss/v2"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

var (
	colorApproved = lipgloss.Color("#22C55E")
	colorRejected = lipgloss.Color("#F43F5E")
	colorDim      = lipgloss.Color("#94A3B8")
	colorAccent   = lipgloss.Color("#8B5CF6")
)

var (
	approvedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorApproved)
	rejectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorRejected)
	labelStyle    = lipgloss.NewStyle().Foreground(colorDim)
	promptStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorRejected)
)

func verdictLine(result domain.PredictionResult) string {
	if result.Approved {
		return approvedStyle.Render(result.Sentence())
	}
	return rejectedStyle.Render(result.Sentence())
}

func confidenceLine(result domain.PredictionResult) string {
	return labelStyle.Render("Confidence Score:") + " " + result.ConfidenceText()
}

// ErrorLine formats a failure for the terminal. Field errors are shown
// without the wrapping operation chain.
func ErrorLine(err error) string {
	msg := err.Error()
	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		msg = "invalid " + fieldErr.Error()
	}
	return errorStyle.Render("Error:") + " " + msg
}
