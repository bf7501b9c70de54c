// Package report assembles the content of a loan prediction report. Layout
// and serialization belong to the renderer.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

const (
	Title             = "Loan Prediction Report"
	ApplicantHeading  = "Applicant Details"
	PredictionHeading = "Prediction Result"
)

type Section struct {
	Heading string
	Lines   []string
}

type Document struct {
	Title       string
	Sections    []Section
	GeneratedAt time.Time
}

// Build snapshots the raw, pre-conversion application and the verdict the
// frontend displayed.
func Build(app domain.Application, result domain.PredictionResult, generatedAt time.Time) Document {
	details := Section{
		Heading: ApplicantHeading,
		Lines: []string{
			"Gender: " + app.Gender,
			"Marital Status: " + app.Married,
			"Dependents: " + app.Dependents,
			"Education: " + app.Education,
			"Self Employed: " + app.SelfEmployed,
			"Applicant Income: " + FormatAmount(app.ApplicantIncome) + " LPA",
			"Coapplicant Income: " + FormatAmount(app.CoapplicantIncome) + " LPA",
			"Loan Amount: " + FormatAmount(app.LoanAmount) + " Lakhs",
			fmt.Sprintf("Loan Term: %d Years", app.LoanTermYears),
			"Credit History: " + app.CreditHistory,
			"Property Area: " + app.PropertyArea,
		},
	}
	outcome := Section{
		Heading: PredictionHeading,
		Lines: []string{
			result.Sentence(),
			"Confidence Score: " + result.ConfidenceText(),
		},
	}
	return Document{
		Title:       Title,
		Sections:    []Section{details, outcome},
		GeneratedAt: generatedAt,
	}
}

// FormatAmount prints a user-entered amount the way it was typed into a
// decimal widget: integral values keep one decimal place ("6.0").
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// PlainText renders the document as lines of text, one per heading or entry.
func (d Document) PlainText() string {
	var b strings.Builder
	b.WriteString(d.Title)
	b.WriteByte('\n')
	for _, sec := range d.Sections {
		b.WriteByte('\n')
		b.WriteString(sec.Heading)
		b.WriteString(":\n")
		for _, line := range sec.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
