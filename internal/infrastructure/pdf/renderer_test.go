package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/report"
)

func renderSample(t *testing.T, result domain.PredictionResult) []byte {
	t.Helper()
	app := domain.DefaultApplication()
	doc := report.Build(app, result, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := NewRenderer("loan-approval-predictor").Render(context.Background(), doc, &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.Bytes()
}

func TestRenderProducesReadablePDF(t *testing.T) {
	data := renderSample(t, domain.NewPredictionResult(domain.VerdictApproved, 0.82))
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", data[:min(len(data), 16)])
	}

	text, err := ExtractText(data)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	for _, want := range []string{
		report.Title,
		report.ApplicantHeading + ":",
		report.PredictionHeading + ":",
		"Gender: Male",
		"Loan Term: 20 Years",
		domain.ApprovedSentence,
		"Confidence Score: 82.00%",
		"Page 1",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("extracted text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderRejectedVerdict(t *testing.T) {
	data := renderSample(t, domain.NewPredictionResult(domain.VerdictRejected, 0.3))
	text, err := ExtractText(data)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if !strings.Contains(text, domain.RejectedSentence) {
		t.Fatalf("expected rejected sentence, got:\n%s", text)
	}
	if !strings.Contains(text, "Confidence Score: 70.00%") {
		t.Fatalf("expected confidence of the displayed verdict, got:\n%s", text)
	}
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := NewRenderer("").Render(ctx, report.Document{Title: report.Title}, &buf)
	if err == nil {
		t.Fatalf("expected context error")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output on cancelled render")
	}
}

func TestExtractTextRejectsGarbage(t *testing.T) {
	if _, err := ExtractText([]byte("not a pdf")); err == nil {
		t.Fatalf("expected error for non-PDF input")
	}
}
