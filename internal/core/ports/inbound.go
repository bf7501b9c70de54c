package ports

import (
	"context"
	"io"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

// LoanPredictor is the inbound contract shared by every frontend.
type LoanPredictor interface {
	PredictApplication(ctx context.Context, app domain.Application) (domain.PredictionResult, error)
	PredictPrompt(ctx context.Context, answers domain.PromptAnswers) (domain.PredictionResult, error)
}

// ReportService renders and serves PDF reports on demand.
type ReportService interface {
	Generate(ctx context.Context, app domain.Application, result domain.PredictionResult) (*domain.Report, error)
	Open(ctx context.Context, id string) (*domain.Report, io.ReadCloser, error)
	GetByID(ctx context.Context, id string) (*domain.Report, error)
}

// Assessor runs prediction and report generation as one step.
type Assessor interface {
	Assess(ctx context.Context, app domain.Application) (*domain.Assessment, error)
}
