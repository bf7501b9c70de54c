package usecase

import (
	"context"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/ports"
)

// AssessmentUseCase is the form flow: predict, then capture the inputs and
// verdict into a downloadable report.
type AssessmentUseCase struct {
	predictor ports.LoanPredictor
	reports   ports.ReportService
}

func NewAssessmentUseCase(predictor ports.LoanPredictor, reports ports.ReportService) *AssessmentUseCase {
	return &AssessmentUseCase{predictor: predictor, reports: reports}
}

func (uc *AssessmentUseCase) Assess(ctx context.Context, app domain.Application) (*domain.Assessment, error) {
	result, err := uc.predictor.PredictApplication(ctx, app)
	if err != nil {
		return nil, err
	}
	rep, err := uc.reports.Generate(ctx, app, result)
	if err != nil {
		return nil, err
	}
	return &domain.Assessment{
		Application: app,
		Result:      result,
		Report:      rep,
	}, nil
}
