package httpadapter

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/kirillkom/loan-approval-predictor/internal/config"
	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

const testReportID = "7d1f7a0e-8d43-4a8e-9d0b-5b1c7c1d2e3f"

type assessorFake struct {
	result domain.PredictionResult
	err    error
	panic  bool

	calls []domain.Application
}

func (f *assessorFake) Assess(_ context.Context, app domain.Application) (*domain.Assessment, error) {
	if f.panic {
		panic("assessor exploded")
	}
	f.calls = append(f.calls, app)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Assessment{
		Application: app,
		Result:      f.result,
		Report:      testReport(f.result),
	}, nil
}

type reportsFake struct {
	rep  *domain.Report
	body []byte
	err  error
}

func (f *reportsFake) Generate(context.Context, domain.Application, domain.PredictionResult) (*domain.Report, error) {
	return f.rep, f.err
}

func (f *reportsFake) GetByID(_ context.Context, id string) (*domain.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.rep == nil || f.rep.ID != id {
		return nil, domain.WrapError(domain.ErrReportNotFound, "get report", io.EOF)
	}
	return f.rep, nil
}

func (f *reportsFake) Open(ctx context.Context, id string) (*domain.Report, io.ReadCloser, error) {
	rep, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return rep, io.NopCloser(bytes.NewReader(f.body)), nil
}

func testReport(result domain.PredictionResult) *domain.Report {
	return &domain.Report{
		ID:                  testReportID,
		Filename:            domain.ReportFilename,
		MimeType:            domain.ReportMimeType,
		StorageKey:          testReportID + ".pdf",
		SizeBytes:           9,
		Approved:            result.Approved,
		ApprovalProbability: result.ApprovalProbability,
		CreatedAt:           time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func approvedResult() domain.PredictionResult {
	return domain.NewPredictionResult(domain.VerdictApproved, 0.82)
}

func newTestHandler(cfg config.Config) *Router {
	return NewRouter(cfg, &assessorFake{result: approvedResult()}, &reportsFake{}, nil)
}
