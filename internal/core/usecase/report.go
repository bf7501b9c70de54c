package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/ports"
	"github.com/kirillkom/loan-approval-predictor/internal/core/report"
)

type ReportUseCase struct {
	renderer ports.ReportRenderer
	storage  ports.ObjectStorage
	repo     ports.ReportRepository
	now      func() time.Time
}

func NewReportUseCase(
	renderer ports.ReportRenderer,
	storage ports.ObjectStorage,
	repo ports.ReportRepository,
) *ReportUseCase {
	return &ReportUseCase{
		renderer: renderer,
		storage:  storage,
		repo:     repo,
		now:      time.Now,
	}
}

// Generate renders the report for one prediction, stores the PDF and
// indexes it so it can be downloaded later by ID. A PDF that cannot be
// indexed is removed again.
func (uc *ReportUseCase) Generate(
	ctx context.Context,
	app domain.Application,
	result domain.PredictionResult,
) (*domain.Report, error) {
	id := uuid.NewString()
	now := uc.now().UTC()

	var buf bytes.Buffer
	if err := uc.renderer.Render(ctx, report.Build(app, result, now), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	storageKey := id + ".pdf"
	if err := uc.storage.Save(ctx, storageKey, domain.ReportMimeType, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("save report to object storage: %w", err)
	}

	rep := &domain.Report{
		ID:                  id,
		Filename:            domain.ReportFilename,
		MimeType:            domain.ReportMimeType,
		StorageKey:          storageKey,
		SizeBytes:           int64(buf.Len()),
		Approved:            result.Approved,
		ApprovalProbability: result.ApprovalProbability,
		CreatedAt:           now,
	}
	if err := uc.repo.Create(ctx, rep); err != nil {
		err = fmt.Errorf("create report metadata: %w", err)
		if delErr := uc.storage.Delete(context.WithoutCancel(ctx), storageKey); delErr != nil {
			err = errors.Join(err, fmt.Errorf("remove orphaned report object: %w", delErr))
		}
		return nil, err
	}
	return rep, nil
}

func (uc *ReportUseCase) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.WrapError(domain.ErrReportNotFound, "get report", errors.New("malformed report id"))
	}
	rep, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch report by id: %w", err)
	}
	return rep, nil
}

// Open returns the report metadata and its PDF bytes. Callers close the reader.
func (uc *ReportUseCase) Open(ctx context.Context, id string) (*domain.Report, io.ReadCloser, error) {
	rep, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := uc.storage.Open(ctx, rep.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open report object: %w", err)
	}
	return rep, body, nil
}
