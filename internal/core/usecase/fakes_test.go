package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/report"
)

type classifierFake struct {
	verdict     domain.Verdict
	probability float64
	err         error

	seen []domain.FeatureVector
}

func (f *classifierFake) Classify(_ context.Context, features domain.FeatureVector) (domain.Verdict, error) {
	f.seen = append(f.seen, features)
	if f.err != nil {
		return 0, f.err
	}
	return f.verdict, nil
}

func (f *classifierFake) ScoreApproval(context.Context, domain.FeatureVector) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.probability, nil
}

type rendererFake struct {
	doc report.Document
	err error
}

func (f *rendererFake) Render(_ context.Context, doc report.Document, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	f.doc = doc
	_, err := io.WriteString(w, "%PDF-fake\n"+doc.PlainText())
	return err
}

type storageFake struct {
	objects   map[string][]byte
	err       error
	deleteErr error

	deleted []string
}

func newStorageFake() *storageFake {
	return &storageFake{objects: map[string][]byte{}}
}

func (f *storageFake) Save(_ context.Context, key, _ string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, domain.WrapError(domain.ErrReportNotFound, "open", errors.New(key))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *storageFake) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

type reportRepoFake struct {
	reports map[string]domain.Report
	err     error
}

func newReportRepoFake() *reportRepoFake {
	return &reportRepoFake{reports: map[string]domain.Report{}}
}

func (f *reportRepoFake) Create(_ context.Context, rep *domain.Report) error {
	if f.err != nil {
		return f.err
	}
	f.reports[rep.ID] = *rep
	return nil
}

func (f *reportRepoFake) GetByID(_ context.Context, id string) (*domain.Report, error) {
	rep, ok := f.reports[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrReportNotFound, "get", errors.New(id))
	}
	return &rep, nil
}
