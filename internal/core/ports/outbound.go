package ports

import (
	"context"
	"io"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/report"
)

// Classifier is a pre-trained binary model loaded once per process.
// Implementations must be safe for concurrent readers.
type Classifier interface {
	Classify(ctx context.Context, features domain.FeatureVector) (domain.Verdict, error)
	ScoreApproval(ctx context.Context, features domain.FeatureVector) (float64, error)
}

// ReportRenderer serializes a report document into a portable format.
type ReportRenderer interface {
	Render(ctx context.Context, doc report.Document, w io.Writer) error
}

// ObjectStorage stores rendered report bytes.
type ObjectStorage interface {
	Save(ctx context.Context, key, contentType string, data []byte) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes key. A missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ReportRepository indexes report metadata.
type ReportRepository interface {
	Create(ctx context.Context, rep *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
}
