package minio

import (
	"errors"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

func TestNewBuildsClientWithoutConnecting(t *testing.T) {
	storage, err := New(Config{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "reports",
		Region:    "us-east-1",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if storage.bucket != "reports" {
		t.Fatalf("unexpected bucket %q", storage.bucket)
	}
}

func TestNewRejectsInvalidEndpoint(t *testing.T) {
	if _, err := New(Config{Endpoint: "http://localhost:9000/path"}); err == nil {
		t.Fatalf("expected error for endpoint with scheme and path")
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{
			name: "missing key",
			err:  minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound},
			kind: domain.ErrReportNotFound,
		},
		{
			name: "server error",
			err:  minio.ErrorResponse{Code: "InternalError", StatusCode: http.StatusInternalServerError},
			kind: domain.ErrTemporary,
		},
		{
			name: "transport error",
			err:  errors.New("dial tcp: connection refused"),
			kind: domain.ErrTemporary,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := mapError("open", tt.err); !domain.IsKind(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}

	denied := mapError("open", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden})
	if domain.IsKind(denied, domain.ErrTemporary) || domain.IsKind(denied, domain.ErrReportNotFound) {
		t.Fatalf("access denied should not be classified, got %v", denied)
	}
}
