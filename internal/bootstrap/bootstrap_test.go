package bootstrap

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/loan-approval-predictor/internal/config"
	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		ModelBackend:  config.ModelBackendArtifact,
		ModelPath:     filepath.Join("..", "..", "model", "loan_model.yaml"),
		ReportStorage: config.ReportStorageLocal,
		StoragePath:   t.TempDir(),
	}
}

func TestNewWiresArtifactModelAndMemoryIndex(t *testing.T) {
	app, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if app.Model.Kind != "logistic_regression" {
		t.Fatalf("unexpected model kind %q", app.Model.Kind)
	}

	assessment, err := app.AssessUC.Assess(context.Background(), domain.DefaultApplication())
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if assessment.Report == nil {
		t.Fatalf("expected a report")
	}
	rep, body, err := app.ReportUC.Open(context.Background(), assessment.Report.ID)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer body.Close()
	if rep.Filename != domain.ReportFilename {
		t.Fatalf("unexpected filename %q", rep.Filename)
	}
}

func TestNewFailsOnMissingModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg)
	if !domain.IsKind(err, domain.ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
}

func TestLoadClassifierRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.ModelBackend = "onnx"
	_, _, err := LoadClassifier(context.Background(), cfg)
	if !domain.IsKind(err, domain.ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad for unknown backend, got %v", err)
	}
	if !strings.Contains(err.Error(), `"onnx"`) {
		t.Fatalf("expected backend name in error, got %v", err)
	}
}

func TestBreakerConfigClampsNegatives(t *testing.T) {
	cfg := config.Config{BreakerEnabled: true, BreakerMinRequests: -1, BreakerHalfOpenMaxCalls: 3}
	got := BreakerConfig(cfg)
	if got.MinRequests != 0 || got.HalfOpenMaxCalls != 3 || !got.Enabled {
		t.Fatalf("unexpected breaker config %+v", got)
	}
}
