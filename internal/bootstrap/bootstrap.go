package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/loan-approval-predictor/internal/config"
	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/ports"
	"github.com/kirillkom/loan-approval-predictor/internal/core/usecase"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/model/artifact"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/model/remote"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/pdf"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/repository/memory"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/resilience"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/storage/minio"
)

const creator = "loan-approval-predictor"

// ModelInfo identifies the loaded classifier for logs and metrics.
type ModelInfo struct {
	Kind    string
	Version string
}

type App struct {
	Config config.Config
	Model  ModelInfo

	PredictUC *usecase.PredictionUseCase
	ReportUC  *usecase.ReportUseCase
	AssessUC  *usecase.AssessmentUseCase

	closeFn func()
}

// New wires the full application: classifier, report storage and index.
// A classifier that cannot be loaded fails with domain.ErrModelLoad.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	predictUC, info, err := NewPredictor(ctx, cfg)
	if err != nil {
		return nil, err
	}

	storage, err := newObjectStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	repo, closeRepo, err := newReportRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init report repository: %w", err)
	}

	reportUC := usecase.NewReportUseCase(pdf.NewRenderer(creator), storage, repo)
	return &App{
		Config:    cfg,
		Model:     info,
		PredictUC: predictUC,
		ReportUC:  reportUC,
		AssessUC:  usecase.NewAssessmentUseCase(predictUC, reportUC),
		closeFn:   closeRepo,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewPredictor loads only the classifier, for frontends that never
// produce reports.
func NewPredictor(ctx context.Context, cfg config.Config) (*usecase.PredictionUseCase, ModelInfo, error) {
	classifier, info, err := LoadClassifier(ctx, cfg)
	if err != nil {
		return nil, ModelInfo{}, err
	}
	return usecase.NewPredictionUseCase(classifier), info, nil
}

type describedClassifier interface {
	ports.Classifier
	Kind() string
	Version() string
}

func LoadClassifier(ctx context.Context, cfg config.Config) (ports.Classifier, ModelInfo, error) {
	var (
		classifier describedClassifier
		err        error
	)
	switch cfg.ModelBackend {
	case config.ModelBackendRemote:
		client := remote.New(
			cfg.ModelServerURL,
			time.Duration(cfg.ModelServerTimeoutSeconds)*time.Second,
			resilience.NewGuard(BreakerConfig(cfg)),
		)
		classifier, err = remote.Connect(ctx, client)
	case config.ModelBackendArtifact, "":
		classifier, err = artifact.Load(cfg.ModelPath)
	default:
		return nil, ModelInfo{}, domain.WrapError(domain.ErrModelLoad, "load classifier",
			fmt.Errorf("unsupported model backend %q", cfg.ModelBackend))
	}
	if err != nil {
		return nil, ModelInfo{}, err
	}
	return classifier, ModelInfo{Kind: classifier.Kind(), Version: classifier.Version()}, nil
}

func BreakerConfig(cfg config.Config) resilience.Config {
	return resilience.Config{
		Enabled:          cfg.BreakerEnabled,
		MinRequests:      uint32(max(cfg.BreakerMinRequests, 0)),
		FailureRatio:     cfg.BreakerFailureRatio,
		OpenTimeout:      time.Duration(cfg.BreakerOpenTimeoutSec) * time.Second,
		HalfOpenMaxCalls: uint32(max(cfg.BreakerHalfOpenMaxCalls, 0)),
		CountInterval:    time.Duration(cfg.BreakerCountIntervalSec) * time.Second,
	}
}

func newObjectStorage(ctx context.Context, cfg config.Config) (ports.ObjectStorage, error) {
	switch cfg.ReportStorage {
	case config.ReportStorageMinIO:
		storage, err := minio.New(minio.Config{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			Region:    cfg.MinIORegion,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return storage, nil
	case config.ReportStorageLocal, "":
		return localfs.New(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unsupported report storage %q", cfg.ReportStorage)
	}
}

func newReportRepository(ctx context.Context, cfg config.Config) (ports.ReportRepository, func(), error) {
	if cfg.PostgresDSN == "" {
		return memory.NewReportRepository(), func() {}, nil
	}
	db, err := postgres.OpenDB(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewReportRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	return repo, func() { _ = db.Close() }, nil
}
