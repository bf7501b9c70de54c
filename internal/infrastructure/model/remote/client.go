// Package remote scores applications against a model server over HTTP.
//
// The server exposes GET /metadata, POST /predict and POST /predict_proba and
// speaks the instances/predictions JSON shape used by common sklearn
// serving stacks.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	guard      *resilience.Guard
}

func New(baseURL string, timeout time.Duration, guard *resilience.Guard) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if guard == nil {
		guard = resilience.NewGuard(resilience.Config{})
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		guard:      guard,
	}
}

type Metadata struct {
	FeatureNames []string `json:"feature_names"`
	ModelVersion string   `json:"model_version"`
}

func (c *Client) Metadata(ctx context.Context) (Metadata, error) {
	var out Metadata
	err := c.guarded(ctx, "metadata", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, "/metadata", nil, &out, "metadata")
	})
	return out, err
}

// Classifier adapts a model server to ports.Classifier.
type Classifier struct {
	client  *Client
	version string
}

// Connect checks that the server was trained on the expected feature order.
// Any failure here is a model load failure.
func Connect(ctx context.Context, client *Client) (*Classifier, error) {
	meta, err := client.Metadata(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelLoad, "remote model metadata", err)
	}
	if !domain.SameFeatureOrder(meta.FeatureNames) {
		return nil, domain.WrapError(domain.ErrModelLoad, "remote model metadata",
			fmt.Errorf("feature_names %v do not match expected order %v", meta.FeatureNames, domain.FeatureNames))
	}
	return &Classifier{client: client, version: meta.ModelVersion}, nil
}

func (c *Classifier) Kind() string    { return "remote" }
func (c *Classifier) Version() string { return c.version }

type instancesRequest struct {
	Instances [][]float64 `json:"instances"`
}

func (c *Classifier) Classify(ctx context.Context, x domain.FeatureVector) (domain.Verdict, error) {
	if err := x.CheckFinite("remote predict"); err != nil {
		return domain.VerdictRejected, err
	}
	var response struct {
		Predictions []float64 `json:"predictions"`
	}
	err := c.client.guarded(ctx, "predict", func(ctx context.Context) error {
		return c.client.doJSON(ctx, http.MethodPost, "/predict", instancesRequest{Instances: [][]float64{x.Slice()}}, &response, "predict")
	})
	if err != nil {
		return domain.VerdictRejected, err
	}
	if len(response.Predictions) != 1 {
		return domain.VerdictRejected, domain.WrapError(domain.ErrDimensionMismatch, "remote predict",
			fmt.Errorf("want 1 prediction, got %d", len(response.Predictions)))
	}
	switch response.Predictions[0] {
	case 0:
		return domain.VerdictRejected, nil
	case 1:
		return domain.VerdictApproved, nil
	default:
		return domain.VerdictRejected, domain.WrapError(domain.ErrDimensionMismatch, "remote predict",
			fmt.Errorf("unexpected class label %v", response.Predictions[0]))
	}
}

func (c *Classifier) ScoreApproval(ctx context.Context, x domain.FeatureVector) (float64, error) {
	if err := x.CheckFinite("remote predict_proba"); err != nil {
		return 0, err
	}
	var response struct {
		Probabilities [][]float64 `json:"probabilities"`
	}
	err := c.client.guarded(ctx, "predict_proba", func(ctx context.Context) error {
		return c.client.doJSON(ctx, http.MethodPost, "/predict_proba", instancesRequest{Instances: [][]float64{x.Slice()}}, &response, "predict_proba")
	})
	if err != nil {
		return 0, err
	}
	if len(response.Probabilities) != 1 || len(response.Probabilities[0]) != 2 {
		return 0, domain.WrapError(domain.ErrDimensionMismatch, "remote predict_proba",
			fmt.Errorf("want a 1x2 probability matrix, got %v", response.Probabilities))
	}
	return response.Probabilities[0][1], nil
}
