package remote

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/resilience"
)

func metadataHandler(names []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"feature_names": names, "model_version": "srv-1"})
	}
}

func newServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func sampleVector() domain.FeatureVector {
	var x domain.FeatureVector
	x[domain.FeatureCreditHistory] = 1
	x[domain.FeatureTotalIncomeLog] = math.Log(62500)
	return x
}

func TestConnectAndScore(t *testing.T) {
	var captured [][]float64
	server := newServer(t, map[string]http.HandlerFunc{
		"GET /metadata": metadataHandler(domain.FeatureNames[:]),
		"POST /predict": func(w http.ResponseWriter, r *http.Request) {
			var payload instancesRequest
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode request: %v", err)
			}
			captured = payload.Instances
			_, _ = w.Write([]byte(`{"predictions":[1]}`))
		},
		"POST /predict_proba": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"probabilities":[[0.18,0.82]]}`))
		},
	})

	classifier, err := Connect(context.Background(), New(server.URL, time.Second, nil))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if classifier.Version() != "srv-1" {
		t.Fatalf("unexpected version %q", classifier.Version())
	}

	verdict, err := classifier.Classify(context.Background(), sampleVector())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if verdict != domain.VerdictApproved {
		t.Fatalf("expected approved, got %s", verdict)
	}
	if len(captured) != 1 || len(captured[0]) != domain.FeatureCount {
		t.Fatalf("expected a single row of %d features, got %v", domain.FeatureCount, captured)
	}
	if captured[0][domain.FeatureCreditHistory] != 1 {
		t.Fatalf("credit history not sent in position: %v", captured[0])
	}

	p, err := classifier.ScoreApproval(context.Background(), sampleVector())
	if err != nil {
		t.Fatalf("ScoreApproval() error = %v", err)
	}
	if p != 0.82 {
		t.Fatalf("expected 0.82, got %v", p)
	}
}

func TestConnectRejectsFeatureOrderMismatch(t *testing.T) {
	names := append([]string(nil), domain.FeatureNames[:]...)
	names[0], names[1] = names[1], names[0]
	server := newServer(t, map[string]http.HandlerFunc{
		"GET /metadata": metadataHandler(names),
	})

	_, err := Connect(context.Background(), New(server.URL, time.Second, nil))
	if !domain.IsKind(err, domain.ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
}

func TestConnectUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := Connect(context.Background(), New(url, time.Second, nil))
	if !domain.IsKind(err, domain.ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
}

func TestClassifyMapsServerErrors(t *testing.T) {
	server := newServer(t, map[string]http.HandlerFunc{
		"POST /predict": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model unavailable", http.StatusBadGateway)
		},
		"POST /predict_proba": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "expected 10 features", http.StatusBadRequest)
		},
	})
	classifier := &Classifier{client: New(server.URL, time.Second, nil)}

	_, err := classifier.Classify(context.Background(), sampleVector())
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}

	_, err = classifier.ScoreApproval(context.Background(), sampleVector())
	if !domain.IsKind(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestMalformedResponsesAreDimensionMismatches(t *testing.T) {
	server := newServer(t, map[string]http.HandlerFunc{
		"POST /predict": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"predictions":[1,0]}`))
		},
		"POST /predict_proba": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"probabilities":[[0.5]]}`))
		},
	})
	classifier := &Classifier{client: New(server.URL, time.Second, nil)}

	if _, err := classifier.Classify(context.Background(), sampleVector()); !domain.IsKind(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch from predict, got %v", err)
	}
	if _, err := classifier.ScoreApproval(context.Background(), sampleVector()); !domain.IsKind(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch from predict_proba, got %v", err)
	}
}

func TestBreakerOpensOnRepeatedServerFailures(t *testing.T) {
	calls := 0
	server := newServer(t, map[string]http.HandlerFunc{
		"POST /predict": func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	})
	guard := resilience.NewGuard(resilience.Config{
		Enabled:      true,
		MinRequests:  2,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	})
	classifier := &Classifier{client: New(server.URL, time.Second, guard)}

	for i := 0; i < 3; i++ {
		_, err := classifier.Classify(context.Background(), sampleVector())
		if !domain.IsKind(err, domain.ErrTemporary) {
			t.Fatalf("call %d: expected ErrTemporary, got %v", i, err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected breaker to short-circuit the third call, server saw %d calls", calls)
	}
	if guard.State("model_server.predict") != "open" {
		t.Fatalf("expected open breaker, got %s", guard.State("model_server.predict"))
	}
}

func TestNonFiniteFeaturesAreInvalidInputAndSpareTheBreaker(t *testing.T) {
	calls := 0
	server := newServer(t, map[string]http.HandlerFunc{
		"POST /predict": func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = w.Write([]byte(`{"predictions":[1]}`))
		},
		"POST /predict_proba": func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = w.Write([]byte(`{"probabilities":[[0.2,0.8]]}`))
		},
	})
	guard := resilience.NewGuard(resilience.Config{
		Enabled:      true,
		MinRequests:  2,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	})
	classifier := &Classifier{client: New(server.URL, time.Second, guard)}

	overflowed := sampleVector()
	overflowed[domain.FeatureTotalIncomeLog] = math.Inf(1)

	for i := 0; i < 3; i++ {
		_, err := classifier.Classify(context.Background(), overflowed)
		if !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("call %d: expected ErrInvalidInput, got %v", i, err)
		}
		if domain.IsKind(err, domain.ErrTemporary) {
			t.Fatalf("call %d: bad input must not look temporary, got %v", i, err)
		}
	}
	if _, err := classifier.ScoreApproval(context.Background(), overflowed); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput from predict_proba, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no server calls for non-finite input, got %d", calls)
	}

	verdict, err := classifier.Classify(context.Background(), sampleVector())
	if err != nil {
		t.Fatalf("valid call after rejected input: %v", err)
	}
	if verdict != domain.VerdictApproved {
		t.Fatalf("expected approved, got %s", verdict)
	}
	if guard.State("model_server.predict") != "closed" {
		t.Fatalf("expected closed breaker, got %s", guard.State("model_server.predict"))
	}
}

func TestRequestEncodeFailuresDoNotTripBreaker(t *testing.T) {
	server := newServer(t, map[string]http.HandlerFunc{
		"POST /predict": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"predictions":[0]}`))
		},
	})
	guard := resilience.NewGuard(resilience.Config{
		Enabled:      true,
		MinRequests:  2,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	})
	client := New(server.URL, time.Second, guard)

	for i := 0; i < 3; i++ {
		err := client.guarded(context.Background(), "predict", func(ctx context.Context) error {
			var out struct{}
			return client.doJSON(ctx, http.MethodPost, "/predict", instancesRequest{Instances: [][]float64{{math.NaN()}}}, &out, "predict")
		})
		if !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("call %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
	if guard.State("model_server.predict") != "closed" {
		t.Fatalf("expected closed breaker, got %s", guard.State("model_server.predict"))
	}
}
