package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareNormalizesReportPaths(t *testing.T) {
	m := NewHTTPServerMetrics("loan-api")
	handler := m.Middleware("loan-api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest(http.MethodGet, "/reports/"+id, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues("loan-api", http.MethodGet, "/reports/{id}", "404"))
	if got != 3 {
		t.Fatalf("expected 3 requests on normalized path, got %v", got)
	}
}

func TestRecordPredictionAndReport(t *testing.T) {
	m := NewHTTPServerMetrics("loan-api")
	m.RecordPrediction("loan-api", "form", true, 0.82)
	m.RecordPrediction("loan-api", "form", false, 0.3)
	m.RecordPrediction("loan-api", "json", true, 0.9)
	m.RecordPredictionError("loan-api", "json", "")
	m.RecordReport("loan-api", 2048)
	m.SetModelInfo("loan-api", "logistic_regression", "")

	if got := testutil.ToFloat64(m.predictionsTotal.WithLabelValues("loan-api", "form", "approved")); got != 1 {
		t.Fatalf("expected 1 approved form prediction, got %v", got)
	}
	if got := testutil.ToFloat64(m.predictionErrorsTotal.WithLabelValues("loan-api", "json", "unknown")); got != 1 {
		t.Fatalf("expected 1 unknown error, got %v", got)
	}
	if got := testutil.ToFloat64(m.reportsTotal.WithLabelValues("loan-api")); got != 1 {
		t.Fatalf("expected 1 report, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{"loan_prediction_approval_probability_bucket", `loan_model_info{kind="logistic_regression",service="loan-api",version="unknown"} 1`} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
