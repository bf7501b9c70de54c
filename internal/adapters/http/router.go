package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/loan-approval-predictor/internal/config"
	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/ports"
	"github.com/kirillkom/loan-approval-predictor/internal/observability/metrics"
)

const (
	serviceName      = "api"
	channelForm      = "form"
	channelJSON      = "json"
	backpressureWait = 250 * time.Millisecond
)

type Router struct {
	cfg       config.Config
	assessor  ports.Assessor
	reports   ports.ReportService
	metrics   *metrics.HTTPServerMetrics
	validator *requestValidator
}

func NewRouter(
	cfg config.Config,
	assessor ports.Assessor,
	reports ports.ReportService,
	m *metrics.HTTPServerMetrics,
) *Router {
	validator, err := newRequestValidator()
	if err != nil {
		panic(err)
	}
	return &Router{
		cfg:       cfg,
		assessor:  assessor,
		reports:   reports,
		metrics:   m,
		validator: validator,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", serveOpenAPIDocument)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("GET /", rt.showForm)
	mux.HandleFunc("POST /predict", rt.submitForm)
	mux.HandleFunc("GET /reports/{id}", rt.downloadReport)

	mux.HandleFunc("POST /v1/predictions", rt.createPrediction)
	mux.HandleFunc("GET /v1/reports/{id}", rt.getReport)

	var handler http.Handler = mux
	handler = rt.openAPIValidationMiddleware(handler)
	handler = backpressureMiddleware(handler, rt.cfg.APIBackpressureMax, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = recoveryMiddleware(handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// reportURL is the download link for a report, absolute when a public base
// URL is configured.
func (rt *Router) reportURL(id string) string {
	return strings.TrimRight(rt.cfg.PublicBaseURL, "/") + "/reports/" + id
}

func (rt *Router) recordAssessment(channel string, a *domain.Assessment) {
	if rt.metrics == nil || a == nil {
		return
	}
	rt.metrics.RecordPrediction(serviceName, channel, a.Result.Approved, a.Result.ApprovalProbability)
	if a.Report != nil {
		rt.metrics.RecordReport(serviceName, a.Report.SizeBytes)
	}
}

func (rt *Router) recordFailure(channel string, err error) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordPredictionError(serviceName, channel, errorKind(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
