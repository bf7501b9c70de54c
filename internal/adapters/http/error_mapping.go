package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrReportNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorKind labels an error for metrics.
func errorKind(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "invalid_input"
	case domain.IsKind(err, domain.ErrReportNotFound):
		return "not_found"
	case domain.IsKind(err, domain.ErrTemporary):
		return "temporary"
	case domain.IsKind(err, domain.ErrDimensionMismatch):
		return "dimension_mismatch"
	default:
		return "internal"
	}
}

// publicMessage is the error text shown to clients. Internal failures are
// logged, not echoed.
func publicMessage(err error) string {
	var fieldErr *domain.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return fieldErr.Error()
	case domain.IsKind(err, domain.ErrInvalidInput):
		return err.Error()
	case domain.IsKind(err, domain.ErrReportNotFound):
		return "report not found"
	case domain.IsKind(err, domain.ErrTemporary):
		return "the prediction service is temporarily unavailable, please retry"
	default:
		return "internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": publicMessage(err)})
}
