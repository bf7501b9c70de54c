package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/infrastructure/resilience"
)

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "model server status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("model server %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("model server %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

type decodeError struct {
	operation string
	err       error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.operation, e.err)
}

func (e *decodeError) Unwrap() error { return e.err }

// encodeError is a request that could not be built locally. It never reaches
// the server, so it says nothing about the server's health.
type encodeError struct {
	operation string
	err       error
}

func (e *encodeError) Error() string {
	return fmt.Sprintf("encode %s request: %v", e.operation, e.err)
}

func (e *encodeError) Unwrap() error { return e.err }

// guarded runs one call behind the breaker and maps the outcome onto
// domain error kinds. Nothing is retried.
func (c *Client) guarded(ctx context.Context, operation string, fn func(context.Context) error) error {
	err := c.guard.Execute(ctx, "model_server."+operation, fn, countsAsFailure)
	return classify(operation, err)
}

func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var encodeErr *encodeError
	if errors.As(err, &encodeErr) {
		return false
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return isServerSideStatus(statusErr.StatusCode)
	}
	return true
}

func classify(operation string, err error) error {
	if err == nil {
		return nil
	}
	op := "remote " + operation
	if errors.Is(err, context.Canceled) {
		return err
	}
	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, op, err)
	}

	var encodeErr *encodeError
	if errors.As(err, &encodeErr) {
		return domain.WrapError(domain.ErrInvalidInput, op, err)
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case isServerSideStatus(statusErr.StatusCode):
			return domain.WrapError(domain.ErrTemporary, op, err)
		case statusErr.StatusCode == http.StatusBadRequest || statusErr.StatusCode == http.StatusUnprocessableEntity:
			return domain.WrapError(domain.ErrDimensionMismatch, op, err)
		default:
			return err
		}
	}

	var decodeErr *decodeError
	if errors.As(err, &decodeErr) {
		return domain.WrapError(domain.ErrDimensionMismatch, op, err)
	}

	// Transport failures and timeouts.
	return domain.WrapError(domain.ErrTemporary, op, err)
}

func isServerSideStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	default:
		return statusCode >= 500
	}
}
