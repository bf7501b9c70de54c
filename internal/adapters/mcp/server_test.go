package mcpadapter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

type predictorFake struct {
	result domain.PredictionResult
	err    error
	seen   []domain.Application
}

func (f *predictorFake) PredictApplication(_ context.Context, app domain.Application) (domain.PredictionResult, error) {
	f.seen = append(f.seen, app)
	return f.result, f.err
}

func (f *predictorFake) PredictPrompt(context.Context, domain.PromptAnswers) (domain.PredictionResult, error) {
	return f.result, f.err
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = PredictToolName
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatalf("expected tool content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestPredictToolDescribesEveryFormField(t *testing.T) {
	tool := PredictTool()
	if tool.Name != PredictToolName {
		t.Fatalf("unexpected tool name %q", tool.Name)
	}
	for _, name := range []string{
		"gender", "married", "dependents", "education", "self_employed",
		"applicant_income_lpa", "coapplicant_income_lpa", "loan_amount_lakh",
		"loan_term_years", "credit_history", "property_area",
	} {
		if _, ok := tool.InputSchema.Properties[name]; !ok {
			t.Fatalf("expected parameter %q", name)
		}
	}
}

func TestNewServerRegistersPredictTool(t *testing.T) {
	s := NewServer(NewHandler(&predictorFake{}, nil), "test")
	if s.GetTool(PredictToolName) == nil {
		t.Fatalf("expected %s to be registered", PredictToolName)
	}
}

func TestPredictLoanApprovalUsesDefaultsAndArguments(t *testing.T) {
	predictor := &predictorFake{result: domain.NewPredictionResult(domain.VerdictApproved, 0.82)}
	h := NewHandler(predictor, nil)

	res, err := h.PredictLoanApproval(context.Background(), callRequest(map[string]any{
		"property_area":   "Rural",
		"loan_term_years": float64(15),
	}))
	if err != nil {
		t.Fatalf("PredictLoanApproval() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	text := resultText(t, res)
	if !strings.Contains(text, domain.ApprovedSentence) || !strings.Contains(text, "Confidence Score: 82.00%") {
		t.Fatalf("unexpected tool text %q", text)
	}
	out, ok := res.StructuredContent.(toolResult)
	if !ok || out.Verdict != "approved" {
		t.Fatalf("unexpected structured content %#v", res.StructuredContent)
	}

	got := predictor.seen[0]
	if got.PropertyArea != "Rural" || got.LoanTermYears != 15 || got.Gender != "Male" || got.ApplicantIncome != 6.0 {
		t.Fatalf("unexpected application %+v", got)
	}
}

func TestPredictLoanApprovalRejectsBadArguments(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"fractional term", map[string]any{"loan_term_years": 12.5}, "loan_term_years"},
		{"number as bool", map[string]any{"loan_amount_lakh": true}, "loan_amount_lakh"},
		{"string as number", map[string]any{"gender": 1.0}, "gender"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictor := &predictorFake{}
			res, err := NewHandler(predictor, nil).PredictLoanApproval(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatalf("PredictLoanApproval() error = %v", err)
			}
			if !res.IsError || !strings.Contains(resultText(t, res), tt.want) {
				t.Fatalf("expected tool error naming %s", tt.want)
			}
			if len(predictor.seen) != 0 {
				t.Fatalf("expected no prediction for bad arguments")
			}
		})
	}
}

func TestPredictLoanApprovalReportsPredictorErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid", domain.InvalidField("encode", "dependents", "5", "unknown value"), "dependents"},
		{"temporary", domain.WrapError(domain.ErrTemporary, "classify", errors.New("502")), "temporarily unavailable"},
		{"internal", errors.New("boom"), "prediction failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewHandler(&predictorFake{err: tt.err}, nil).PredictLoanApproval(context.Background(), callRequest(nil))
			if err != nil {
				t.Fatalf("PredictLoanApproval() error = %v", err)
			}
			if !res.IsError || !strings.Contains(resultText(t, res), tt.want) {
				t.Fatalf("expected tool error containing %q, got %q", tt.want, resultText(t, res))
			}
		})
	}
}
