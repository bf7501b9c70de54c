package mcpadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/ports"
)

const PredictToolName = "predict_loan_approval"

type toolResult struct {
	Approved            bool    `json:"approved"`
	Verdict             string  `json:"verdict"`
	Sentence            string  `json:"sentence"`
	Confidence          string  `json:"confidence"`
	ApprovalProbability float64 `json:"approval_probability"`
}

type Handler struct {
	predictor ports.LoanPredictor
	logger    *slog.Logger
}

func NewHandler(predictor ports.LoanPredictor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{predictor: predictor, logger: logger}
}

// NewServer builds the stdio MCP server exposing the prediction tool.
func NewServer(h *Handler, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"loan-approval-predictor",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTool(PredictTool(), h.PredictLoanApproval)
	return s
}

// PredictTool describes the form fields as typed parameters. Omitted
// parameters take the form defaults.
func PredictTool() mcp.Tool {
	def := domain.DefaultApplication()
	return mcp.NewTool(PredictToolName,
		mcp.WithDescription("Predict whether a loan application will be approved. Amounts are in form units: incomes in LPA, loan amount in Lakhs, term in years."),
		mcp.WithTitleAnnotation("Loan approval prediction"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("gender", mcp.Enum("Male", "Female"), mcp.DefaultString(def.Gender)),
		mcp.WithString("married", mcp.Enum("Yes", "No"), mcp.DefaultString(def.Married)),
		mcp.WithString("dependents", mcp.Enum("0", "1", "2", "3+"), mcp.DefaultString(def.Dependents)),
		mcp.WithString("education", mcp.Enum("Graduate", "Not Graduate"), mcp.DefaultString(def.Education)),
		mcp.WithString("self_employed", mcp.Enum("Yes", "No"), mcp.DefaultString(def.SelfEmployed)),
		mcp.WithNumber("applicant_income_lpa", mcp.Min(0), mcp.DefaultNumber(def.ApplicantIncome),
			mcp.Description("Applicant income in lakhs per annum")),
		mcp.WithNumber("coapplicant_income_lpa", mcp.Min(0), mcp.DefaultNumber(def.CoapplicantIncome),
			mcp.Description("Coapplicant income in lakhs per annum")),
		mcp.WithNumber("loan_amount_lakh", mcp.Min(0), mcp.DefaultNumber(def.LoanAmount),
			mcp.Description("Requested loan amount in lakhs")),
		mcp.WithNumber("loan_term_years", mcp.Min(domain.MinLoanTermYears), mcp.Max(domain.MaxLoanTermYears),
			mcp.DefaultNumber(float64(def.LoanTermYears))),
		mcp.WithString("credit_history", mcp.Enum("Yes", "No"), mcp.DefaultString(def.CreditHistory),
			mcp.Description("Whether the applicant meets credit guidelines")),
		mcp.WithString("property_area", mcp.Enum("Urban", "Semiurban", "Rural"), mcp.DefaultString(def.PropertyArea)),
	)
}

func (h *Handler) PredictLoanApproval(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	app, err := applicationFromArguments(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := h.predictor.PredictApplication(ctx, app)
	if err != nil {
		if domain.IsKind(err, domain.ErrInvalidInput) {
			return mcp.NewToolResultError(userMessage(err)), nil
		}
		h.logger.Error("mcp_prediction_failed", "tool", PredictToolName, "error", err)
		if domain.IsKind(err, domain.ErrTemporary) {
			return mcp.NewToolResultError("the prediction service is temporarily unavailable, please retry"), nil
		}
		return mcp.NewToolResultError("prediction failed"), nil
	}

	out := toolResult{
		Approved:            result.Approved,
		Verdict:             result.Verdict().String(),
		Sentence:            result.Sentence(),
		Confidence:          result.ConfidenceText(),
		ApprovalProbability: result.ApprovalProbability,
	}
	text := fmt.Sprintf("%s\nConfidence Score: %s", out.Sentence, out.Confidence)
	return mcp.NewToolResultStructured(out, text), nil
}

// applicationFromArguments starts from the form defaults and overrides
// every argument the caller supplied. Arguments of the wrong JSON type are
// rejected rather than defaulted.
func applicationFromArguments(req mcp.CallToolRequest) (domain.Application, error) {
	app := domain.DefaultApplication()
	args := req.GetArguments()
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	text := func(key string, dst *string) {
		if _, ok := args[key]; !ok {
			return
		}
		v, err := req.RequireString(key)
		if err != nil {
			fail(domain.InvalidField("read tool arguments", key, "", "must be a string"))
			return
		}
		*dst = v
	}
	number := func(key string, dst *float64) {
		if _, ok := args[key]; !ok {
			return
		}
		v, err := req.RequireFloat(key)
		if err != nil {
			fail(domain.InvalidField("read tool arguments", key, fmt.Sprint(args[key]), "must be a number"))
			return
		}
		*dst = v
	}

	text("gender", &app.Gender)
	text("married", &app.Married)
	text("dependents", &app.Dependents)
	text("education", &app.Education)
	text("self_employed", &app.SelfEmployed)
	number("applicant_income_lpa", &app.ApplicantIncome)
	number("coapplicant_income_lpa", &app.CoapplicantIncome)
	number("loan_amount_lakh", &app.LoanAmount)
	text("credit_history", &app.CreditHistory)
	text("property_area", &app.PropertyArea)

	term := float64(app.LoanTermYears)
	number("loan_term_years", &term)
	if term != math.Trunc(term) || math.Abs(term) > math.MaxInt32 {
		fail(domain.InvalidField("read tool arguments", "loan_term_years", fmt.Sprint(term), "must be a whole number of years"))
	} else {
		app.LoanTermYears = int(term)
	}

	return app, firstErr
}

func userMessage(err error) string {
	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Error()
	}
	return err.Error()
}
