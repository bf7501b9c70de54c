package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oapi-codegen/runtime"
	"github.com/oapi-codegen/runtime/types"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

type reportLink struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type predictionResponse struct {
	Approved            bool        `json:"approved"`
	Verdict             string      `json:"verdict"`
	Sentence            string      `json:"sentence"`
	Confidence          string      `json:"confidence"`
	ApprovalProbability float64     `json:"approval_probability"`
	Report              *reportLink `json:"report,omitempty"`
}

func (rt *Router) createPrediction(w http.ResponseWriter, r *http.Request) {
	var app domain.Application
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&app); err != nil {
		err = domain.WrapError(domain.ErrInvalidInput, "decode application", errors.New("invalid json body"))
		rt.recordFailure(channelJSON, err)
		writeError(w, err)
		return
	}

	assessment, err := rt.assessor.Assess(r.Context(), app)
	if err != nil {
		rt.recordFailure(channelJSON, err)
		writeError(w, err)
		return
	}
	rt.recordAssessment(channelJSON, assessment)

	resp := predictionResponse{
		Approved:            assessment.Result.Approved,
		Verdict:             assessment.Result.Verdict().String(),
		Sentence:            assessment.Result.Sentence(),
		Confidence:          assessment.Result.ConfidenceText(),
		ApprovalProbability: assessment.Result.ApprovalProbability,
	}
	if assessment.Report != nil {
		resp.Report = &reportLink{
			ID:  assessment.Report.ID,
			URL: rt.reportURL(assessment.Report.ID),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) getReport(w http.ResponseWriter, r *http.Request) {
	var id types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", r.PathValue("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		// Report ids are always UUIDs, so anything else cannot exist.
		writeError(w, domain.WrapError(domain.ErrReportNotFound, "get report", err))
		return
	}

	rep, err := rt.reports.GetByID(r.Context(), id.String())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
