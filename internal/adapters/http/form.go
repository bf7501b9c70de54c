package httpadapter

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("pages").
		Funcs(template.FuncMap{"amount": report.FormatAmount}).
		ParseFS(templateFS, "templates/*.html"),
)

type formOptions struct {
	Gender       []string
	YesNo        []string
	Dependents   []string
	Education    []string
	PropertyArea []string
}

var widgetOptions = formOptions{
	Gender:       []string{"Male", "Female"},
	YesNo:        []string{"Yes", "No"},
	Dependents:   []string{"0", "1", "2", "3+"},
	Education:    []string{"Graduate", "Not Graduate"},
	PropertyArea: []string{"Urban", "Semiurban", "Rural"},
}

type formResult struct {
	Approved       bool
	Sentence       string
	Confidence     string
	ReportURL      string
	ReportFilename string
}

type formPage struct {
	App     domain.Application
	Options formOptions
	MinTerm int
	MaxTerm int
	Error   string
	Result  *formResult
}

func newFormPage(app domain.Application) formPage {
	return formPage{
		App:     app,
		Options: widgetOptions,
		MinTerm: domain.MinLoanTermYears,
		MaxTerm: domain.MaxLoanTermYears,
	}
}

func (rt *Router) showForm(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	rt.renderForm(w, http.StatusOK, newFormPage(domain.DefaultApplication()))
}

func (rt *Router) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		page := newFormPage(domain.DefaultApplication())
		page.Error = "could not read the submitted form"
		rt.renderForm(w, http.StatusBadRequest, page)
		return
	}

	app, err := applicationFromForm(r)
	if err != nil {
		rt.recordFailure(channelForm, err)
		page := newFormPage(app)
		page.Error = publicMessage(err)
		rt.renderForm(w, http.StatusBadRequest, page)
		return
	}

	assessment, err := rt.assessor.Assess(r.Context(), app)
	if err != nil {
		rt.recordFailure(channelForm, err)
		status := mapErrorToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("form_prediction_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
		}
		page := newFormPage(app)
		page.Error = publicMessage(err)
		rt.renderForm(w, status, page)
		return
	}
	rt.recordAssessment(channelForm, assessment)

	page := newFormPage(app)
	page.Result = &formResult{
		Approved:   assessment.Result.Approved,
		Sentence:   assessment.Result.Sentence(),
		Confidence: assessment.Result.ConfidenceText(),
	}
	if assessment.Report != nil {
		page.Result.ReportURL = rt.reportURL(assessment.Report.ID)
		page.Result.ReportFilename = assessment.Report.Filename
	}
	rt.renderForm(w, http.StatusOK, page)
}

// applicationFromForm reads the posted widgets. Values that fail to parse
// are reported with their field; the partially filled application is
// returned so the form can be shown again.
func applicationFromForm(r *http.Request) (domain.Application, error) {
	app := domain.DefaultApplication()
	text := func(name string, dst *string) {
		if v, ok := r.PostForm[name]; ok && len(v) > 0 {
			*dst = strings.TrimSpace(v[0])
		}
	}
	text("gender", &app.Gender)
	text("married", &app.Married)
	text("dependents", &app.Dependents)
	text("education", &app.Education)
	text("self_employed", &app.SelfEmployed)
	text("credit_history", &app.CreditHistory)
	text("property_area", &app.PropertyArea)

	var errs []error
	number := func(name, field string, dst *float64) {
		raw := strings.TrimSpace(r.PostForm.Get(name))
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, domain.InvalidField("parse form", field, raw, "must be a number"))
			return
		}
		*dst = v
	}
	number("applicant_income", "applicant_income", &app.ApplicantIncome)
	number("coapplicant_income", "coapplicant_income", &app.CoapplicantIncome)
	number("loan_amount", "loan_amount", &app.LoanAmount)

	rawTerm := strings.TrimSpace(r.PostForm.Get("loan_term"))
	if term, err := strconv.Atoi(rawTerm); err != nil {
		errs = append(errs, domain.InvalidField("parse form", "loan_term_years", rawTerm, "must be a whole number of years"))
	} else {
		app.LoanTermYears = term
	}

	if len(errs) > 0 {
		return app, errs[0]
	}
	return app, nil
}

func (rt *Router) renderForm(w http.ResponseWriter, status int, page formPage) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "form.html", page); err != nil {
		slog.Error("render_form_failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (rt *Router) downloadReport(w http.ResponseWriter, r *http.Request) {
	rep, body, err := rt.reports.Open(r.Context(), r.PathValue("id"))
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("report_download_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
		}
		http.Error(w, publicMessage(err), status)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", rep.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+rep.Filename+`"`)
	if rep.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(rep.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("report_download_interrupted", "report_id", rep.ID, "error", err)
	}
}
