// Package encoding turns applicant input into the positional feature vector
// the classifier was trained on. Everything here is pure.
package encoding

import (
	"math"
	"strconv"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

const (
	rupeesPerLakh  = 100000
	monthsPerYear  = 12
	lakhToThousand = 100
)

// MonthlyIncome converts an annual income in LPA to the dataset's monthly
// figure, truncated toward zero.
func MonthlyIncome(lpa float64) float64 {
	return math.Trunc(lpa * rupeesPerLakh / monthsPerYear)
}

// LoanAmountThousands converts Lakhs to the dataset's thousands unit,
// truncated toward zero.
func LoanAmountThousands(lakh float64) float64 {
	return math.Trunc(lakh * lakhToThousand)
}

func TermMonths(years int) float64 {
	return float64(years * monthsPerYear)
}

// FromForm resolves a form submission: categories via FormVocabulary and
// amounts converted from human units.
func FromForm(app domain.Application) (domain.DatasetRecord, error) {
	const op = "encode form"

	rec, err := resolveCategories(op, FormVocabulary, categoricalFields{
		gender:        app.Gender,
		married:       app.Married,
		dependents:    app.Dependents,
		education:     app.Education,
		selfEmployed:  app.SelfEmployed,
		creditHistory: app.CreditHistory,
		propertyArea:  app.PropertyArea,
	})
	if err != nil {
		return domain.DatasetRecord{}, err
	}

	if err := checkAmount(op, "applicant_income", app.ApplicantIncome); err != nil {
		return domain.DatasetRecord{}, err
	}
	if err := checkAmount(op, "coapplicant_income", app.CoapplicantIncome); err != nil {
		return domain.DatasetRecord{}, err
	}
	if err := checkAmount(op, "loan_amount", app.LoanAmount); err != nil {
		return domain.DatasetRecord{}, err
	}
	if app.LoanTermYears < domain.MinLoanTermYears || app.LoanTermYears > domain.MaxLoanTermYears {
		return domain.DatasetRecord{}, domain.InvalidField(op, "loan_term_years", strconv.Itoa(app.LoanTermYears), "must be between 1 and 30")
	}

	rec.ApplicantIncome = MonthlyIncome(app.ApplicantIncome)
	rec.CoapplicantIncome = MonthlyIncome(app.CoapplicantIncome)
	rec.LoanAmount = LoanAmountThousands(app.LoanAmount)
	rec.LoanTermMonths = TermMonths(app.LoanTermYears)
	if err := checkConverted(op, app.ApplicantIncome, app.CoapplicantIncome, app.LoanAmount, rec); err != nil {
		return domain.DatasetRecord{}, err
	}
	return rec, nil
}

// FromPrompt resolves raw CLI answers. Amounts are taken as already being at
// dataset scale.
func FromPrompt(ans domain.PromptAnswers) (domain.DatasetRecord, error) {
	const op = "encode prompt"

	rec, err := resolveCategories(op, PromptVocabulary, categoricalFields{
		gender:        ans.Gender,
		married:       ans.Married,
		dependents:    ans.Dependents,
		education:     ans.Education,
		selfEmployed:  ans.SelfEmployed,
		creditHistory: ans.CreditHistory,
		propertyArea:  ans.PropertyArea,
	})
	if err != nil {
		return domain.DatasetRecord{}, err
	}

	if rec.ApplicantIncome, err = parseAmount(op, "applicant_income", ans.ApplicantIncome); err != nil {
		return domain.DatasetRecord{}, err
	}
	if rec.CoapplicantIncome, err = parseAmount(op, "coapplicant_income", ans.CoapplicantIncome); err != nil {
		return domain.DatasetRecord{}, err
	}
	if rec.LoanAmount, err = parseAmount(op, "loan_amount", ans.LoanAmount); err != nil {
		return domain.DatasetRecord{}, err
	}
	if rec.LoanTermMonths, err = parseAmount(op, "loan_amount_term", ans.LoanTermMonths); err != nil {
		return domain.DatasetRecord{}, err
	}
	if rec.LoanTermMonths < 1 {
		return domain.DatasetRecord{}, domain.InvalidField(op, "loan_amount_term", ans.LoanTermMonths, "must be at least 1 month")
	}
	if total := rec.ApplicantIncome + rec.CoapplicantIncome; math.IsInf(total, 0) {
		return domain.DatasetRecord{}, domain.InvalidField(op, "coapplicant_income", ans.CoapplicantIncome, "total income is out of range")
	}
	return rec, nil
}

// Vectorize lays a resolved record out in FeatureNames order. Amounts go
// through ln(max(x, 1)) so zero or tiny values map to 0.
func Vectorize(rec domain.DatasetRecord) domain.FeatureVector {
	var v domain.FeatureVector
	v[domain.FeatureGender] = float64(rec.Gender)
	v[domain.FeatureMarried] = flag(rec.Married)
	v[domain.FeatureDependents] = float64(rec.Dependents)
	v[domain.FeatureEducation] = float64(rec.Education)
	v[domain.FeatureSelfEmployed] = flag(rec.SelfEmployed)
	v[domain.FeatureLoanAmountLog] = logFloor(rec.LoanAmount)
	v[domain.FeatureLoanTermLog] = logFloor(rec.LoanTermMonths)
	v[domain.FeatureCreditHistory] = flag(rec.CreditHistory)
	v[domain.FeaturePropertyArea] = float64(rec.PropertyArea)
	v[domain.FeatureTotalIncomeLog] = logFloor(rec.ApplicantIncome + rec.CoapplicantIncome)
	return v
}

func EncodeForm(app domain.Application) (domain.FeatureVector, error) {
	rec, err := FromForm(app)
	if err != nil {
		return domain.FeatureVector{}, err
	}
	return Vectorize(rec), nil
}

func EncodePrompt(ans domain.PromptAnswers) (domain.FeatureVector, error) {
	rec, err := FromPrompt(ans)
	if err != nil {
		return domain.FeatureVector{}, err
	}
	return Vectorize(rec), nil
}

type categoricalFields struct {
	gender        string
	married       string
	dependents    string
	education     string
	selfEmployed  string
	creditHistory string
	propertyArea  string
}

func resolveCategories(op string, vocab Vocabulary, f categoricalFields) (domain.DatasetRecord, error) {
	var rec domain.DatasetRecord
	var err error

	if rec.Gender, err = lookup(op, vocab.Gender, "gender", f.gender); err != nil {
		return rec, err
	}
	if rec.Married, err = lookup(op, vocab.Married, "married", f.married); err != nil {
		return rec, err
	}
	if rec.Dependents, err = lookup(op, vocab.Dependents, "dependents", f.dependents); err != nil {
		return rec, err
	}
	if rec.Education, err = lookup(op, vocab.Education, "education", f.education); err != nil {
		return rec, err
	}
	if rec.SelfEmployed, err = lookup(op, vocab.SelfEmployed, "self_employed", f.selfEmployed); err != nil {
		return rec, err
	}
	if rec.CreditHistory, err = lookup(op, vocab.CreditHistory, "credit_history", f.creditHistory); err != nil {
		return rec, err
	}
	if rec.PropertyArea, err = lookup(op, vocab.PropertyArea, "property_area", f.propertyArea); err != nil {
		return rec, err
	}
	return rec, nil
}

func checkAmount(op, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.InvalidField(op, field, formatAmount(v), "must be a finite number")
	}
	if v < 0 {
		return domain.InvalidField(op, field, formatAmount(v), "must not be negative")
	}
	return nil
}

// checkConverted rejects amounts that overflow once scaled to dataset units.
func checkConverted(op string, applicant, coapplicant, loan float64, rec domain.DatasetRecord) error {
	if math.IsInf(rec.ApplicantIncome, 0) {
		return domain.InvalidField(op, "applicant_income", formatAmount(applicant), "is out of range")
	}
	if math.IsInf(rec.CoapplicantIncome, 0) {
		return domain.InvalidField(op, "coapplicant_income", formatAmount(coapplicant), "is out of range")
	}
	if math.IsInf(rec.LoanAmount, 0) {
		return domain.InvalidField(op, "loan_amount", formatAmount(loan), "is out of range")
	}
	if math.IsInf(rec.ApplicantIncome+rec.CoapplicantIncome, 0) {
		return domain.InvalidField(op, "coapplicant_income", formatAmount(coapplicant), "total income is out of range")
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseAmount(op, field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.InvalidField(op, field, raw, "must be a number")
	}
	if err := checkAmount(op, field, v); err != nil {
		return 0, err
	}
	return v, nil
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func logFloor(x float64) float64 {
	return math.Log(math.Max(x, 1))
}
