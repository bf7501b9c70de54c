// Package spreadsheet reads batches of loan applications from xlsx
// workbooks and writes the scored results back.
package spreadsheet

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

const (
	ResultsSheet = "Predictions"
	SummarySheet = "Summary"
)

// Columns is the input header. Matching ignores case and surrounding spaces;
// extra columns are ignored.
var Columns = []string{
	"Gender",
	"Married",
	"Dependents",
	"Education",
	"Self_Employed",
	"ApplicantIncome_LPA",
	"CoapplicantIncome_LPA",
	"LoanAmount_Lakh",
	"Loan_Term_Years",
	"Credit_History",
	"Property_Area",
}

var resultColumns = []string{"Verdict", "Confidence", "Approval_Probability", "Error"}

// ReadApplications decodes the first sheet. Rows that fail to decode carry
// their error instead of aborting the read.
func ReadApplications(r io.Reader) ([]domain.BatchRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open workbook", fmt.Errorf("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read header", fmt.Errorf("sheet %q is empty", sheets[0]))
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]domain.BatchRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		line := i + 2
		app, err := decodeRow(cells, index)
		out = append(out, domain.BatchRow{Line: line, Application: app, Err: err})
	}
	return out, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(Columns))
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for _, col := range Columns {
			if strings.ToLower(col) == name {
				index[col] = i
			}
		}
	}
	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read header", fmt.Errorf("missing columns: %s", strings.Join(missing, ", ")))
	}
	return index, nil
}

func decodeRow(cells []string, index map[string]int) (domain.Application, error) {
	cell := func(col string) string {
		i := index[col]
		if i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	app := domain.Application{
		Gender:        cell("Gender"),
		Married:       cell("Married"),
		Dependents:    cell("Dependents"),
		Education:     cell("Education"),
		SelfEmployed:  cell("Self_Employed"),
		CreditHistory: cell("Credit_History"),
		PropertyArea:  cell("Property_Area"),
	}

	var err error
	if app.ApplicantIncome, err = parseNumber("ApplicantIncome_LPA", cell("ApplicantIncome_LPA")); err != nil {
		return app, err
	}
	if app.CoapplicantIncome, err = parseNumber("CoapplicantIncome_LPA", cell("CoapplicantIncome_LPA")); err != nil {
		return app, err
	}
	if app.LoanAmount, err = parseNumber("LoanAmount_Lakh", cell("LoanAmount_Lakh")); err != nil {
		return app, err
	}
	term, err := parseNumber("Loan_Term_Years", cell("Loan_Term_Years"))
	if err != nil {
		return app, err
	}
	if term != math.Trunc(term) {
		return app, domain.InvalidField("decode row", "Loan_Term_Years", cell("Loan_Term_Years"), "must be a whole number of years")
	}
	app.LoanTermYears = int(term)
	return app, nil
}

func parseNumber(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.InvalidField("decode row", field, raw, "must be a number")
	}
	return v, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteResults writes one output row per result, echoing the input columns,
// plus a summary sheet.
func WriteResults(w io.Writer, results []domain.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, 0, len(Columns)+len(resultColumns)+1)
	header = append(header, "Line")
	for _, col := range append(append([]string(nil), Columns...), resultColumns...) {
		header = append(header, col)
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, res := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := resultRow(res)
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", res.Row.Line, err)
		}
	}

	if err := writeSummary(f, domain.Summarize(results)); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func resultRow(res domain.BatchResult) []any {
	app := res.Row.Application
	row := []any{
		res.Row.Line,
		app.Gender, app.Married, app.Dependents, app.Education, app.SelfEmployed,
		app.ApplicantIncome, app.CoapplicantIncome, app.LoanAmount, app.LoanTermYears,
		app.CreditHistory, app.PropertyArea,
	}
	if res.Err != nil {
		return append(row, "", "", "", res.Err.Error())
	}
	return append(row,
		res.Result.Verdict().String(),
		res.Result.ConfidenceText(),
		res.Result.ApprovalProbability,
		"",
	)
}

func writeSummary(f *excelize.File, s domain.BatchSummary) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	rows := [][]any{
		{"Total", s.Total},
		{"Approved", s.Approved},
		{"Rejected", s.Rejected},
		{"Failed", s.Failed},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
