package domain

import "time"

const (
	ReportFilename = "Loan_Prediction_Report.pdf"
	ReportMimeType = "application/pdf"
)

// Report is the stored metadata of a generated PDF. The bytes live in object
// storage under StorageKey.
type Report struct {
	ID                  string    `json:"id"`
	Filename            string    `json:"filename"`
	MimeType            string    `json:"mime_type"`
	StorageKey          string    `json:"-"`
	SizeBytes           int64     `json:"size_bytes"`
	Approved            bool      `json:"approved"`
	ApprovalProbability float64   `json:"approval_probability"`
	CreatedAt           time.Time `json:"created_at"`
}

// Assessment bundles a prediction with the report generated for it.
type Assessment struct {
	Application Application      `json:"application"`
	Result      PredictionResult `json:"result"`
	Report      *Report          `json:"report,omitempty"`
}
