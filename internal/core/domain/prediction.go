package domain

import "fmt"

type Verdict int

const (
	VerdictRejected Verdict = 0
	VerdictApproved Verdict = 1
)

func (v Verdict) String() string {
	if v == VerdictApproved {
		return "approved"
	}
	return "rejected"
}

const (
	ApprovedSentence = "The model predicts that the applicant WILL get the loan."
	RejectedSentence = "The model predicts that the applicant WILL NOT get the loan."
)

// PredictionResult is created per request and discarded after rendering.
type PredictionResult struct {
	Approved bool `json:"approved"`
	// ApprovalProbability is P(Approved) as scored by the model.
	ApprovalProbability float64 `json:"approval_probability"`
}

func NewPredictionResult(verdict Verdict, approvalProbability float64) PredictionResult {
	return PredictionResult{
		Approved:            verdict == VerdictApproved,
		ApprovalProbability: approvalProbability,
	}
}

func (r PredictionResult) Verdict() Verdict {
	if r.Approved {
		return VerdictApproved
	}
	return VerdictRejected
}

// Confidence is the probability of the displayed verdict.
func (r PredictionResult) Confidence() float64 {
	if r.Approved {
		return r.ApprovalProbability
	}
	return 1 - r.ApprovalProbability
}

func (r PredictionResult) Sentence() string {
	if r.Approved {
		return ApprovedSentence
	}
	return RejectedSentence
}

func (r PredictionResult) ConfidenceText() string {
	return FormatPercent(r.Confidence())
}

// FormatPercent renders a probability as a percentage with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}
