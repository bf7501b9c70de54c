package domain

// BatchRow is one spreadsheet row decoded into an application. Err is set
// when the row could not be decoded; such rows are carried through so the
// output keeps one line per input line.
type BatchRow struct {
	Line        int
	Application Application
	Err         error
}

type BatchResult struct {
	Row    BatchRow
	Result PredictionResult
	Err    error
}

type BatchSummary struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Failed   int `json:"failed"`
}

func Summarize(results []BatchResult) BatchSummary {
	s := BatchSummary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Result.Approved:
			s.Approved++
		default:
			s.Rejected++
		}
	}
	return s
}
