package domain

import (
	"fmt"
	"math"
	"strconv"
)

const FeatureCount = 10

// FeatureNames is the column order the classifier was trained on.
var FeatureNames = [FeatureCount]string{
	"Gender",
	"Married",
	"Dependents",
	"Education",
	"Self_Employed",
	"LoanAmount_log",
	"Loan_Amount_Term_log",
	"Credit_History",
	"Property_Area",
	"TotalIncome_log",
}

const (
	FeatureGender = iota
	FeatureMarried
	FeatureDependents
	FeatureEducation
	FeatureSelfEmployed
	FeatureLoanAmountLog
	FeatureLoanTermLog
	FeatureCreditHistory
	FeaturePropertyArea
	FeatureTotalIncomeLog
)

// FeatureVector is the positional model input. Positions follow FeatureNames.
type FeatureVector [FeatureCount]float64

func (v FeatureVector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}

// CheckFinite rejects vectors carrying NaN or an infinity.
func (v FeatureVector) CheckFinite(operation string) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return InvalidField(operation, FeatureNames[i], strconv.FormatFloat(x, 'g', -1, 64), "must be a finite number")
		}
	}
	return nil
}

// FeatureVectorFromSlice checks the dimension of an untyped row.
func FeatureVectorFromSlice(values []float64) (FeatureVector, error) {
	var v FeatureVector
	if len(values) != FeatureCount {
		return v, WrapError(ErrDimensionMismatch, "feature vector", fmt.Errorf("want %d values, got %d", FeatureCount, len(values)))
	}
	copy(v[:], values)
	return v, nil
}

// SameFeatureOrder reports whether names match FeatureNames exactly.
func SameFeatureOrder(names []string) bool {
	if len(names) != FeatureCount {
		return false
	}
	for i, name := range names {
		if name != FeatureNames[i] {
			return false
		}
	}
	return true
}
