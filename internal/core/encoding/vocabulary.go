package encoding

import (
	"maps"
	"slices"
	"strings"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

// Vocabulary maps the categorical tokens of one frontend onto typed
// categories. Every table is a closed set: a token missing from it is
// rejected rather than falling through to a default.
type Vocabulary struct {
	Name          string
	Gender        map[string]domain.Gender
	Married       map[string]bool
	Dependents    map[string]domain.Dependents
	Education     map[string]domain.Education
	SelfEmployed  map[string]bool
	CreditHistory map[string]bool
	PropertyArea  map[string]domain.PropertyArea
}

var dependentsTokens = map[string]domain.Dependents{
	"0":  domain.DependentsNone,
	"1":  domain.DependentsOne,
	"2":  domain.DependentsTwo,
	"3+": domain.DependentsThreePlus,
}

var propertyAreaTokens = map[string]domain.PropertyArea{
	"Rural":     domain.PropertyAreaRural,
	"Semiurban": domain.PropertyAreaSemiurban,
	"Urban":     domain.PropertyAreaUrban,
}

// FormVocabulary covers the interactive form and the JSON API.
var FormVocabulary = Vocabulary{
	Name:       "form",
	Gender:     map[string]domain.Gender{"Male": domain.GenderMale, "Female": domain.GenderFemale},
	Married:    map[string]bool{"Yes": true, "No": false},
	Dependents: dependentsTokens,
	Education: map[string]domain.Education{
		"Graduate":     domain.EducationGraduate,
		"Not Graduate": domain.EducationNotGraduate,
		"NotGraduate":  domain.EducationNotGraduate,
	},
	SelfEmployed:  map[string]bool{"Yes": true, "No": false},
	CreditHistory: map[string]bool{"Yes": true, "No": false},
	PropertyArea:  propertyAreaTokens,
}

// PromptVocabulary covers the text-prompt CLI, whose binary flags use
// prefixed tokens (c_yes, s_yes) and lower-case yes/no.
var PromptVocabulary = Vocabulary{
	Name:       "prompt",
	Gender:     map[string]domain.Gender{"male": domain.GenderMale, "female": domain.GenderFemale},
	Married:    map[string]bool{"yes": true, "no": false},
	Dependents: dependentsTokens,
	Education: map[string]domain.Education{
		"Graduate":     domain.EducationGraduate,
		"Not Graduate": domain.EducationNotGraduate,
	},
	SelfEmployed:  map[string]bool{"s_yes": true, "s_no": false},
	CreditHistory: map[string]bool{"c_yes": true, "c_no": false},
	PropertyArea:  propertyAreaTokens,
}

// Tokens lists the accepted tokens of a table in a stable order.
func Tokens[T any](table map[string]T) []string {
	return slices.Sorted(maps.Keys(table))
}

func lookup[T any](operation string, table map[string]T, field, value string) (T, error) {
	v, ok := table[value]
	if !ok {
		var zero T
		return zero, domain.InvalidField(operation, field, value, "expected one of "+strings.Join(Tokens(table), ", "))
	}
	return v, nil
}
