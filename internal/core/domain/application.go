package domain

// Application is the applicant record as entered in the form, in human units:
// incomes in LPA, loan amount in Lakhs, loan term in years. Categorical fields
// keep the raw token so reports can echo exactly what was submitted.
type Application struct {
	Gender            string  `json:"gender"`
	Married           string  `json:"married"`
	Dependents        string  `json:"dependents"`
	Education         string  `json:"education"`
	SelfEmployed      string  `json:"self_employed"`
	ApplicantIncome   float64 `json:"applicant_income_lpa"`
	CoapplicantIncome float64 `json:"coapplicant_income_lpa"`
	LoanAmount        float64 `json:"loan_amount_lakh"`
	LoanTermYears     int     `json:"loan_term_years"`
	CreditHistory     string  `json:"credit_history"`
	PropertyArea      string  `json:"property_area"`
}

// Form limits enforced by the input widgets.
const (
	MinLoanTermYears = 1
	MaxLoanTermYears = 30
)

// DefaultApplication returns the values the form is pre-filled with.
func DefaultApplication() Application {
	return Application{
		Gender:            "Male",
		Married:           "Yes",
		Dependents:        "0",
		Education:         "Graduate",
		SelfEmployed:      "No",
		ApplicantIncome:   6.0,
		CoapplicantIncome: 1.5,
		LoanAmount:        5.0,
		LoanTermYears:     20,
		CreditHistory:     "Yes",
		PropertyArea:      "Urban",
	}
}

// PromptAnswers holds the raw strings collected by the text-prompt CLI.
// Amounts are already at dataset scale: monthly incomes, loan amount in
// thousands, loan term in months.
type PromptAnswers struct {
	ApplicantIncome   string
	CoapplicantIncome string
	CreditHistory     string
	Dependents        string
	Education         string
	Gender            string
	LoanAmount        string
	LoanTermMonths    string
	Married           string
	PropertyArea      string
	SelfEmployed      string
}

type Gender int

const (
	GenderFemale Gender = 0
	GenderMale   Gender = 1
)

type Dependents int

const (
	DependentsNone      Dependents = 0
	DependentsOne       Dependents = 1
	DependentsTwo       Dependents = 2
	DependentsThreePlus Dependents = 3
)

type Education int

const (
	EducationGraduate    Education = 0
	EducationNotGraduate Education = 1
)

type PropertyArea int

const (
	PropertyAreaRural     PropertyArea = 0
	PropertyAreaSemiurban PropertyArea = 1
	PropertyAreaUrban     PropertyArea = 2
)

// DatasetRecord is an application resolved to typed categories and dataset
// units. The integer value of each category is its model encoding.
type DatasetRecord struct {
	Gender        Gender
	Married       bool
	Dependents    Dependents
	Education     Education
	SelfEmployed  bool
	CreditHistory bool
	PropertyArea  PropertyArea

	ApplicantIncome   float64 // monthly
	CoapplicantIncome float64 // monthly
	LoanAmount        float64 // thousands
	LoanTermMonths    float64
}
