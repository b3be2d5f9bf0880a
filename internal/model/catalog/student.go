package catalog

// Student is a normalized applicant profile. Optional fields are pointers so
// an absent value is distinguishable from zero; the matching agent treats
// missing data as "unknown" rather than "bad".
type Student struct {
	ID          string             `json:"id"`
	Academics   StudentAcademics   `json:"academics"`
	Budget      StudentBudget      `json:"budget"`
	Preferences StudentPreferences `json:"preferences"`
	Constraints StudentConstraints `json:"constraints"`
}

// StudentAcademics holds grades keyed by subject and the English test level.
type StudentAcademics struct {
	Grades  map[string]float64 `json:"grades"`
	English EnglishLevel       `json:"english"`
}

// EnglishLevel is the student's current English certification, if any.
type EnglishLevel struct {
	Test  string   `json:"test,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// StudentBudget is the total annual budget the student is planning with.
type StudentBudget struct {
	AnnualTotal *Money `json:"annual_total,omitempty"`
}

// StudentPreferences captures soft preferences collected during the survey.
type StudentPreferences struct {
	CampusSetting string `json:"campus_setting,omitempty"`
}

// StudentConstraints captures hard constraints such as accessibility needs.
type StudentConstraints struct {
	PMR bool `json:"pmr,omitempty"`
}

// Money is an amount with its currency code.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
}

// Grade returns the grade for a subject and whether it is recorded.
func (s Student) Grade(subject string) (float64, bool) {
	if s.Academics.Grades == nil {
		return 0, false
	}
	g, ok := s.Academics.Grades[subject]
	return g, ok
}
