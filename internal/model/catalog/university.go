package catalog

// University is a normalized institution record from the universities store.
type University struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Offer      Offer      `json:"offer"`
	Admissions Admissions `json:"admissions"`
	Fees       Fees       `json:"fees"`
	Campus     Campus     `json:"campus"`
}

// Offer describes the academic offer: accreditations and teaching intensity.
type Offer struct {
	Accreditations    []string `json:"accreditations,omitempty"`
	StudentStaffRatio *float64 `json:"student_staff_ratio,omitempty"`
}

// Admissions lists entry requirements relevant to the matching score.
type Admissions struct {
	RequiresPortfolio bool        `json:"requires_portfolio,omitempty"`
	EnglishMin        *EnglishMin `json:"english_min,omitempty"`
}

// EnglishMin is the minimum English certification the university asks for.
type EnglishMin struct {
	IELTSOverall *float64 `json:"ielts_overall,omitempty"`
}

// Fees holds the published cost figures.
type Fees struct {
	Tuition *Money `json:"tuition,omitempty"`
}

// Campus describes the physical campus.
type Campus struct {
	Setting string `json:"setting,omitempty"`
	PMROK   bool   `json:"pmr_ok,omitempty"`
}

// Accredited reports whether any of the given accreditation bodies appear
// in the university's offer.
func (u University) Accredited(bodies ...string) bool {
	for _, have := range u.Offer.Accreditations {
		for _, want := range bodies {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TuitionAmount returns the annual tuition and whether it is published.
func (u University) TuitionAmount() (float64, bool) {
	if u.Fees.Tuition == nil {
		return 0, false
	}
	return u.Fees.Tuition.Amount, true
}
