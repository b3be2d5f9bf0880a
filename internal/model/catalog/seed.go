package catalog

func floatPtr(v float64) *float64 { return &v }

// SeedUniversities provides a small built-in catalog so the server can run
// without the normalized stores on disk (demos, tests).
func SeedUniversities() []University {
	return []University{
		{
			ID:   "uk-bath",
			Name: "University of Bath",
			Offer: Offer{
				Accreditations:    []string{"RIBA", "ARB"},
				StudentStaffRatio: floatPtr(13.5),
			},
			Admissions: Admissions{
				RequiresPortfolio: true,
				EnglishMin:        &EnglishMin{IELTSOverall: floatPtr(6.5)},
			},
			Fees:   Fees{Tuition: &Money{Amount: 27900, Currency: "GBP"}},
			Campus: Campus{Setting: "suburban", PMROK: true},
		},
		{
			ID:   "uk-ucl",
			Name: "UCL (Bartlett)",
			Offer: Offer{
				Accreditations:    []string{"RIBA", "ARB"},
				StudentStaffRatio: floatPtr(11.0),
			},
			Admissions: Admissions{
				RequiresPortfolio: true,
				EnglishMin:        &EnglishMin{IELTSOverall: floatPtr(7.0)},
			},
			Fees:   Fees{Tuition: &Money{Amount: 31200, Currency: "GBP"}},
			Campus: Campus{Setting: "urban", PMROK: true},
		},
		{
			ID:   "uk-sheffield",
			Name: "University of Sheffield",
			Offer: Offer{
				Accreditations:    []string{"RIBA"},
				StudentStaffRatio: floatPtr(15.2),
			},
			Admissions: Admissions{
				RequiresPortfolio: true,
				EnglishMin:        &EnglishMin{IELTSOverall: floatPtr(6.5)},
			},
			Fees:   Fees{Tuition: &Money{Amount: 24500, Currency: "GBP"}},
			Campus: Campus{Setting: "urban", PMROK: true},
		},
		{
			ID:   "uk-mmu",
			Name: "Manchester Metropolitan University",
			Offer: Offer{
				Accreditations:    []string{"RIBA", "ARB"},
				StudentStaffRatio: floatPtr(17.8),
			},
			Admissions: Admissions{
				RequiresPortfolio: false,
				EnglishMin:        &EnglishMin{IELTSOverall: floatPtr(6.0)},
			},
			Fees:   Fees{Tuition: &Money{Amount: 19800, Currency: "GBP"}},
			Campus: Campus{Setting: "urban", PMROK: false},
		},
		{
			ID:   "uk-liverpool",
			Name: "University of Liverpool",
			Offer: Offer{
				Accreditations:    []string{"RIBA", "ARB"},
				StudentStaffRatio: floatPtr(14.1),
			},
			Admissions: Admissions{
				RequiresPortfolio: true,
				EnglishMin:        &EnglishMin{IELTSOverall: floatPtr(6.0)},
			},
			Fees:   Fees{Tuition: &Money{Amount: 23400, Currency: "GBP"}},
			Campus: Campus{Setting: "suburban", PMROK: true},
		},
		{
			ID:   "uk-dundee",
			Name: "University of Dundee",
			Offer: Offer{
				Accreditations:    []string{"ARB"},
				StudentStaffRatio: floatPtr(20.5),
			},
			Admissions: Admissions{
				RequiresPortfolio: false,
			},
			Fees:   Fees{Tuition: &Money{Amount: 21100, Currency: "GBP"}},
			Campus: Campus{Setting: "rural", PMROK: false},
		},
	}
}

// SeedStudents provides one demo applicant matching the seed catalog.
func SeedStudents() []Student {
	return []Student{
		{
			ID: "demo",
			Academics: StudentAcademics{
				Grades:  map[string]float64{"arts_plastiques": 15, "maths": 13},
				English: EnglishLevel{Test: "IELTS", Score: floatPtr(6.5)},
			},
			Budget:      StudentBudget{AnnualTotal: &Money{Amount: 38000, Currency: "EUR"}},
			Preferences: StudentPreferences{CampusSetting: "urban"},
		},
	}
}
